// Copyright © 2023 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orders

import (
	"context"

	"github.com/aidarkhanov/nanoid"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

const orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewOrderID generates a short unique order id
func NewOrderID() string {
	return nanoid.Must(nanoid.Generate(orderIDAlphabet, 16))
}

// Plugin is the off-chain order service contract, for flows that must lock a
// quote before broadcast. The order record itself is owned by the service -
// the core only holds the id.
type Plugin interface {
	// Create locks an order for the transaction and returns its id
	Create(ctx context.Context, tx wctypes.PendingTransaction) (string, error)

	// Cancel abandons a previously created order
	Cancel(ctx context.Context, orderID string) error
}
