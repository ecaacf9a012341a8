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

package resolver

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// Destination is a resolved on-ledger destination for a transaction target
type Destination struct {
	Address string `json:"address"`
	// Reference is an optional secondary address/tag some networks require
	Reference string `json:"reference,omitempty"`
	// IsContract flags destinations that need an extra gas allowance
	IsContract bool `json:"isContract"`
}

// Plugin resolves abstract transaction targets to concrete destinations,
// absorbing chain-specific quirks so they don't duplicate across engines
type Plugin interface {
	Resolve(ctx context.Context, target *wctypes.TransactionTarget, asset wctypes.CurrencyID) (*Destination, error)
}
