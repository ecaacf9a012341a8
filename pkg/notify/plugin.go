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

package notify

import (
	"context"
	"time"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// CompletionEvent is the process-wide "a transaction finished" broadcast.
// External caches (balances, activity feeds) subscribe; the core only emits.
type CompletionEvent struct {
	SessionID *wctypes.UUID   `json:"sessionId"`
	Network   wctypes.Network `json:"network"`
	TxHash    string          `json:"txHash,omitempty"`
	OrderID   string          `json:"orderId,omitempty"`
	Completed time.Time       `json:"completed"`
}

// Notifier is the completion broadcast contract
type Notifier interface {
	// TransactionCompleted emits the event. Implementations must not block
	// the caller on slow subscribers.
	TransactionCompleted(ctx context.Context, event *CompletionEvent) error
}
