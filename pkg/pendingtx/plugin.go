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

package pendingtx

import (
	"context"
	"time"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// Record is one broadcast transaction tracked until it settles
type Record struct {
	ID        *wctypes.UUID   `json:"id"`
	Network   wctypes.Network `json:"network"`
	TxHash    string          `json:"txHash"`
	Created   time.Time       `json:"created"`
	Confirmed bool            `json:"confirmed"`
}

// Plugin is the pending-transaction repository contract. It is a cross-session
// dependency, so it must be explicitly injected into each engine - never a
// process-wide singleton.
type Plugin interface {
	// IsWaitingOnTransaction reports whether any transaction for this network
	// is currently broadcast-pending. Callers treat an error as pending
	// (fail closed).
	IsWaitingOnTransaction(ctx context.Context, network wctypes.Network) (bool, error)

	// RecordSubmitted tracks a freshly dispatched transaction
	RecordSubmitted(ctx context.Context, record *Record) error

	// MarkConfirmed clears a transaction once the network confirms it
	MarkConfirmed(ctx context.Context, txHash string) error
}
