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

package chain

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// BuildRequest carries everything needed to assemble a raw transaction.
// The wire format belongs to the implementation, never to the core.
type BuildRequest struct {
	Network         wctypes.Network `json:"network"`
	From            string          `json:"from"`
	Destination     string          `json:"destination"`
	Amount          *wctypes.BigInt `json:"amount"`
	GasPrice        *wctypes.BigInt `json:"gasPrice"`
	GasLimit        int64           `json:"gasLimit"`
	Nonce           uint64          `json:"nonce"`
	ContractAddress string          `json:"contractAddress,omitempty"`
	Reference       string          `json:"reference,omitempty"`
}

// RawTransaction is an opaque signed/serialized transaction
type RawTransaction []byte

// Receipt is the immediate acknowledgement of a dispatch
type Receipt struct {
	TxHash string `json:"txHash"`
}

// Plugin is the transaction builder + dispatcher + nonce source for one
// family of networks
type Plugin interface {
	// NextNonce reads the account nonce to use for the next transaction
	NextNonce(ctx context.Context, network wctypes.Network, address string) (uint64, error)

	// Build assembles and signs a raw transaction
	Build(ctx context.Context, req *BuildRequest) (RawTransaction, error)

	// Send broadcasts a raw transaction and returns the dispatch receipt
	Send(ctx context.Context, network wctypes.Network, raw RawTransaction) (*Receipt, error)
}
