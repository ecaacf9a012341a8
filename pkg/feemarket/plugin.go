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

package feemarket

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// FeeQuote is the network fee-rate data for one pricing tier
type FeeQuote struct {
	Level    wctypes.FeeLevel `json:"level"`
	GasPrice *wctypes.BigInt  `json:"gasPrice"`
	GasLimit int64            `json:"gasLimit"`
}

// Absolute returns the absolute fee this quote costs for the given extra
// gas allowance, in the network's fee currency
func (fq *FeeQuote) Absolute(feeCurrency wctypes.CurrencyID, extraGasLimit int64) *wctypes.Money {
	limit := wctypes.NewBigInt(fq.GasLimit + extraGasLimit)
	product := new(wctypes.BigInt)
	product.Int().Mul(fq.GasPrice.Int(), limit.Int())
	return &wctypes.Money{Currency: feeCurrency, Amount: product}
}

// FeeSchedule is one point-in-time snapshot of all tiers for a network
type FeeSchedule struct {
	Network wctypes.Network                `json:"network"`
	Quotes  map[wctypes.FeeLevel]*FeeQuote `json:"quotes"`
}

// Quote returns the tier data for a level, nil if the network does not price it
func (fs *FeeSchedule) Quote(level wctypes.FeeLevel) *FeeQuote {
	if fs == nil {
		return nil
	}
	return fs.Quotes[level]
}

// Levels lists the tiers this schedule prices
func (fs *FeeSchedule) Levels() []wctypes.FeeLevel {
	levels := make([]wctypes.FeeLevel, 0, len(fs.Quotes))
	for _, known := range []wctypes.FeeLevel{wctypes.FeeLevelRegular, wctypes.FeeLevelPriority, wctypes.FeeLevelCustom} {
		if _, ok := fs.Quotes[known]; ok {
			levels = append(levels, known)
		}
	}
	return levels
}

// Plugin is the fee oracle contract for network-priced assets
type Plugin interface {
	// Fees returns the current fee schedule for a network. One call returns
	// all tiers, so switching levels never needs a re-fetch.
	Fees(ctx context.Context, network wctypes.Network) (*FeeSchedule, error)
}
