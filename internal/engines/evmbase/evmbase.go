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

// Package evmbase carries helpers shared by all engines that submit to
// EVM-family networks - destination resolution, gas allowances, and the
// fiat legs of confirmations.
package evmbase

import (
	"context"
	"strings"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/pkg/rates"
	"github.com/kaleido-io/walletcore/pkg/resolver"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the base-unit scale of EVM native currencies (wei)
const NativeDecimals int32 = 18

// NativeCurrency returns the fee currency of an EVM network
func NativeCurrency(network wctypes.Network) wctypes.CurrencyID {
	return wctypes.CurrencyID(string(network) + ":native")
}

// TokenContract extracts the contract address from a token currency id of the
// form "<network>:erc20/<address>". Empty for native currencies.
func TokenContract(currency wctypes.CurrencyID) string {
	s := string(currency)
	if i := strings.Index(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// ResolveDestination resolves the bound target to a concrete address,
// wrapping any resolver failure
func ResolveDestination(ctx context.Context, rp resolver.Plugin, target *wctypes.TransactionTarget, asset wctypes.CurrencyID) (*resolver.Destination, error) {
	dest, err := rp.Resolve(ctx, target, asset)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDestinationResolveFailed, target.Type)
	}
	return dest, nil
}

// ExtraGasLimit is the additional gas allowance a destination needs beyond
// the fee oracle's estimate. Contract destinations may run arbitrary code on
// receipt, so they get a configured cushion.
func ExtraGasLimit(dest *resolver.Destination) int64 {
	if dest != nil && dest.IsContract {
		return int64(config.GetInt(config.GasConnectExtraGasContract))
	}
	return 0
}

// FiatLeg converts an asset amount to its display-currency leg using the
// given rate-per-whole-unit
func FiatLeg(amount *wctypes.Money, decimals int32, rate decimal.Decimal, fiatCurrency string) *wctypes.FiatValue {
	if amount == nil || amount.Amount == nil {
		return wctypes.NewFiatValue(fiatCurrency, decimal.Zero)
	}
	whole := decimal.NewFromBigInt(amount.Amount.Int(), -decimals)
	return wctypes.NewFiatValue(fiatCurrency, whole.Mul(rate))
}

// FiatLegFor fetches the conversion rate and builds the fiat leg, wrapping
// rate lookup failures
func FiatLegFor(ctx context.Context, rp rates.Plugin, amount *wctypes.Money, decimals int32, fiatCurrency string) (*wctypes.FiatValue, error) {
	if fiatCurrency == "" || amount == nil {
		return nil, nil
	}
	rate, err := rp.Rate(ctx, amount.Currency, fiatCurrency)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgQuoteUnavailable, amount.Currency, fiatCurrency)
	}
	return FiatLeg(amount, decimals, rate, fiatCurrency), nil
}
