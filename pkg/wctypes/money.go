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

package wctypes

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyID identifies an asset, scoped to the network that carries it.
// Examples: "ethereum:native", "ethereum:erc20/0x1234..."
type CurrencyID string

func (c CurrencyID) String() string {
	return string(c)
}

// Network identifies the ledger a currency settles on
type Network string

func (n Network) String() string {
	return string(n)
}

// Money is an amount of a single asset, in integer base units
type Money struct {
	Currency CurrencyID `json:"currency"`
	Amount   *BigInt    `json:"amount"`
}

func NewMoney(currency CurrencyID, amount int64) *Money {
	return &Money{Currency: currency, Amount: NewBigInt(amount)}
}

func ZeroMoney(currency CurrencyID) *Money {
	return NewMoney(currency, 0)
}

func (m *Money) IsZero() bool {
	return m == nil || m.Amount.Sign() == 0
}

func (m *Money) IsNegative() bool {
	return m != nil && m.Amount.Sign() < 0
}

// Cmp compares amounts. It is the caller's responsibility to only
// compare money of the same currency.
func (m *Money) Cmp(m2 *Money) int {
	if m == nil {
		return NewBigInt(0).Cmp(m2.amountOrZero())
	}
	return m.Amount.Cmp(m2.amountOrZero())
}

func (m *Money) amountOrZero() *BigInt {
	if m == nil || m.Amount == nil {
		return NewBigInt(0)
	}
	return m.Amount
}

func (m *Money) String() string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}

// FiatValue is the display-currency leg of an amount, quoted at a point in time.
// Fiat math uses arbitrary precision decimals rather than base units.
type FiatValue struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

func NewFiatValue(currency string, value decimal.Decimal) *FiatValue {
	return &FiatValue{Currency: currency, Value: value}
}
