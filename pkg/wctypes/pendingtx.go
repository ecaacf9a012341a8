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

// PendingTransaction is the single in-flight transaction of one processor
// session. It is an immutable value: every mutation goes through a With*
// transform that returns a new value, so a partially updated transaction can
// never be observed.
//
// The typed amount/fee fields are authoritative. Confirmations are derived
// presentation data and are never read back to recover an amount.
type PendingTransaction struct {
	SessionID *UUID `json:"sessionId"`

	Amount              *Money `json:"amount"`
	Available           *Money `json:"available"`
	FeeAmount           *Money `json:"feeAmount"`
	FeeForFullAvailable *Money `json:"feeForFullAvailable"`

	FeeSelection  FeeSelection    `json:"feeSelection"`
	Confirmations ConfirmationSet `json:"confirmations"`
	Validation    ValidationState `json:"validation"`

	SelectedFiatCurrency string `json:"selectedFiatCurrency,omitempty"`
	Quote                *Quote `json:"quote,omitempty"`
}

// SourceCurrency is the currency the transaction spends
func (pt PendingTransaction) SourceCurrency() CurrencyID {
	if pt.Amount != nil {
		return pt.Amount.Currency
	}
	if pt.Available != nil {
		return pt.Available.Currency
	}
	return ""
}

// WithAmount returns a copy with the requested spend amount replaced.
// Callers must have verified the currency matches SourceCurrency first.
func (pt PendingTransaction) WithAmount(amount *Money) PendingTransaction {
	pt.Amount = amount
	return pt
}

// WithBalances returns a copy with the actionable balance, and the fee that
// spending the full balance would cost, replaced
func (pt PendingTransaction) WithBalances(available, feeForFullAvailable *Money) PendingTransaction {
	pt.Available = available
	pt.FeeForFullAvailable = feeForFullAvailable
	return pt
}

// WithFee returns a copy with the absolute fee amount replaced
func (pt PendingTransaction) WithFee(feeAmount *Money) PendingTransaction {
	pt.FeeAmount = feeAmount
	return pt
}

// WithFeeLevel returns a copy with the selected level, recomputed fee amount,
// and any custom amount replaced. The level must already have been checked
// against the available set.
func (pt PendingTransaction) WithFeeLevel(level FeeLevel, feeAmount, customAmount *Money) PendingTransaction {
	pt.FeeSelection.SelectedLevel = level
	pt.FeeSelection.CustomAmount = customAmount
	pt.FeeAmount = feeAmount
	return pt
}

// WithConfirmations returns a copy with the confirmation list wholesale replaced
func (pt PendingTransaction) WithConfirmations(confirmations ConfirmationSet) PendingTransaction {
	pt.Confirmations = confirmations
	return pt
}

// WithQuote returns a copy with the price quote replaced
func (pt PendingTransaction) WithQuote(quote *Quote) PendingTransaction {
	pt.Quote = quote
	return pt
}

// WithValidation returns a copy with the validation outcome replaced
func (pt PendingTransaction) WithValidation(validation ValidationState) PendingTransaction {
	pt.Validation = validation
	return pt
}
