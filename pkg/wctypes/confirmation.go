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
	"github.com/shopspring/decimal"
)

// ConfirmationType is the closed set of confirmation cases. A transaction's
// confirmation list carries at most one entry per type, and updates are
// matched by type, never by value.
type ConfirmationType = WCEnum

var (
	ConfirmationSendValue    = wcEnum("confirmationtype", "send_destination_value")
	ConfirmationSource       = wcEnum("confirmationtype", "source")
	ConfirmationDestination  = wcEnum("confirmationtype", "destination")
	ConfirmationFeeSelection = wcEnum("confirmationtype", "fee_selection")
	ConfirmationFeedTotal    = wcEnum("confirmationtype", "feed_total")
	ConfirmationExchangeRate = wcEnum("confirmationtype", "exchange_rate")
	ConfirmationMemo         = wcEnum("confirmationtype", "memo")
)

// FeeState qualifies a fee amount relative to the network's current recommendation
type FeeState = WCEnum

var (
	FeeStateValid            = wcEnum("feestate", "valid")
	FeeStateUnderRecommended = wcEnum("feestate", "under_recommended")
	FeeStateOverRecommended  = wcEnum("feestate", "over_recommended")
)

// TransactionConfirmation is one human-reviewable line item of a pending
// transaction. The populated fields depend on the Type. It doubles as the
// target of user updates (e.g. choosing a new fee level updates the
// fee_selection confirmation).
//
// Confirmations are presentation data only - the typed fields on
// PendingTransaction remain authoritative for all amounts.
type TransactionConfirmation struct {
	Type ConfirmationType `json:"type"`

	Amount     *Money     `json:"amount,omitempty"`
	AmountFiat *FiatValue `json:"amountFiat,omitempty"`

	Label string `json:"label,omitempty"`

	FeeLevel FeeLevel   `json:"feeLevel,omitempty"`
	Fee      *Money     `json:"fee,omitempty"`
	FeeFiat  *FiatValue `json:"feeFiat,omitempty"`
	FeeState FeeState   `json:"feeState,omitempty"`

	Rate *decimal.Decimal `json:"rate,omitempty"`
	Memo string           `json:"memo,omitempty"`
}

// SameCase is the identity rule for confirmation updates
func (tc *TransactionConfirmation) SameCase(other *TransactionConfirmation) bool {
	return tc != nil && other != nil && tc.Type.Equals(other.Type)
}

// ConfirmationSet is the ordered confirmation list of one pending transaction
type ConfirmationSet []*TransactionConfirmation

// Contains reports whether the set carries a confirmation of the given type
func (cs ConfirmationSet) Contains(t ConfirmationType) bool {
	for _, c := range cs {
		if c.Type.Equals(t) {
			return true
		}
	}
	return false
}

// Replace returns a new set with the matching slot replaced, preserving order.
// The second return is false if no slot matched.
func (cs ConfirmationSet) Replace(conf *TransactionConfirmation) (ConfirmationSet, bool) {
	replaced := false
	updated := make(ConfirmationSet, len(cs))
	for i, c := range cs {
		if c.SameCase(conf) {
			updated[i] = conf
			replaced = true
		} else {
			updated[i] = c
		}
	}
	return updated, replaced
}
