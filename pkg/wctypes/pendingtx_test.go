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
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePendingTx() PendingTransaction {
	return PendingTransaction{
		SessionID:           NewUUID(),
		Amount:              NewMoney("ethereum:erc20/0xtoken", 0),
		Available:           NewMoney("ethereum:erc20/0xtoken", 1000),
		FeeAmount:           NewMoney("ethereum:native", 10),
		FeeForFullAvailable: NewMoney("ethereum:native", 12),
		FeeSelection: FeeSelection{
			SelectedLevel:   FeeLevelRegular,
			AvailableLevels: []FeeLevel{FeeLevelRegular, FeeLevelPriority, FeeLevelCustom},
			Asset:           "ethereum:native",
		},
		Confirmations: ConfirmationSet{
			{Type: ConfirmationSendValue, Amount: NewMoney("ethereum:erc20/0xtoken", 0)},
			{Type: ConfirmationFeeSelection, FeeLevel: FeeLevelRegular, Fee: NewMoney("ethereum:native", 10)},
		},
		Validation: ValidationUninitialized(),
	}
}

func TestTransformsDoNotMutateOriginal(t *testing.T) {
	tx := samplePendingTx()

	tx2 := tx.WithAmount(NewMoney("ethereum:erc20/0xtoken", 500))
	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, "500", tx2.Amount.Amount.String())

	tx3 := tx2.WithValidation(ValidationCanExecute())
	assert.True(t, tx2.Validation.IsUninitialized())
	assert.True(t, tx3.Validation.CanExecute())
}

func TestAmountRoundTrip(t *testing.T) {
	tx := samplePendingTx()
	for _, v := range []int64{0, 1, 999999999} {
		amount := NewMoney("ethereum:erc20/0xtoken", v)
		assert.Equal(t, amount, tx.WithAmount(amount).Amount)
	}
}

func TestSourceCurrency(t *testing.T) {
	tx := samplePendingTx()
	assert.Equal(t, CurrencyID("ethereum:erc20/0xtoken"), tx.SourceCurrency())

	tx.Amount = nil
	assert.Equal(t, CurrencyID("ethereum:erc20/0xtoken"), tx.SourceCurrency())

	assert.Equal(t, CurrencyID(""), PendingTransaction{}.SourceCurrency())
}

func TestWithFeeLevel(t *testing.T) {
	tx := samplePendingTx()
	custom := NewMoney("ethereum:native", 42)
	tx2 := tx.WithFeeLevel(FeeLevelCustom, custom, custom)
	assert.Equal(t, FeeLevelCustom, tx2.FeeSelection.SelectedLevel)
	assert.Equal(t, custom, tx2.FeeAmount)
	assert.Equal(t, custom, tx2.FeeSelection.CustomAmount)
	// original untouched
	assert.Equal(t, FeeLevelRegular, tx.FeeSelection.SelectedLevel)
}

func TestWithBalancesAndFee(t *testing.T) {
	tx := samplePendingTx()
	tx2 := tx.WithBalances(NewMoney("ethereum:erc20/0xtoken", 2000), NewMoney("ethereum:native", 15)).
		WithFee(NewMoney("ethereum:native", 11))
	assert.Equal(t, "2000", tx2.Available.Amount.String())
	assert.Equal(t, "15", tx2.FeeForFullAvailable.Amount.String())
	assert.Equal(t, "11", tx2.FeeAmount.Amount.String())
}

func TestConfirmationReplace(t *testing.T) {
	tx := samplePendingTx()
	updated, ok := tx.Confirmations.Replace(&TransactionConfirmation{
		Type:     ConfirmationFeeSelection,
		FeeLevel: FeeLevelPriority,
		Fee:      NewMoney("ethereum:native", 20),
	})
	assert.True(t, ok)
	assert.Len(t, updated, 2)
	assert.Equal(t, FeeLevelPriority, updated[1].FeeLevel)
	// original set retains the old slot
	assert.Equal(t, FeeLevelRegular, tx.Confirmations[1].FeeLevel)

	_, ok = tx.Confirmations.Replace(&TransactionConfirmation{Type: ConfirmationMemo})
	assert.False(t, ok)
}

func TestConfirmationContains(t *testing.T) {
	tx := samplePendingTx()
	assert.True(t, tx.Confirmations.Contains(ConfirmationSendValue))
	assert.False(t, tx.Confirmations.Contains(ConfirmationExchangeRate))
}

func TestFeeSelectionInvariantHelpers(t *testing.T) {
	tx := samplePendingTx()
	assert.True(t, tx.FeeSelection.Contains(FeeLevelPriority))
	assert.False(t, tx.FeeSelection.Contains(FeeLevelNone))
	assert.True(t, tx.FeeSelection.AdjustmentSupported())

	feeless := FeeSelection{SelectedLevel: FeeLevelNone, AvailableLevels: []FeeLevel{FeeLevelNone}}
	assert.False(t, feeless.AdjustmentSupported())
	assert.True(t, IsFeeLess(feeless.SelectedLevel))
}
