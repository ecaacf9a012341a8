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

package processor

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/metrics"
	"github.com/kaleido-io/walletcore/mocks/enginemocks"
	"github.com/kaleido-io/walletcore/mocks/notifymocks"
	"github.com/kaleido-io/walletcore/pkg/engine"
	"github.com/kaleido-io/walletcore/pkg/notify"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testCurrency = wctypes.CurrencyID("ethereum:erc20/0xfeedbeef")

func sampleTx() wctypes.PendingTransaction {
	return wctypes.PendingTransaction{
		SessionID: wctypes.NewUUID(),
		Amount:    wctypes.ZeroMoney(testCurrency),
		Available: wctypes.NewMoney(testCurrency, 1000),
		FeeAmount: wctypes.NewMoney("ethereum:native", 21),
		FeeSelection: wctypes.FeeSelection{
			SelectedLevel:   wctypes.FeeLevelRegular,
			AvailableLevels: []wctypes.FeeLevel{wctypes.FeeLevelRegular, wctypes.FeeLevelPriority},
			Asset:           "ethereum:native",
		},
		Confirmations: wctypes.ConfirmationSet{
			{Type: wctypes.ConfirmationSendValue, Amount: wctypes.ZeroMoney(testCurrency)},
			{Type: wctypes.ConfirmationFeeSelection},
		},
		Validation: wctypes.ValidationUninitialized(),
	}
}

func newTestProcessor(t *testing.T) (*transactionProcessor, *enginemocks.TransactionEngine, *notifymocks.Notifier) {
	config.Reset()
	config.Set(config.ProcessorRefreshDebounceMS, 0)
	metrics.Clear()
	me := &enginemocks.TransactionEngine{}
	mn := &notifymocks.Notifier{}
	me.On("Start", mock.Anything, mock.Anything).Return(nil)
	mm := metrics.NewMetricsManager(context.Background())
	p, err := NewTransactionProcessor(context.Background(), "ethereum", me, mm, mn)
	assert.NoError(t, err)
	tp := p.(*transactionProcessor)
	t.Cleanup(func() {
		me.On("Stop", mock.Anything).Return().Maybe()
		tp.Reset(context.Background())
		metrics.Clear()
	})
	return tp, me, mn
}

func initProcessor(t *testing.T, tp *transactionProcessor, me *enginemocks.TransactionEngine, tx wctypes.PendingTransaction) {
	me.On("AssertInputsValid", mock.Anything).Return(nil).Once()
	me.On("InitializeTransaction", mock.Anything).Return(tx, nil).Once()
	_, err := tp.InitializeTransaction(context.Background())
	assert.NoError(t, err)
}

func TestNewProcessorNilDeps(t *testing.T) {
	_, err := NewTransactionProcessor(context.Background(), "ethereum", nil, nil, nil)
	assert.Regexp(t, "WC10104", err)
}

func TestNewProcessorEngineStartFails(t *testing.T) {
	config.Reset()
	metrics.Clear()
	me := &enginemocks.TransactionEngine{}
	me.On("Start", mock.Anything, mock.Anything).Return(fmt.Errorf("pop"))
	mm := metrics.NewMetricsManager(context.Background())
	_, err := NewTransactionProcessor(context.Background(), "ethereum", me, mm, &notifymocks.Notifier{})
	assert.EqualError(t, err, "pop")
	metrics.Clear()
}

func TestInitializeTransactionPublishes(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tx := sampleTx()

	sub, cancel := tp.Subscribe()
	defer cancel()

	initProcessor(t, tp, me, tx)

	published := <-sub
	assert.Equal(t, tx.SessionID, published.SessionID)
	assert.True(t, published.Validation.IsUninitialized())
	assert.Equal(t, tx, tp.Refresh())
}

func TestInitializeTransactionBadInputs(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	me.On("AssertInputsValid", mock.Anything).Return(fmt.Errorf("bad inputs"))
	_, err := tp.InitializeTransaction(context.Background())
	assert.EqualError(t, err, "bad inputs")
}

func TestUpdateAmountNotInitialized(t *testing.T) {
	tp, _, _ := newTestProcessor(t)
	_, err := tp.UpdateAmount(context.Background(), wctypes.NewMoney(testCurrency, 10))
	assert.Regexp(t, "WC10111", err)
}

func TestUpdateAmountValidates(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	amount := wctypes.NewMoney(testCurrency, 100)
	updated := sampleTx().WithAmount(amount)
	validated := updated.WithValidation(wctypes.ValidationCanExecute())
	me.On("UpdateAmount", mock.Anything, amount, mock.Anything).Return(updated, nil)
	me.On("ValidateAmount", mock.Anything, mock.Anything).Return(validated, nil)

	result, err := tp.UpdateAmount(context.Background(), amount)
	assert.NoError(t, err)
	assert.True(t, result.Validation.CanExecute())
	assert.Equal(t, result, tp.Refresh())
}

func TestUpdateAmountEngineError(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tx := sampleTx()
	initProcessor(t, tp, me, tx)

	badAmount := wctypes.NewMoney("ethereum:native", 10)
	me.On("UpdateAmount", mock.Anything, badAmount, mock.Anything).
		Return(wctypes.PendingTransaction{}, fmt.Errorf("WC10106: currency mismatch"))

	_, err := tp.UpdateAmount(context.Background(), badAmount)
	assert.Regexp(t, "WC10106", err)
	// failed updates never mutate the published value
	assert.Equal(t, tx, tp.Refresh())
}

func TestUpdateAmountFreshZeroSmoothed(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	// a fresh session reports an untouched zero amount as uninitialized,
	// not as a validation failure
	zero := wctypes.ZeroMoney(testCurrency)
	invalid := sampleTx().WithValidation(wctypes.ValidationInvalid(&wctypes.ValidationReason{
		Code: wctypes.ReasonInsufficientFunds,
	}))
	me.On("UpdateAmount", mock.Anything, zero, mock.Anything).Return(invalid, nil)
	me.On("ValidateAmount", mock.Anything, mock.Anything).Return(invalid, nil)

	result, err := tp.UpdateAmount(context.Background(), zero)
	assert.NoError(t, err)
	assert.True(t, result.Validation.IsUninitialized())
	assert.Nil(t, result.Validation.Reason)
}

func TestUpdateAmountFreshZeroNotSmoothedWhenDisabled(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tp.freshZeroSmoothing = false
	initProcessor(t, tp, me, sampleTx())

	zero := wctypes.ZeroMoney(testCurrency)
	invalid := sampleTx().WithValidation(wctypes.ValidationInvalid(&wctypes.ValidationReason{
		Code: wctypes.ReasonInsufficientFunds,
	}))
	me.On("UpdateAmount", mock.Anything, zero, mock.Anything).Return(invalid, nil)
	me.On("ValidateAmount", mock.Anything, mock.Anything).Return(invalid, nil)

	result, err := tp.UpdateAmount(context.Background(), zero)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ValidationStatusInvalid, result.Validation.Status)
}

func TestUpdateAmountLastAcceptedWins(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	amountA := wctypes.NewMoney(testCurrency, 1)
	amountB := wctypes.NewMoney(testCurrency, 2)
	txA := sampleTx().WithAmount(amountA).WithValidation(wctypes.ValidationCanExecute())
	txB := sampleTx().WithAmount(amountB).WithValidation(wctypes.ValidationCanExecute())

	aEntered := make(chan struct{})
	aRelease := make(chan struct{})
	me.On("UpdateAmount", mock.Anything, amountA, mock.Anything).Run(func(args mock.Arguments) {
		close(aEntered)
		<-aRelease
	}).Return(txA, nil)
	me.On("UpdateAmount", mock.Anything, amountB, mock.Anything).Return(txB, nil)
	me.On("ValidateAmount", mock.Anything, mock.MatchedBy(func(tx wctypes.PendingTransaction) bool {
		return tx.Amount.Cmp(amountA) == 0
	})).Return(txA, nil).Maybe()
	me.On("ValidateAmount", mock.Anything, mock.MatchedBy(func(tx wctypes.PendingTransaction) bool {
		return tx.Amount.Cmp(amountB) == 0
	})).Return(txB, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := tp.UpdateAmount(context.Background(), amountA)
		// the stale update is discarded and the caller sees the newer value
		assert.NoError(t, err)
		assert.Equal(t, 0, result.Amount.Cmp(amountB))
	}()

	<-aEntered
	result, err := tp.UpdateAmount(context.Background(), amountB)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Amount.Cmp(amountB))

	close(aRelease)
	<-done
	assert.Equal(t, 0, tp.Refresh().Amount.Cmp(amountB))
}

func TestSetUnsupportedConfirmation(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	_, err := tp.Set(context.Background(), &wctypes.TransactionConfirmation{Type: wctypes.ConfirmationMemo})
	assert.Regexp(t, "WC10108", err)
	me.AssertNotCalled(t, "UpdateConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetConfirmationRevalidates(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	conf := &wctypes.TransactionConfirmation{Type: wctypes.ConfirmationFeeSelection}
	updated := sampleTx()
	validated := updated.WithValidation(wctypes.ValidationCanExecute())
	me.On("UpdateConfirmation", mock.Anything, mock.Anything, conf).Return(updated, nil)
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)

	result, err := tp.Set(context.Background(), conf)
	assert.NoError(t, err)
	assert.True(t, result.Validation.CanExecute())
}

func TestRejectedPreconditionKeepsInflightUpdate(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	amount := wctypes.NewMoney(testCurrency, 5)
	updated := sampleTx().WithAmount(amount).WithValidation(wctypes.ValidationCanExecute())
	entered := make(chan struct{})
	release := make(chan struct{})
	me.On("UpdateAmount", mock.Anything, amount, mock.Anything).Run(func(args mock.Arguments) {
		close(entered)
		<-release
	}).Return(updated, nil)
	me.On("ValidateAmount", mock.Anything, mock.Anything).Return(updated, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := tp.UpdateAmount(context.Background(), amount)
		assert.NoError(t, err)
		assert.Equal(t, 0, result.Amount.Cmp(amount))
	}()
	<-entered

	// requests that fail their preconditions never move the generation, so
	// the in-flight amount update still lands
	_, err := tp.Set(context.Background(), &wctypes.TransactionConfirmation{Type: wctypes.ConfirmationMemo})
	assert.Regexp(t, "WC10108", err)
	_, err = tp.UpdateFeeLevel(context.Background(), wctypes.FeeLevelCustom, wctypes.NewMoney("ethereum:native", 9))
	assert.Regexp(t, "WC10107", err)

	close(release)
	<-done
	assert.Equal(t, 0, tp.Refresh().Amount.Cmp(amount))
}

func TestUpdateFeeLevelNotAvailable(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	_, err := tp.UpdateFeeLevel(context.Background(), wctypes.FeeLevelCustom, wctypes.NewMoney("ethereum:native", 50))
	assert.Regexp(t, "WC10107", err)
}

func TestUpdateFeeLevelCustomRequiresAmount(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tx := sampleTx()
	tx.FeeSelection.AvailableLevels = append(tx.FeeSelection.AvailableLevels, wctypes.FeeLevelCustom)
	initProcessor(t, tp, me, tx)

	_, err := tp.UpdateFeeLevel(context.Background(), wctypes.FeeLevelCustom, nil)
	assert.Regexp(t, "WC10131", err)
}

func TestUpdateFeeLevelOK(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	updated := sampleTx().WithFeeLevel(wctypes.FeeLevelPriority, wctypes.NewMoney("ethereum:native", 42), nil)
	me.On("UpdateFeeLevel", mock.Anything, mock.Anything, wctypes.FeeLevelPriority, (*wctypes.Money)(nil)).Return(updated, nil)

	result, err := tp.UpdateFeeLevel(context.Background(), wctypes.FeeLevelPriority, nil)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.FeeLevelPriority, result.FeeSelection.SelectedLevel)
}

func TestUpdateQuoteNotPriceDependent(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())
	me.On("Capabilities").Return(&engine.Capabilities{PriceDependent: false})
	me.On("Name").Return("erc20_transfer")

	_, err := tp.UpdateQuote(context.Background(), &wctypes.Quote{})
	assert.Regexp(t, "WC10121", err)
}

func TestUpdateQuoteRebuildsConfirmations(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())
	me.On("Capabilities").Return(&engine.Capabilities{PriceDependent: true})

	quote := &wctypes.Quote{ID: "q1", Price: decimal.NewFromInt(1900)}
	rebuilt := sampleTx().WithQuote(quote)
	me.On("BuildConfirmations", mock.Anything, mock.MatchedBy(func(tx wctypes.PendingTransaction) bool {
		return tx.Quote != nil && tx.Quote.ID == "q1"
	})).Return(rebuilt, nil)

	result, err := tp.UpdateQuote(context.Background(), quote)
	assert.NoError(t, err)
	assert.Equal(t, "q1", result.Quote.ID)
}

func TestUpdatePriceMergesIntoQuote(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tx := sampleTx().WithQuote(&wctypes.Quote{ID: "q1", Price: decimal.NewFromInt(1900)})
	initProcessor(t, tp, me, tx)
	me.On("Capabilities").Return(&engine.Capabilities{PriceDependent: true})

	me.On("BuildConfirmations", mock.Anything, mock.MatchedBy(func(tx wctypes.PendingTransaction) bool {
		// the price is replaced, the rest of the quote is preserved
		return tx.Quote.ID == "q1" && tx.Quote.Price.Equal(decimal.NewFromInt(2000))
	})).Return(tx, nil)

	_, err := tp.UpdatePrice(context.Background(), decimal.NewFromInt(2000))
	assert.NoError(t, err)
}

func TestValidateAllFullPipeline(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	built := sampleTx()
	validated := built.WithValidation(wctypes.ValidationCanExecute())
	me.On("BuildConfirmations", mock.Anything, mock.Anything).Return(built, nil).Once()
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil).Once()
	me.On("RefreshConfirmations", mock.Anything, mock.Anything).Return(validated, nil).Once()

	result, err := tp.ValidateAll(context.Background())
	assert.NoError(t, err)
	assert.True(t, result.Validation.CanExecute())
	me.AssertExpectations(t)
}

func TestValidateAllFailedFetchLeavesStateUntouched(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	tx := sampleTx()
	initProcessor(t, tp, me, tx)

	me.On("BuildConfirmations", mock.Anything, mock.Anything).Return(wctypes.PendingTransaction{}, fmt.Errorf("WC10113: balance fetch failed"))

	_, err := tp.ValidateAll(context.Background())
	assert.Regexp(t, "WC10113", err)
	assert.Equal(t, tx, tp.Refresh())
}

func TestExecuteHappyPath(t *testing.T) {
	tp, me, mn := newTestProcessor(t)
	tx := sampleTx()
	initProcessor(t, tp, me, tx)

	validated := tx.WithValidation(wctypes.ValidationCanExecute())
	result := &wctypes.ExecutionResult{TxHash: "0xabc", Network: "ethereum", SubmittedAt: time.Now()}
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, validated, "order1").Return(result, nil)
	me.On("PostExecute", mock.Anything, result).Return(nil)
	mn.On("TransactionCompleted", mock.Anything, mock.MatchedBy(func(event *notify.CompletionEvent) bool {
		return event.TxHash == "0xabc" && event.SessionID.Equals(tx.SessionID)
	})).Return(nil)

	res, err := tp.Execute(context.Background(), "order1")
	assert.NoError(t, err)
	assert.Equal(t, "0xabc", res.TxHash)

	// a session executes at most once
	_, err = tp.Execute(context.Background(), "order2")
	assert.Regexp(t, "WC10110", err)
	mn.AssertExpectations(t)
}

func TestExecuteConcurrentSecondCallerRejected(t *testing.T) {
	tp, me, mn := newTestProcessor(t)
	tx := sampleTx()
	initProcessor(t, tp, me, tx)

	validated := tx.WithValidation(wctypes.ValidationCanExecute())
	result := &wctypes.ExecutionResult{TxHash: "0xabc"}
	entered := make(chan struct{})
	release := make(chan struct{})
	var dispatches int32
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, mock.Anything, "order1").Run(func(args mock.Arguments) {
		atomic.AddInt32(&dispatches, 1)
		close(entered)
		<-release
	}).Return(result, nil)
	me.On("PostExecute", mock.Anything, result).Return(nil)
	mn.On("TransactionCompleted", mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := tp.Execute(context.Background(), "order1")
		done <- err
	}()
	<-entered

	// the first dispatch is still in flight - the session is already burned
	// for any other caller
	_, err := tp.Execute(context.Background(), "order1")
	assert.Regexp(t, "WC10110", err)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dispatches))
}

func TestExecuteStaleSnapshotNotRepublished(t *testing.T) {
	tp, me, mn := newTestProcessor(t)
	tx := sampleTx()
	initProcessor(t, tp, me, tx)

	validated := tx.WithValidation(wctypes.ValidationCanExecute())
	result := &wctypes.ExecutionResult{TxHash: "0xabc"}
	entered := make(chan struct{})
	release := make(chan struct{})
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, mock.Anything, "order1").Run(func(args mock.Arguments) {
		close(entered)
		<-release
	}).Return(result, nil)
	me.On("PostExecute", mock.Anything, result).Return(nil)
	mn.On("TransactionCompleted", mock.Anything, mock.Anything).Return(nil)

	amount := wctypes.NewMoney(testCurrency, 7)
	newer := sampleTx().WithAmount(amount).WithValidation(wctypes.ValidationCanExecute())
	me.On("UpdateAmount", mock.Anything, amount, mock.Anything).Return(newer, nil)
	me.On("ValidateAmount", mock.Anything, mock.Anything).Return(newer, nil)

	done := make(chan error, 1)
	go func() {
		_, err := tp.Execute(context.Background(), "order1")
		done <- err
	}()
	<-entered

	// a mutation accepted while the dispatch is in flight is newer than the
	// executed snapshot, and must stay the published value
	_, err := tp.UpdateAmount(context.Background(), amount)
	assert.NoError(t, err)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, 0, tp.Refresh().Amount.Cmp(amount))
}

func TestExecuteRevalidationBlocks(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	// stale approval: by execution time funds are gone, so the fresh
	// validation fails and nothing is submitted
	invalid := sampleTx().WithValidation(wctypes.ValidationInvalid(&wctypes.ValidationReason{
		Code: wctypes.ReasonInsufficientFunds,
	}))
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(invalid, nil)

	_, err := tp.Execute(context.Background(), "order1")
	assert.Regexp(t, "WC10109", err)
	me.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, wctypes.ValidationStatusInvalid, tp.Refresh().Validation.Status)
}

func TestExecuteDispatchFailure(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	validated := sampleTx().WithValidation(wctypes.ValidationCanExecute())
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, mock.Anything, "order1").Return(nil, fmt.Errorf("WC10118: dispatch failed"))

	_, err := tp.Execute(context.Background(), "order1")
	assert.Regexp(t, "WC10118", err)

	// a failed dispatch does not burn the session
	res := &wctypes.ExecutionResult{TxHash: "0xdef"}
	me.ExpectedCalls = me.ExpectedCalls[:1] // keep Start
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, mock.Anything, "order1").Return(res, nil)
	me.On("PostExecute", mock.Anything, res).Return(nil)
	mn := tp.notify.(*notifymocks.Notifier)
	mn.On("TransactionCompleted", mock.Anything, mock.Anything).Return(nil)
	_, err = tp.Execute(context.Background(), "order1")
	assert.NoError(t, err)
}

func TestExecutePostExecuteErrorSwallowed(t *testing.T) {
	tp, me, mn := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	validated := sampleTx().WithValidation(wctypes.ValidationCanExecute())
	result := &wctypes.ExecutionResult{TxHash: "0xabc"}
	me.On("ValidateAll", mock.Anything, mock.Anything).Return(validated, nil)
	me.On("Execute", mock.Anything, mock.Anything, "").Return(result, nil)
	me.On("PostExecute", mock.Anything, result).Return(fmt.Errorf("cache invalidate failed"))
	mn.On("TransactionCompleted", mock.Anything, mock.Anything).Return(fmt.Errorf("broker down"))

	res, err := tp.Execute(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, "0xabc", res.TxHash)
}

func TestEngineRefreshPipesThroughValidation(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	refreshed := sampleTx()
	validated := refreshed.WithValidation(wctypes.ValidationCanExecute())
	done := make(chan struct{})
	me.On("RefreshConfirmations", mock.Anything, mock.Anything).Return(refreshed, nil)
	me.On("ValidateAll", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(done)
	}).Return(validated, nil)

	sub, cancel := tp.Subscribe()
	defer cancel()
	<-sub // initial value

	tp.RefreshRequested(context.Background())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine-driven refresh never ran")
	}
	select {
	case published := <-sub:
		assert.True(t, published.Validation.CanExecute())
	case <-time.After(5 * time.Second):
		t.Fatal("refresh result never published")
	}
}

func TestSubscribeLatestValueOnly(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	sub, cancel := tp.Subscribe()
	defer cancel()

	amountA := wctypes.NewMoney(testCurrency, 1)
	amountB := wctypes.NewMoney(testCurrency, 2)
	for _, amount := range []*wctypes.Money{amountA, amountB} {
		updated := sampleTx().WithAmount(amount)
		me.On("UpdateAmount", mock.Anything, amount, mock.Anything).Return(updated, nil).Once()
		me.On("ValidateAmount", mock.Anything, mock.Anything).Return(updated.WithValidation(wctypes.ValidationCanExecute()), nil).Once()
		_, err := tp.UpdateAmount(context.Background(), amount)
		assert.NoError(t, err)
	}

	// the subscriber never drained, so it sees only the newest value
	latest := <-sub
	assert.Equal(t, 0, latest.Amount.Cmp(amountB))
	select {
	case stale := <-sub:
		t.Fatalf("unexpected queued value: %+v", stale)
	default:
	}
}

func TestResetReleasesSession(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())

	sub, cancel := tp.Subscribe()
	defer cancel()
	<-sub

	me.On("Stop", mock.Anything).Return()
	tp.Reset(context.Background())
	tp.Reset(context.Background()) // idempotent
	me.AssertCalled(t, "Stop", mock.Anything)

	_, open := <-sub
	assert.False(t, open)

	_, err := tp.UpdateAmount(context.Background(), wctypes.NewMoney(testCurrency, 1))
	assert.Regexp(t, "WC10112", err)
	_, err = tp.InitializeTransaction(context.Background())
	assert.Regexp(t, "WC10112", err)
}

func TestSubscriptionCancelIdempotent(t *testing.T) {
	tp, me, _ := newTestProcessor(t)
	initProcessor(t, tp, me, sampleTx())
	_, cancel := tp.Subscribe()
	cancel()
	cancel()
}
