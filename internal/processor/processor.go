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
	"sync"
	"time"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/internal/metrics"
	"github.com/kaleido-io/walletcore/pkg/engine"
	"github.com/kaleido-io/walletcore/pkg/notify"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
)

// Processor owns one pending transaction's lifecycle. It serializes state
// transitions, exposes the session API to callers, and routes the engine's
// refresh signals back through the engine - it never inspects engine
// internals, and the engine never holds its own copy of the transaction.
type Processor interface {
	// InitializeTransaction starts the engine and publishes the first pending transaction
	InitializeTransaction(ctx context.Context) (wctypes.PendingTransaction, error)

	// UpdateAmount delegates to the engine, then pipes the result through the
	// amount validators. Stale in-flight updates are discarded - the last
	// accepted mutation wins.
	UpdateAmount(ctx context.Context, amount *wctypes.Money) (wctypes.PendingTransaction, error)

	// Set updates one confirmation slot, then fully revalidates
	Set(ctx context.Context, confirmation *wctypes.TransactionConfirmation) (wctypes.PendingTransaction, error)

	// UpdateFeeLevel switches the pricing tier, recomputing the fee from
	// cached data only
	UpdateFeeLevel(ctx context.Context, level wctypes.FeeLevel, customAmount *wctypes.Money) (wctypes.PendingTransaction, error)

	// UpdateQuote merges a new quote and rebuilds confirmations (price-dependent engines only)
	UpdateQuote(ctx context.Context, quote *wctypes.Quote) (wctypes.PendingTransaction, error)

	// UpdatePrice merges a new price into the current quote (price-dependent engines only)
	UpdatePrice(ctx context.Context, price decimal.Decimal) (wctypes.PendingTransaction, error)

	// ValidateAll rebuilds confirmations, runs the full validator chain, then
	// refreshes any confirmations that track live external state
	ValidateAll(ctx context.Context) (wctypes.PendingTransaction, error)

	// Execute revalidates and submits. Fails without submitting if the
	// freshly validated snapshot cannot execute.
	Execute(ctx context.Context, orderID string) (*wctypes.ExecutionResult, error)

	// Refresh returns the current value without mutation
	Refresh() wctypes.PendingTransaction

	// Subscribe returns a latest-value channel: the current value is
	// delivered immediately, then every subsequent publish. The returned
	// function cancels the subscription.
	Subscribe() (<-chan wctypes.PendingTransaction, func())

	// Reset releases engine resources tied to this session. The processor is
	// unusable afterwards.
	Reset(ctx context.Context)
}

type transactionProcessor struct {
	mux     sync.Mutex
	ctx     context.Context
	cancel  func()
	engine  engine.TransactionEngine
	metrics metrics.Manager
	notify  notify.Notifier
	network wctypes.Network

	current     wctypes.PendingTransaction
	initialized bool
	// executing is set under the mutex before the engine dispatch starts, so a
	// second concurrent Execute fails fast instead of double-submitting; it is
	// cleared only when the dispatch did not happen
	executing bool
	executed  bool
	reset     bool

	// gen is bumped on every accepted mutation request; async completions
	// carrying an older gen are discarded, never published
	gen uint64

	subscribers map[int]chan wctypes.PendingTransaction
	nextSubID   int

	freshZeroSmoothing bool
	refreshDebounce    time.Duration
	refreshRequests    chan struct{}
}

// NewTransactionProcessor binds a processor to one engine for one transaction
// session. The engine must already be bound to its (source account, target)
// pair - an unbound engine cannot exist.
func NewTransactionProcessor(ctx context.Context, network wctypes.Network, te engine.TransactionEngine, mm metrics.Manager, nn notify.Notifier) (Processor, error) {
	if te == nil || mm == nil || nn == nil {
		return nil, i18n.NewError(ctx, i18n.MsgInitializationNilDepError)
	}
	pctx, cancel := context.WithCancel(ctx)
	tp := &transactionProcessor{
		ctx:                pctx,
		cancel:             cancel,
		engine:             te,
		metrics:            mm,
		notify:             nn,
		network:            network,
		subscribers:        map[int]chan wctypes.PendingTransaction{},
		freshZeroSmoothing: config.GetBool(config.ProcessorFreshZeroAmount),
		refreshDebounce:    time.Duration(config.GetInt(config.ProcessorRefreshDebounceMS)) * time.Millisecond,
		refreshRequests:    make(chan struct{}, 1),
	}
	if err := te.Start(pctx, tp); err != nil {
		cancel()
		return nil, err
	}
	go tp.refreshLoop()
	return tp, nil
}

// RefreshRequested implements engine.Callbacks. It may be called from any
// goroutine; coalescing means a burst of ticks costs one refresh.
func (tp *transactionProcessor) RefreshRequested(ctx context.Context) {
	select {
	case tp.refreshRequests <- struct{}{}:
	default:
	}
}

func (tp *transactionProcessor) checkUsable(ctx context.Context, needInit bool) error {
	if tp.reset {
		return i18n.NewError(ctx, i18n.MsgProcessorReset)
	}
	if needInit && !tp.initialized {
		return i18n.NewError(ctx, i18n.MsgProcessorNotInitialized)
	}
	return nil
}

func (tp *transactionProcessor) InitializeTransaction(ctx context.Context) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, false); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tp.mux.Unlock()

	if err := tp.engine.AssertInputsValid(ctx); err != nil {
		return wctypes.PendingTransaction{}, err
	}
	tx, err := tp.engine.InitializeTransaction(ctx)
	if err != nil {
		return wctypes.PendingTransaction{}, err
	}

	tp.mux.Lock()
	tp.gen++
	tp.current = tx
	tp.initialized = true
	tp.publishLocked(tx)
	tp.mux.Unlock()
	log.L(ctx).Debugf("Initialized transaction session %s", tx.SessionID)
	return tx, nil
}

func (tp *transactionProcessor) UpdateAmount(ctx context.Context, amount *wctypes.Money) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tp.gen++
	gen := tp.gen
	tx := tp.current
	fresh := tx.Validation.IsUninitialized()
	tp.mux.Unlock()

	updated, err := tp.engine.UpdateAmount(ctx, amount, tx)
	if err != nil {
		return tx, err
	}
	validated, err := tp.engine.ValidateAmount(ctx, updated)
	if err != nil {
		return tx, err
	}

	// A brand new session showing "insufficient funds" for an untouched zero
	// amount is noise, not information. Report it as uninitialized instead.
	// This is a configurable smoothing policy, not a correctness rule.
	if tp.freshZeroSmoothing && fresh && amount.IsZero() && !validated.Validation.CanExecute() {
		validated = validated.WithValidation(wctypes.ValidationUninitialized())
	}

	tp.mux.Lock()
	defer tp.mux.Unlock()
	if tp.gen != gen {
		// A newer mutation was accepted while we were off validating - that
		// one wins, this result is discarded
		log.L(ctx).Debugf("Discarding stale amount update (gen %d < %d)", gen, tp.gen)
		return tp.current, nil
	}
	tp.recordValidationFailure(validated)
	tp.current = validated
	tp.publishLocked(validated)
	return validated, nil
}

func (tp *transactionProcessor) Set(ctx context.Context, confirmation *wctypes.TransactionConfirmation) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tx := tp.current
	if !tx.Confirmations.Contains(confirmation.Type) {
		tp.mux.Unlock()
		return tx, i18n.NewError(ctx, i18n.MsgUnsupportedConfirmation, confirmation.Type)
	}
	// the generation only moves once the preconditions pass - a rejected
	// request must not invalidate an in-flight mutation's result
	tp.gen++
	gen := tp.gen
	tp.mux.Unlock()

	updated, err := tp.engine.UpdateConfirmation(ctx, tx, confirmation)
	if err != nil {
		return tx, err
	}
	validated, err := tp.engine.ValidateAll(ctx, updated)
	if err != nil {
		return tx, err
	}

	return tp.acceptResult(ctx, gen, validated), nil
}

func (tp *transactionProcessor) UpdateFeeLevel(ctx context.Context, level wctypes.FeeLevel, customAmount *wctypes.Money) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tx := tp.current
	if !tx.FeeSelection.Contains(level) {
		tp.mux.Unlock()
		return tx, i18n.NewError(ctx, i18n.MsgFeeLevelNotAvailable, level)
	}
	if level.Equals(wctypes.FeeLevelCustom) && customAmount == nil {
		tp.mux.Unlock()
		return tx, i18n.NewError(ctx, i18n.MsgCustomFeeAmountRequired)
	}
	tp.gen++
	gen := tp.gen
	tp.mux.Unlock()

	updated, err := tp.engine.UpdateFeeLevel(ctx, tx, level, customAmount)
	if err != nil {
		return tx, err
	}

	return tp.acceptResult(ctx, gen, updated), nil
}

func (tp *transactionProcessor) UpdateQuote(ctx context.Context, quote *wctypes.Quote) (wctypes.PendingTransaction, error) {
	return tp.mergeQuote(ctx, func(tx wctypes.PendingTransaction) wctypes.PendingTransaction {
		return tx.WithQuote(quote)
	})
}

func (tp *transactionProcessor) UpdatePrice(ctx context.Context, price decimal.Decimal) (wctypes.PendingTransaction, error) {
	return tp.mergeQuote(ctx, func(tx wctypes.PendingTransaction) wctypes.PendingTransaction {
		quote := &wctypes.Quote{Price: price}
		if tx.Quote != nil {
			q := *tx.Quote
			q.Price = price
			quote = &q
		}
		return tx.WithQuote(quote)
	})
}

func (tp *transactionProcessor) mergeQuote(ctx context.Context, merge func(wctypes.PendingTransaction) wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tp.gen++
	gen := tp.gen
	tx := tp.current
	tp.mux.Unlock()

	if caps := tp.engine.Capabilities(); caps == nil || !caps.PriceDependent {
		return tx, i18n.NewError(ctx, i18n.MsgEngineNotPriceDependent, tp.engine.Name())
	}

	rebuilt, err := tp.engine.BuildConfirmations(ctx, merge(tx))
	if err != nil {
		return tx, err
	}

	return tp.acceptResult(ctx, gen, rebuilt), nil
}

func (tp *transactionProcessor) ValidateAll(ctx context.Context) (wctypes.PendingTransaction, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return wctypes.PendingTransaction{}, err
	}
	tp.gen++
	gen := tp.gen
	tx := tp.current
	tp.mux.Unlock()

	built, err := tp.engine.BuildConfirmations(ctx, tx)
	if err != nil {
		return tx, err
	}
	validated, err := tp.engine.ValidateAll(ctx, built)
	if err != nil {
		return tx, err
	}
	// Give the engine a chance to re-derive confirmations that track
	// continuously changing external state (live fee, live price)
	refreshed, err := tp.engine.RefreshConfirmations(ctx, validated)
	if err != nil {
		return tx, err
	}

	return tp.acceptResult(ctx, gen, refreshed), nil
}

func (tp *transactionProcessor) Execute(ctx context.Context, orderID string) (*wctypes.ExecutionResult, error) {
	tp.mux.Lock()
	if err := tp.checkUsable(ctx, true); err != nil {
		tp.mux.Unlock()
		return nil, err
	}
	if tp.executed || tp.executing {
		tp.mux.Unlock()
		return nil, i18n.NewError(ctx, i18n.MsgTransactionAlreadyExecuted)
	}
	tp.executing = true
	tp.gen++
	gen := tp.gen
	tx := tp.current
	tp.mux.Unlock()

	// Execution always re-validates, and submits the exact snapshot that
	// validated - a stale approval can never be executed
	validated, err := tp.engine.ValidateAll(ctx, tx)
	if err != nil {
		tp.clearExecuting()
		return nil, err
	}
	if !validated.Validation.CanExecute() {
		tp.clearExecuting()
		tp.recordValidationFailure(validated)
		tp.acceptResult(ctx, gen, validated)
		return nil, i18n.NewError(ctx, i18n.MsgNotValidatedForExecute, validated.Validation.Status)
	}

	if tp.metrics.IsMetricsEnabled() {
		tp.metrics.TransactionSubmitted(tp.network, validated.SessionID)
	}
	result, err := tp.engine.Execute(ctx, validated, orderID)
	if err != nil {
		tp.clearExecuting()
		if tp.metrics.IsMetricsEnabled() {
			tp.metrics.TransactionFailed(tp.network, validated.SessionID)
		}
		return nil, err
	}
	if tp.metrics.IsMetricsEnabled() {
		tp.metrics.TransactionSucceeded(tp.network, validated.SessionID)
	}

	tp.mux.Lock()
	tp.executed = true
	tp.executing = false
	if tp.gen == gen {
		tp.current = validated
		tp.publishLocked(validated)
	}
	tp.mux.Unlock()

	if err := tp.engine.PostExecute(ctx, result); err != nil {
		log.L(ctx).Warnf("Post-execute hook failed for session %s: %s", validated.SessionID, err)
	}
	if err := tp.notify.TransactionCompleted(ctx, &notify.CompletionEvent{
		SessionID: validated.SessionID,
		Network:   tp.network,
		TxHash:    result.TxHash,
		OrderID:   result.OrderID,
		Completed: time.Now(),
	}); err != nil {
		log.L(ctx).Warnf("Completion notification failed for session %s: %s", validated.SessionID, err)
	}
	return result, nil
}

func (tp *transactionProcessor) Refresh() wctypes.PendingTransaction {
	tp.mux.Lock()
	defer tp.mux.Unlock()
	return tp.current
}

func (tp *transactionProcessor) Subscribe() (<-chan wctypes.PendingTransaction, func()) {
	tp.mux.Lock()
	defer tp.mux.Unlock()
	id := tp.nextSubID
	tp.nextSubID++
	ch := make(chan wctypes.PendingTransaction, 1)
	if tp.initialized {
		ch <- tp.current
	}
	tp.subscribers[id] = ch
	return ch, func() {
		tp.mux.Lock()
		defer tp.mux.Unlock()
		if sub, ok := tp.subscribers[id]; ok {
			delete(tp.subscribers, id)
			close(sub)
		}
	}
}

func (tp *transactionProcessor) Reset(ctx context.Context) {
	tp.mux.Lock()
	if tp.reset {
		tp.mux.Unlock()
		return
	}
	tp.reset = true
	for id, sub := range tp.subscribers {
		delete(tp.subscribers, id)
		close(sub)
	}
	tp.mux.Unlock()

	tp.engine.Stop(ctx)
	tp.cancel()
}

func (tp *transactionProcessor) clearExecuting() {
	tp.mux.Lock()
	tp.executing = false
	tp.mux.Unlock()
}

// acceptResult publishes the result if its generation is still the newest,
// otherwise returns the (newer) current value
func (tp *transactionProcessor) acceptResult(ctx context.Context, gen uint64, result wctypes.PendingTransaction) wctypes.PendingTransaction {
	tp.mux.Lock()
	defer tp.mux.Unlock()
	if tp.gen != gen {
		log.L(ctx).Debugf("Discarding stale result (gen %d < %d)", gen, tp.gen)
		return tp.current
	}
	tp.current = result
	tp.publishLocked(result)
	return result
}

func (tp *transactionProcessor) recordValidationFailure(tx wctypes.PendingTransaction) {
	if tx.Validation.Reason != nil && tp.metrics.IsMetricsEnabled() {
		tp.metrics.ValidationFailed(tx.Validation.Reason.Code)
	}
}

// publishLocked delivers latest-value semantics: a slow subscriber has its
// undelivered value replaced, never queued behind
func (tp *transactionProcessor) publishLocked(tx wctypes.PendingTransaction) {
	for _, sub := range tp.subscribers {
		select {
		case sub <- tx:
		default:
			select {
			case <-sub:
			default:
			}
			sub <- tx
		}
	}
}

func (tp *transactionProcessor) refreshLoop() {
	l := log.L(tp.ctx)
	for {
		select {
		case <-tp.ctx.Done():
			return
		case <-tp.refreshRequests:
		}
		if tp.refreshDebounce > 0 {
			time.Sleep(tp.refreshDebounce)
			// coalesce any further requests that arrived while dozing
			select {
			case <-tp.refreshRequests:
			default:
			}
		}

		tp.mux.Lock()
		if !tp.initialized || tp.reset {
			tp.mux.Unlock()
			continue
		}
		tp.gen++
		gen := tp.gen
		tx := tp.current
		tp.mux.Unlock()

		refreshed, err := tp.engine.RefreshConfirmations(tp.ctx, tx)
		if err != nil {
			l.Warnf("Engine-driven refresh failed: %s", err)
			continue
		}
		validated, err := tp.engine.ValidateAll(tp.ctx, refreshed)
		if err != nil {
			l.Warnf("Engine-driven revalidation failed: %s", err)
			continue
		}
		tp.acceptResult(tp.ctx, gen, validated)
	}
}
