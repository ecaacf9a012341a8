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

// Package erc20 is the token transfer engine for EVM-family networks. It is
// the reference implementation of the engine contract: network-priced fees
// with user-adjustable levels, no price dependency, no off-chain orders.
package erc20

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/kaleido-io/walletcore/internal/engines/evmbase"
	"github.com/kaleido-io/walletcore/internal/feecache"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/internal/metrics"
	"github.com/kaleido-io/walletcore/internal/validation"
	"github.com/kaleido-io/walletcore/pkg/balances"
	"github.com/kaleido-io/walletcore/pkg/chain"
	"github.com/kaleido-io/walletcore/pkg/engine"
	"github.com/kaleido-io/walletcore/pkg/feemarket"
	"github.com/kaleido-io/walletcore/pkg/pendingtx"
	"github.com/kaleido-io/walletcore/pkg/rates"
	"github.com/kaleido-io/walletcore/pkg/resolver"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
)

const engineName = "erc20_transfer"

// TransferEngine moves one ERC-20 token from the bound chain account to the
// bound target. Constructed already bound - there is no unbound state.
type TransferEngine struct {
	account       *wctypes.Account
	target        *wctypes.TransactionTarget
	fiatCurrency  string
	tokenDecimals int32

	balances  balances.Plugin
	chain     chain.Plugin
	rates     rates.Plugin
	pendingTx pendingtx.Plugin
	resolver  resolver.Plugin
	metrics   metrics.Manager

	feeCache    *feecache.FeeCache
	feeObserver *feecache.Observer
	callbacks   engine.Callbacks

	mux           sync.Mutex
	started       bool
	dest          *resolver.Destination
	nativeBalance *wctypes.Money
}

func NewTransferEngine(ctx context.Context, account *wctypes.Account, target *wctypes.TransactionTarget, fiatCurrency string, tokenDecimals int32, bp balances.Plugin, fp feemarket.Plugin, cp chain.Plugin, rp rates.Plugin, pp pendingtx.Plugin, sp resolver.Plugin, mm metrics.Manager) (engine.TransactionEngine, error) {
	if account == nil || target == nil || bp == nil || fp == nil || cp == nil || rp == nil || pp == nil || sp == nil || mm == nil {
		return nil, i18n.NewError(ctx, i18n.MsgInitializationNilDepError)
	}
	return &TransferEngine{
		account:       account,
		target:        target,
		fiatCurrency:  fiatCurrency,
		tokenDecimals: tokenDecimals,
		balances:      bp,
		chain:         cp,
		rates:         rp,
		pendingTx:     pp,
		resolver:      sp,
		metrics:       mm,
		feeCache:      feecache.NewFeeCache(ctx, fp),
	}, nil
}

func (e *TransferEngine) Name() string {
	return engineName
}

func (e *TransferEngine) Start(ctx context.Context, callbacks engine.Callbacks) error {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.callbacks = callbacks
	e.feeObserver = e.feeCache.NewObserver(ctx, e.account.Network)
	e.started = true
	return nil
}

func (e *TransferEngine) Capabilities() *engine.Capabilities {
	return &engine.Capabilities{
		FeeAdjustment: true,
		NetworkPriced: true,
	}
}

func (e *TransferEngine) AssertInputsValid(ctx context.Context) error {
	if !e.account.Type.Equals(wctypes.AccountTypeChain) {
		return i18n.NewError(ctx, i18n.MsgUnsupportedAccountType, engineName, e.account.Type)
	}
	if !e.target.Type.Equals(wctypes.TargetTypeAddress) && !e.target.Type.Equals(wctypes.TargetTypeAccount) {
		return i18n.NewError(ctx, i18n.MsgUnsupportedTargetType, engineName, e.target.Type)
	}
	return nil
}

func (e *TransferEngine) checkStarted(ctx context.Context) error {
	e.mux.Lock()
	defer e.mux.Unlock()
	if !e.started {
		return i18n.NewError(ctx, i18n.MsgEngineNotInitialized)
	}
	return nil
}

func (e *TransferEngine) InitializeTransaction(ctx context.Context) (tx wctypes.PendingTransaction, err error) {
	if err = e.checkStarted(ctx); err != nil {
		return tx, err
	}

	dest, err := evmbase.ResolveDestination(ctx, e.resolver, e.target, e.account.Currency)
	if err != nil {
		return tx, err
	}
	available, nativeBalance, err := e.fetchBalances(ctx)
	if err != nil {
		return tx, err
	}
	e.mux.Lock()
	e.dest = dest
	e.nativeBalance = nativeBalance
	e.mux.Unlock()

	schedule, err := e.feeObserver.Fees(ctx)
	if err != nil {
		return tx, err
	}
	if e.metrics.IsMetricsEnabled() {
		e.metrics.FeeFetched(e.account.Network)
	}

	levels := schedule.Levels()
	if !containsLevel(levels, wctypes.FeeLevelCustom) {
		levels = append(levels, wctypes.FeeLevelCustom)
	}
	defaultLevel := wctypes.FeeLevelRegular
	if schedule.Quote(defaultLevel) == nil {
		return tx, i18n.NewError(ctx, i18n.MsgFeeLevelNotAvailable, defaultLevel)
	}
	fee := schedule.Quote(defaultLevel).Absolute(e.feeCurrency(), evmbase.ExtraGasLimit(dest))

	tx = wctypes.PendingTransaction{
		SessionID:           wctypes.NewUUID(),
		Amount:              wctypes.ZeroMoney(e.account.Currency),
		Available:           available,
		FeeAmount:           fee,
		FeeForFullAvailable: fee, // token transfer gas does not depend on the amount
		FeeSelection: wctypes.FeeSelection{
			SelectedLevel:   defaultLevel,
			AvailableLevels: levels,
			Asset:           e.feeCurrency(),
		},
		SelectedFiatCurrency: e.fiatCurrency,
		Validation:           wctypes.ValidationUninitialized(),
	}
	log.L(ctx).Infof("Initialized %s session %s for %s", engineName, tx.SessionID, e.account.Currency)
	return e.BuildConfirmations(ctx, tx)
}

func (e *TransferEngine) BuildConfirmations(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}

	amountFiat, err := evmbase.FiatLegFor(ctx, e.rates, tx.Amount, e.tokenDecimals, tx.SelectedFiatCurrency)
	if err != nil {
		return tx, err
	}
	feeFiat, err := evmbase.FiatLegFor(ctx, e.rates, tx.FeeAmount, evmbase.NativeDecimals, tx.SelectedFiatCurrency)
	if err != nil {
		return tx, err
	}

	return tx.WithConfirmations(wctypes.ConfirmationSet{
		{Type: wctypes.ConfirmationSendValue, Amount: tx.Amount, AmountFiat: amountFiat},
		{Type: wctypes.ConfirmationSource, Label: e.sourceLabel()},
		{Type: wctypes.ConfirmationDestination, Label: e.destinationLabel()},
		{Type: wctypes.ConfirmationFeeSelection, FeeLevel: tx.FeeSelection.SelectedLevel, Fee: tx.FeeAmount, FeeFiat: feeFiat, FeeState: wctypes.FeeStateValid},
	}), nil
}

func (e *TransferEngine) UpdateAmount(ctx context.Context, amount *wctypes.Money, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}
	if amount == nil || amount.Currency != tx.SourceCurrency() {
		var currency wctypes.CurrencyID
		if amount != nil {
			currency = amount.Currency
		}
		return tx, i18n.NewError(ctx, i18n.MsgAmountCurrencyMismatch, currency, tx.SourceCurrency())
	}
	if amount.IsNegative() {
		return tx, i18n.NewError(ctx, i18n.MsgNegativeAmount)
	}
	return e.BuildConfirmations(ctx, tx.WithAmount(amount))
}

func (e *TransferEngine) UpdateConfirmation(ctx context.Context, tx wctypes.PendingTransaction, confirmation *wctypes.TransactionConfirmation) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}
	if !tx.Confirmations.Contains(confirmation.Type) {
		return tx, i18n.NewError(ctx, i18n.MsgUnsupportedConfirmation, confirmation.Type)
	}

	// A fee selection update cascades: the fee amount is recomputed and the
	// whole confirmation set rebuilt, not just the one slot swapped
	if confirmation.Type.Equals(wctypes.ConfirmationFeeSelection) && confirmation.FeeLevel != "" {
		return e.UpdateFeeLevel(ctx, tx, confirmation.FeeLevel, confirmation.Fee)
	}

	updated, _ := tx.Confirmations.Replace(confirmation)
	return tx.WithConfirmations(updated), nil
}

func (e *TransferEngine) ValidateAmount(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}
	return tx.WithValidation(validation.ValidateAmount(ctx, tx, e.validationEnv())), nil
}

func (e *TransferEngine) ValidateAll(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}

	// full validation re-reads live balances; a failed fetch surfaces as an
	// error and the transaction is left untouched
	available, nativeBalance, err := e.fetchBalances(ctx)
	if err != nil {
		return tx, err
	}
	e.mux.Lock()
	e.nativeBalance = nativeBalance
	e.mux.Unlock()

	tx = tx.WithBalances(available, tx.FeeForFullAvailable)
	return tx.WithValidation(validation.ValidateAll(ctx, tx, e.validationEnv(), e.pendingTx, e.account.Network)), nil
}

func (e *TransferEngine) UpdateFeeLevel(ctx context.Context, tx wctypes.PendingTransaction, level wctypes.FeeLevel, customAmount *wctypes.Money) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}

	var fee *wctypes.Money
	if level.Equals(wctypes.FeeLevelCustom) {
		if customAmount == nil {
			return tx, i18n.NewError(ctx, i18n.MsgCustomFeeAmountRequired)
		}
		fee = customAmount
	} else {
		// level switches only ever re-derive from the cached schedule - they
		// must not block on the fee oracle
		quote := e.feeCache.Cached(e.account.Network).Quote(level)
		if quote == nil {
			return tx, i18n.NewError(ctx, i18n.MsgFeeLevelNotAvailable, level)
		}
		fee = quote.Absolute(e.feeCurrency(), evmbase.ExtraGasLimit(e.destination()))
		customAmount = nil
	}
	return e.BuildConfirmations(ctx, tx.WithFeeLevel(level, fee, customAmount))
}

// FetchExchangeRates reports the rates for the two currencies a transfer
// touches: the token being sent and the native asset paying for gas
func (e *TransferEngine) FetchExchangeRates(ctx context.Context, tx wctypes.PendingTransaction) (map[wctypes.CurrencyID]decimal.Decimal, error) {
	if err := e.checkStarted(ctx); err != nil {
		return nil, err
	}
	fiat := tx.SelectedFiatCurrency
	if fiat == "" {
		fiat = e.fiatCurrency
	}
	fetched := map[wctypes.CurrencyID]decimal.Decimal{}
	for _, currency := range []wctypes.CurrencyID{e.account.Currency, e.feeCurrency()} {
		if _, ok := fetched[currency]; ok {
			continue
		}
		rate, err := e.rates.Rate(ctx, currency, fiat)
		if err != nil {
			return nil, i18n.WrapError(ctx, err, i18n.MsgQuoteUnavailable, currency, fiat)
		}
		fetched[currency] = rate
	}
	return fetched, nil
}

func (e *TransferEngine) RefreshConfirmations(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error) {
	if err := e.checkStarted(ctx); err != nil {
		return tx, err
	}

	// re-read the schedule (served from cache inside the TTL) and recompute
	// the fee for the selected level; a custom fee is the user's to keep
	level := tx.FeeSelection.SelectedLevel
	if !level.Equals(wctypes.FeeLevelCustom) {
		schedule, err := e.feeObserver.Fees(ctx)
		if err != nil {
			return tx, err
		}
		if quote := schedule.Quote(level); quote != nil {
			fee := quote.Absolute(e.feeCurrency(), evmbase.ExtraGasLimit(e.destination()))
			tx = tx.WithFee(fee)
		}
	}
	return e.BuildConfirmations(ctx, tx)
}

func (e *TransferEngine) Execute(ctx context.Context, tx wctypes.PendingTransaction, orderID string) (*wctypes.ExecutionResult, error) {
	if err := e.checkStarted(ctx); err != nil {
		return nil, err
	}

	dest := e.destination()
	if dest == nil {
		var err error
		if dest, err = evmbase.ResolveDestination(ctx, e.resolver, e.target, e.account.Currency); err != nil {
			return nil, err
		}
	}

	nonce, err := e.chain.NextNonce(ctx, e.account.Network, e.account.Address)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgNonceFetchFailed, e.account.Address)
	}
	gasPrice, gasLimit, err := e.gasParams(ctx, tx, dest)
	if err != nil {
		return nil, err
	}

	raw, err := e.chain.Build(ctx, &chain.BuildRequest{
		Network:         e.account.Network,
		From:            e.account.Address,
		Destination:     dest.Address,
		Amount:          tx.Amount.Amount,
		GasPrice:        gasPrice,
		GasLimit:        gasLimit,
		Nonce:           nonce,
		ContractAddress: evmbase.TokenContract(e.account.Currency),
		Reference:       dest.Reference,
	})
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDispatchFailed, e.account.Network)
	}
	receipt, err := e.chain.Send(ctx, e.account.Network, raw)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDispatchFailed, e.account.Network)
	}

	log.L(ctx).Infof("Dispatched %s transaction %s (session %s)", engineName, receipt.TxHash, tx.SessionID)
	return &wctypes.ExecutionResult{
		TxHash:      receipt.TxHash,
		OrderID:     orderID,
		Network:     e.account.Network,
		SubmittedAt: time.Now(),
	}, nil
}

func (e *TransferEngine) PostExecute(ctx context.Context, result *wctypes.ExecutionResult) error {
	return e.pendingTx.RecordSubmitted(ctx, &pendingtx.Record{
		ID:      wctypes.NewUUID(),
		Network: result.Network,
		TxHash:  result.TxHash,
		Created: time.Now(),
	})
}

func (e *TransferEngine) CreateOrder(ctx context.Context, tx wctypes.PendingTransaction) (string, error) {
	return "", i18n.NewError(ctx, i18n.MsgOrderNotSupported, engineName)
}

func (e *TransferEngine) CancelOrder(ctx context.Context, orderID string) error {
	return i18n.NewError(ctx, i18n.MsgOrderNotSupported, engineName)
}

func (e *TransferEngine) Stop(ctx context.Context) {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.started {
		e.started = false
		e.feeCache.Close()
	}
}

func (e *TransferEngine) feeCurrency() wctypes.CurrencyID {
	return evmbase.NativeCurrency(e.account.Network)
}

func (e *TransferEngine) destination() *resolver.Destination {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.dest
}

func (e *TransferEngine) validationEnv() *validation.Env {
	e.mux.Lock()
	defer e.mux.Unlock()
	return &validation.Env{
		FeeCurrencyBalance: e.nativeBalance,
		NetworkPriced:      true,
	}
}

func (e *TransferEngine) fetchBalances(ctx context.Context) (available, nativeBalance *wctypes.Money, err error) {
	if available, err = e.balances.ActionableBalance(ctx, e.account); err != nil {
		return nil, nil, i18n.WrapError(ctx, err, i18n.MsgBalanceFetchFailed)
	}
	if e.account.Currency == e.feeCurrency() {
		return available, available, nil
	}
	nativeAccount := *e.account
	nativeAccount.Currency = e.feeCurrency()
	if nativeBalance, err = e.balances.ActionableBalance(ctx, &nativeAccount); err != nil {
		return nil, nil, i18n.WrapError(ctx, err, i18n.MsgBalanceFetchFailed)
	}
	return available, nativeBalance, nil
}

func (e *TransferEngine) gasParams(ctx context.Context, tx wctypes.PendingTransaction, dest *resolver.Destination) (*wctypes.BigInt, int64, error) {
	extra := evmbase.ExtraGasLimit(dest)
	schedule := e.feeCache.Cached(e.account.Network)
	level := tx.FeeSelection.SelectedLevel

	if level.Equals(wctypes.FeeLevelCustom) {
		// derive the gas price from the user's absolute fee over the regular
		// tier's gas limit
		quote := schedule.Quote(wctypes.FeeLevelRegular)
		if quote == nil {
			return nil, 0, i18n.NewError(ctx, i18n.MsgFeeLevelNotAvailable, level)
		}
		limit := quote.GasLimit + extra
		price := new(wctypes.BigInt)
		price.Int().Div(tx.FeeAmount.Amount.Int(), big.NewInt(limit))
		return price, limit, nil
	}

	quote := schedule.Quote(level)
	if quote == nil {
		return nil, 0, i18n.NewError(ctx, i18n.MsgFeeLevelNotAvailable, level)
	}
	return quote.GasPrice, quote.GasLimit + extra, nil
}

func (e *TransferEngine) sourceLabel() string {
	if e.account.Label != "" {
		return e.account.Label
	}
	return e.account.Address
}

func (e *TransferEngine) destinationLabel() string {
	if e.target.Label != "" {
		return e.target.Label
	}
	if dest := e.destination(); dest != nil {
		return dest.Address
	}
	return e.target.Address
}

func containsLevel(levels []wctypes.FeeLevel, level wctypes.FeeLevel) bool {
	for _, l := range levels {
		if l.Equals(level) {
			return true
		}
	}
	return false
}
