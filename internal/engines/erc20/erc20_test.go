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

package erc20

import (
	"context"
	"fmt"
	"testing"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/metrics"
	"github.com/kaleido-io/walletcore/mocks/balancesmocks"
	"github.com/kaleido-io/walletcore/mocks/chainmocks"
	"github.com/kaleido-io/walletcore/mocks/feemarketmocks"
	"github.com/kaleido-io/walletcore/mocks/pendingtxmocks"
	"github.com/kaleido-io/walletcore/mocks/ratesmocks"
	"github.com/kaleido-io/walletcore/mocks/resolvermocks"
	"github.com/kaleido-io/walletcore/pkg/chain"
	"github.com/kaleido-io/walletcore/pkg/engine"
	"github.com/kaleido-io/walletcore/pkg/feemarket"
	"github.com/kaleido-io/walletcore/pkg/pendingtx"
	"github.com/kaleido-io/walletcore/pkg/resolver"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	tokenCurrency  = wctypes.CurrencyID("ethereum:erc20/0x0c0ffee254729296a45a3885639ac7e10f9d54979")
	nativeCurrency = wctypes.CurrencyID("ethereum:native")
)

type testEngine struct {
	e  *TransferEngine
	bp *balancesmocks.Plugin
	fp *feemarketmocks.Plugin
	cp *chainmocks.Plugin
	rp *ratesmocks.Plugin
	pp *pendingtxmocks.Plugin
	sp *resolvermocks.Plugin
}

type callbacks struct{}

func (cb *callbacks) RefreshRequested(ctx context.Context) {}

func testAccount() *wctypes.Account {
	return &wctypes.Account{
		ID:       wctypes.NewUUID(),
		Type:     wctypes.AccountTypeChain,
		Network:  "ethereum",
		Address:  "0xsource",
		Currency: tokenCurrency,
		Label:    "my wallet",
	}
}

func testTarget() *wctypes.TransactionTarget {
	return &wctypes.TransactionTarget{
		Type:    wctypes.TargetTypeAddress,
		Address: "0xdest",
	}
}

func testSchedule() *feemarket.FeeSchedule {
	return &feemarket.FeeSchedule{
		Network: "ethereum",
		Quotes: map[wctypes.FeeLevel]*feemarket.FeeQuote{
			wctypes.FeeLevelRegular:  {Level: wctypes.FeeLevelRegular, GasPrice: wctypes.NewBigInt(10), GasLimit: 60000},
			wctypes.FeeLevelPriority: {Level: wctypes.FeeLevelPriority, GasPrice: wctypes.NewBigInt(20), GasLimit: 60000},
		},
	}
}

func newTestEngine(t *testing.T) *testEngine {
	config.Reset()
	metrics.Clear()
	te := &testEngine{
		bp: &balancesmocks.Plugin{},
		fp: &feemarketmocks.Plugin{},
		cp: &chainmocks.Plugin{},
		rp: &ratesmocks.Plugin{},
		pp: &pendingtxmocks.Plugin{},
		sp: &resolvermocks.Plugin{},
	}
	mm := metrics.NewMetricsManager(context.Background())
	e, err := NewTransferEngine(context.Background(), testAccount(), testTarget(), "USD", 18,
		te.bp, te.fp, te.cp, te.rp, te.pp, te.sp, mm)
	assert.NoError(t, err)
	te.e = e.(*TransferEngine)
	assert.NoError(t, te.e.Start(context.Background(), &callbacks{}))
	t.Cleanup(func() {
		te.e.Stop(context.Background())
		metrics.Clear()
	})
	return te
}

func (te *testEngine) mockHappyInit() {
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).
		Return(&resolver.Destination{Address: "0xresolved"}, nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.MatchedBy(func(a *wctypes.Account) bool {
		return a.Currency == tokenCurrency
	})).Return(wctypes.NewMoney(tokenCurrency, 1000000), nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.MatchedBy(func(a *wctypes.Account) bool {
		return a.Currency == nativeCurrency
	})).Return(wctypes.NewMoney(nativeCurrency, 5000000), nil)
	te.fp.On("Fees", mock.Anything, wctypes.Network("ethereum")).Return(testSchedule(), nil)
	te.rp.On("Rate", mock.Anything, tokenCurrency, "USD").Return(decimal.NewFromInt(2), nil)
	te.rp.On("Rate", mock.Anything, nativeCurrency, "USD").Return(decimal.NewFromInt(1900), nil)
}

func TestNewTransferEngineNilDeps(t *testing.T) {
	_, err := NewTransferEngine(context.Background(), nil, nil, "", 0, nil, nil, nil, nil, nil, nil, nil)
	assert.Regexp(t, "WC10104", err)
}

func TestCapabilities(t *testing.T) {
	te := newTestEngine(t)
	assert.Equal(t, &engine.Capabilities{FeeAdjustment: true, NetworkPriced: true}, te.e.Capabilities())
	assert.Equal(t, "erc20_transfer", te.e.Name())
}

func TestAssertInputsValid(t *testing.T) {
	te := newTestEngine(t)
	assert.NoError(t, te.e.AssertInputsValid(context.Background()))

	te.e.account.Type = wctypes.AccountTypeFiat
	assert.Regexp(t, "WC10116", te.e.AssertInputsValid(context.Background()))

	te.e.account.Type = wctypes.AccountTypeChain
	te.e.target.Type = wctypes.TargetTypeOrder
	assert.Regexp(t, "WC10117", te.e.AssertInputsValid(context.Background()))
}

func TestNotStarted(t *testing.T) {
	te := newTestEngine(t)
	te.e.Stop(context.Background())
	_, err := te.e.InitializeTransaction(context.Background())
	assert.Regexp(t, "WC10134", err)
}

func TestInitializeTransaction(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()

	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, int64(1000000), tx.Available.Amount.Int().Int64())
	assert.True(t, tx.Validation.IsUninitialized())
	assert.Equal(t, wctypes.FeeLevelRegular, tx.FeeSelection.SelectedLevel)
	assert.True(t, tx.FeeSelection.Contains(wctypes.FeeLevelCustom))
	// regular tier: 10 gas price * 60000 limit, no contract cushion
	assert.Equal(t, int64(600000), tx.FeeAmount.Amount.Int().Int64())
	assert.Equal(t, tx.FeeAmount, tx.FeeForFullAvailable)

	assert.True(t, tx.Confirmations.Contains(wctypes.ConfirmationSendValue))
	assert.True(t, tx.Confirmations.Contains(wctypes.ConfirmationSource))
	assert.True(t, tx.Confirmations.Contains(wctypes.ConfirmationDestination))
	assert.True(t, tx.Confirmations.Contains(wctypes.ConfirmationFeeSelection))
}

func TestInitializeContractDestinationCushion(t *testing.T) {
	te := newTestEngine(t)
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).
		Return(&resolver.Destination{Address: "0xcontract", IsContract: true}, nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.Anything).Return(wctypes.NewMoney(tokenCurrency, 1000), nil)
	te.fp.On("Fees", mock.Anything, wctypes.Network("ethereum")).Return(testSchedule(), nil)
	te.rp.On("Rate", mock.Anything, mock.Anything, "USD").Return(decimal.NewFromInt(1), nil)

	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	// 10 * (60000 + 40000 configured contract cushion)
	assert.Equal(t, int64(1000000), tx.FeeAmount.Amount.Int().Int64())
}

func TestInitializeBalanceFetchFails(t *testing.T) {
	te := newTestEngine(t)
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).
		Return(&resolver.Destination{Address: "0xresolved"}, nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("pop"))

	_, err := te.e.InitializeTransaction(context.Background())
	assert.Regexp(t, "WC10113", err)
}

func TestInitializeResolveFails(t *testing.T) {
	te := newTestEngine(t)
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).Return(nil, fmt.Errorf("pop"))

	_, err := te.e.InitializeTransaction(context.Background())
	assert.Regexp(t, "WC10120", err)
}

func TestInitializeFeeFetchFails(t *testing.T) {
	te := newTestEngine(t)
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).
		Return(&resolver.Destination{Address: "0xresolved"}, nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.Anything).Return(wctypes.NewMoney(tokenCurrency, 1000), nil)
	te.fp.On("Fees", mock.Anything, wctypes.Network("ethereum")).Return(nil, fmt.Errorf("oracle down"))

	_, err := te.e.InitializeTransaction(context.Background())
	assert.Regexp(t, "WC10114", err)
}

func TestUpdateAmountCurrencyMismatch(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	_, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(nativeCurrency, 5), tx)
	assert.Regexp(t, "WC10106", err)
	_, err = te.e.UpdateAmount(context.Background(), nil, tx)
	assert.Regexp(t, "WC10106", err)
}

func TestUpdateAmountNegative(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	_, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, -1), tx)
	assert.Regexp(t, "WC10132", err)
}

func TestUpdateAmountRebuildsConfirmations(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	updated, err := te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), updated.Amount.Amount.Int().Int64())
	for _, c := range updated.Confirmations {
		if c.Type.Equals(wctypes.ConfirmationSendValue) {
			assert.Equal(t, int64(500), c.Amount.Amount.Int().Int64())
			assert.NotNil(t, c.AmountFiat)
		}
	}
}

func TestValidateAmountPipeline(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	// zero amount fails the minimum stage
	validated, err := te.e.ValidateAmount(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ReasonBelowMinimumLimit, validated.Validation.Reason.Code)

	// amount above the available balance
	tx2, err := te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 2000000), tx)
	assert.NoError(t, err)
	validated, err = te.e.ValidateAmount(context.Background(), tx2)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ReasonInsufficientFunds, validated.Validation.Reason.Code)

	// a sendable amount
	tx3, err := te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)
	validated, err = te.e.ValidateAmount(context.Background(), tx3)
	assert.NoError(t, err)
	assert.True(t, validated.Validation.CanExecute())
}

func TestValidateAmountInsufficientGas(t *testing.T) {
	te := newTestEngine(t)
	te.sp.On("Resolve", mock.Anything, mock.Anything, tokenCurrency).
		Return(&resolver.Destination{Address: "0xresolved"}, nil)
	te.bp.On("ActionableBalance", mock.Anything, mock.MatchedBy(func(a *wctypes.Account) bool {
		return a.Currency == tokenCurrency
	})).Return(wctypes.NewMoney(tokenCurrency, 1000000), nil)
	// native balance below the 600000 fee
	te.bp.On("ActionableBalance", mock.Anything, mock.MatchedBy(func(a *wctypes.Account) bool {
		return a.Currency == nativeCurrency
	})).Return(wctypes.NewMoney(nativeCurrency, 100), nil)
	te.fp.On("Fees", mock.Anything, wctypes.Network("ethereum")).Return(testSchedule(), nil)
	te.rp.On("Rate", mock.Anything, mock.Anything, "USD").Return(decimal.NewFromInt(1), nil)

	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	tx, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)

	validated, err := te.e.ValidateAmount(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ReasonBelowFees, validated.Validation.Reason.Code)
}

func TestValidateAllChecksPending(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	tx, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)

	te.pp.On("IsWaitingOnTransaction", mock.Anything, wctypes.Network("ethereum")).Return(true, nil).Once()
	validated, err := te.e.ValidateAll(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ReasonTransactionInFlight, validated.Validation.Reason.Code)

	te.pp.On("IsWaitingOnTransaction", mock.Anything, wctypes.Network("ethereum")).Return(false, nil).Once()
	validated, err = te.e.ValidateAll(context.Background(), tx)
	assert.NoError(t, err)
	assert.True(t, validated.Validation.CanExecute())
}

func TestValidateAllRepoErrorFailsClosed(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	tx, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)

	te.pp.On("IsWaitingOnTransaction", mock.Anything, wctypes.Network("ethereum")).Return(false, fmt.Errorf("db down"))
	validated, err := te.e.ValidateAll(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.ReasonTransactionInFlight, validated.Validation.Reason.Code)
}

func TestUpdateFeeLevelFromCache(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	updated, err := te.e.UpdateFeeLevel(context.Background(), tx, wctypes.FeeLevelPriority, nil)
	assert.NoError(t, err)
	assert.Equal(t, wctypes.FeeLevelPriority, updated.FeeSelection.SelectedLevel)
	assert.Equal(t, int64(1200000), updated.FeeAmount.Amount.Int().Int64())
	// a level switch never goes back to the oracle
	te.fp.AssertNumberOfCalls(t, "Fees", 1)
}

func TestUpdateFeeLevelCustom(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	_, err = te.e.UpdateFeeLevel(context.Background(), tx, wctypes.FeeLevelCustom, nil)
	assert.Regexp(t, "WC10131", err)

	custom := wctypes.NewMoney(nativeCurrency, 777777)
	updated, err := te.e.UpdateFeeLevel(context.Background(), tx, wctypes.FeeLevelCustom, custom)
	assert.NoError(t, err)
	assert.Equal(t, custom, updated.FeeAmount)
	assert.Equal(t, custom, updated.FeeSelection.CustomAmount)
}

func TestUpdateConfirmationCascadesFeeLevel(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	updated, err := te.e.UpdateConfirmation(context.Background(), tx, &wctypes.TransactionConfirmation{
		Type:     wctypes.ConfirmationFeeSelection,
		FeeLevel: wctypes.FeeLevelPriority,
	})
	assert.NoError(t, err)
	assert.Equal(t, wctypes.FeeLevelPriority, updated.FeeSelection.SelectedLevel)
}

func TestUpdateConfirmationUnknownType(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	_, err = te.e.UpdateConfirmation(context.Background(), tx, &wctypes.TransactionConfirmation{
		Type: wctypes.ConfirmationMemo,
	})
	assert.Regexp(t, "WC10108", err)
}

func TestRefreshConfirmationsRecomputesFee(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	refreshed, err := te.e.RefreshConfirmations(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, int64(600000), refreshed.FeeAmount.Amount.Int().Int64())
}

func TestBuildConfirmationsIdempotent(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	tx, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)

	// rebuilding from the same transaction is a pure derivation
	once, err := te.e.BuildConfirmations(context.Background(), tx)
	assert.NoError(t, err)
	twice, err := te.e.BuildConfirmations(context.Background(), once)
	assert.NoError(t, err)
	assert.Equal(t, once.Confirmations, twice.Confirmations)
	assert.Equal(t, once, twice)
}

func TestFetchExchangeRates(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	fetched, err := te.e.FetchExchangeRates(context.Background(), tx)
	assert.NoError(t, err)
	assert.Len(t, fetched, 2)
	assert.True(t, fetched[tokenCurrency].Equal(decimal.NewFromInt(2)))
	assert.True(t, fetched[nativeCurrency].Equal(decimal.NewFromInt(1900)))
}

func TestFetchExchangeRatesSourceDown(t *testing.T) {
	te := newTestEngine(t)
	te.rp.On("Rate", mock.Anything, tokenCurrency, "USD").Return(decimal.Zero, fmt.Errorf("pop"))

	_, err := te.e.FetchExchangeRates(context.Background(), wctypes.PendingTransaction{SelectedFiatCurrency: "USD"})
	assert.Regexp(t, "WC10115", err)
}

func TestFetchExchangeRatesNotStarted(t *testing.T) {
	te := newTestEngine(t)
	te.e.Stop(context.Background())
	_, err := te.e.FetchExchangeRates(context.Background(), wctypes.PendingTransaction{})
	assert.Regexp(t, "WC10134", err)
}

func TestExecuteDispatches(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)
	tx, err = te.e.UpdateAmount(context.Background(), wctypes.NewMoney(tokenCurrency, 500), tx)
	assert.NoError(t, err)

	te.cp.On("NextNonce", mock.Anything, wctypes.Network("ethereum"), "0xsource").Return(uint64(7), nil)
	te.cp.On("Build", mock.Anything, mock.MatchedBy(func(req *chain.BuildRequest) bool {
		return req.Nonce == 7 &&
			req.Destination == "0xresolved" &&
			req.ContractAddress == "0x0c0ffee254729296a45a3885639ac7e10f9d54979" &&
			req.GasLimit == 60000 &&
			req.Amount.Int().Int64() == 500
	})).Return(chain.RawTransaction("signed"), nil)
	te.cp.On("Send", mock.Anything, wctypes.Network("ethereum"), chain.RawTransaction("signed")).
		Return(&chain.Receipt{TxHash: "0xhash"}, nil)

	result, err := te.e.Execute(context.Background(), tx, "")
	assert.NoError(t, err)
	assert.Equal(t, "0xhash", result.TxHash)
	assert.Equal(t, wctypes.Network("ethereum"), result.Network)
}

func TestExecuteNonceFails(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	te.cp.On("NextNonce", mock.Anything, wctypes.Network("ethereum"), "0xsource").Return(uint64(0), fmt.Errorf("pop"))
	_, err = te.e.Execute(context.Background(), tx, "")
	assert.Regexp(t, "WC10119", err)
}

func TestExecuteSendFails(t *testing.T) {
	te := newTestEngine(t)
	te.mockHappyInit()
	tx, err := te.e.InitializeTransaction(context.Background())
	assert.NoError(t, err)

	te.cp.On("NextNonce", mock.Anything, mock.Anything, mock.Anything).Return(uint64(7), nil)
	te.cp.On("Build", mock.Anything, mock.Anything).Return(chain.RawTransaction("signed"), nil)
	te.cp.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("mempool full"))

	_, err = te.e.Execute(context.Background(), tx, "")
	assert.Regexp(t, "WC10118", err)
}

func TestPostExecuteRecordsPending(t *testing.T) {
	te := newTestEngine(t)
	te.pp.On("RecordSubmitted", mock.Anything, mock.MatchedBy(func(r *pendingtx.Record) bool {
		return r.TxHash == "0xhash" && r.Network == "ethereum" && r.ID != nil
	})).Return(nil)

	err := te.e.PostExecute(context.Background(), &wctypes.ExecutionResult{TxHash: "0xhash", Network: "ethereum"})
	assert.NoError(t, err)
	te.pp.AssertExpectations(t)
}

func TestOrdersNotSupported(t *testing.T) {
	te := newTestEngine(t)
	_, err := te.e.CreateOrder(context.Background(), wctypes.PendingTransaction{})
	assert.Regexp(t, "WC10122", err)
	assert.Regexp(t, "WC10122", te.e.CancelOrder(context.Background(), "o1"))
}
