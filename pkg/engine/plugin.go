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

package engine

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
)

// TransactionEngine is the contract every asset/flow-specific engine
// implements - one implementation per (asset-class x flow) pair. An engine is
// bound to exactly one (source account, transaction target) at construction,
// and never holds its own authoritative copy of the transaction: it receives
// and returns wctypes.PendingTransaction values.
type TransactionEngine interface {
	// Name returns the unique engine name, used in logs and errors
	Name() string

	// Start hands the engine its callbacks. The engine must not request a
	// refresh before Start is called.
	Start(ctx context.Context, callbacks Callbacks) error

	// Capabilities returns what this engine supports - not called until after Start
	Capabilities() *Capabilities

	// AssertInputsValid verifies the bound source account and target are of
	// types this engine supports. A failure is caller misuse, not a runtime
	// error path.
	AssertInputsValid(ctx context.Context) error

	// InitializeTransaction produces the first pending transaction: zero
	// amount, current balance, zero fee, the default fee level
	InitializeTransaction(ctx context.Context) (wctypes.PendingTransaction, error)

	// BuildConfirmations returns the transaction with its confirmation list
	// wholesale replaced, reflecting the current amount, fee and fiat quotes
	BuildConfirmations(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error)

	// UpdateAmount returns the transaction with amount, available balance and
	// fee recomputed for the currently selected fee level. Fails if the amount
	// currency does not match the source currency.
	UpdateAmount(ctx context.Context, amount *wctypes.Money, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error)

	// UpdateConfirmation replaces the one confirmation slot matching the given
	// case, cascading any side effects (a fee level change recomputes the fee).
	// Fails if the transaction's confirmation set never contained that case.
	UpdateConfirmation(ctx context.Context, tx wctypes.PendingTransaction, confirmation *wctypes.TransactionConfirmation) (wctypes.PendingTransaction, error)

	// ValidateAmount runs only the amount-shape validators and writes the
	// outcome into the validation state. Never returns a validation failure
	// as an error.
	ValidateAmount(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error)

	// ValidateAll runs the full validator chain, including balance, fee and
	// in-flight checks
	ValidateAll(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error)

	// UpdateFeeLevel sets the selected level and recomputes the fee amount
	// from already-cached fee data. The caller must have checked the level is
	// in the available set.
	UpdateFeeLevel(ctx context.Context, tx wctypes.PendingTransaction, level wctypes.FeeLevel, customAmount *wctypes.Money) (wctypes.PendingTransaction, error)

	// FetchExchangeRates returns the live conversion rates into the
	// transaction's selected fiat currency for each currency the transaction
	// touches (the amount asset and, where distinct, the fee asset). Engines
	// with no rate source fail, like CreateOrder does.
	FetchExchangeRates(ctx context.Context, tx wctypes.PendingTransaction) (map[wctypes.CurrencyID]decimal.Decimal, error)

	// RefreshConfirmations re-derives confirmations in response to an external
	// signal (price tick, balance change) without user action
	RefreshConfirmations(ctx context.Context, tx wctypes.PendingTransaction) (wctypes.PendingTransaction, error)

	// Execute performs the asset-specific submission. Must only be called when
	// the transaction validation state allows execution.
	Execute(ctx context.Context, tx wctypes.PendingTransaction, orderID string) (*wctypes.ExecutionResult, error)

	// PostExecute is a best-effort side-effecting hook after a successful
	// execution (cache invalidation etc). Errors are logged, not surfaced.
	PostExecute(ctx context.Context, result *wctypes.ExecutionResult) error

	// CreateOrder creates the off-chain order some flows require before
	// execution. Only valid when Capabilities().RequiresOrder.
	CreateOrder(ctx context.Context, tx wctypes.PendingTransaction) (string, error)

	// CancelOrder abandons a previously created order
	CancelOrder(ctx context.Context, orderID string) error

	// Stop releases any resources tied to this transaction session - fee
	// caches, feed subscriptions. The engine is unusable afterwards.
	Stop(ctx context.Context)
}

// Capabilities declares what an engine supports, so the processor can gate
// quote/order paths without knowing engine internals
type Capabilities struct {
	// FeeAdjustment is true when the user can choose between fee levels
	FeeAdjustment bool
	// NetworkPriced is true when fees are set by a network fee market,
	// and the sufficient-gas validator applies
	NetworkPriced bool
	// PriceDependent is true for flows whose amounts depend on a live price
	// (swap/sell/buy), enabling quote and price updates
	PriceDependent bool
	// RequiresOrder is true for flows that must lock an off-chain order
	// before execution
	RequiresOrder bool
}

// Callbacks is the interface the processor provides to each engine.
//
// RefreshRequested may be invoked from any goroutine. The processor reacts by
// re-deriving confirmations and revalidating, entirely independent of user
// input - it does not re-enter the engine on the calling goroutine.
type Callbacks interface {
	RefreshRequested(ctx context.Context)
}
