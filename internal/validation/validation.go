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

package validation

import (
	"context"

	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/pkg/pendingtx"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// Env is the cached data the stages read. Nothing in here may trigger I/O -
// engines populate it from data they already hold, so that typing an amount
// never blocks on the network.
type Env struct {
	// Minimum is the smallest sendable amount; nil means any positive amount
	Minimum *wctypes.Money
	// FeeCurrencyBalance is the balance of the network's fee asset. Only
	// consulted when NetworkPriced.
	FeeCurrencyBalance *wctypes.Money
	// NetworkPriced enables the sufficient-gas stage
	NetworkPriced bool
	// TargetCurrency is the currency the counterparty receives (differs from
	// the source currency for swap/sell flows)
	TargetCurrency wctypes.CurrencyID
}

// ValidateAmounts is stage 1: the amount must be positive, and at least the
// flow's minimum where one applies
func ValidateAmounts(ctx context.Context, tx wctypes.PendingTransaction, env *Env) *wctypes.ValidationReason {
	min := env.Minimum
	if min == nil {
		min = wctypes.ZeroMoney(tx.SourceCurrency())
	}
	if tx.Amount.IsZero() || tx.Amount.IsNegative() || tx.Amount.Cmp(min) < 0 {
		return &wctypes.ValidationReason{
			Code:    wctypes.ReasonBelowMinimumLimit,
			Minimum: min,
		}
	}
	return nil
}

// ValidateSufficientFunds is stage 2: the amount must be covered by the
// actionable balance
func ValidateSufficientFunds(ctx context.Context, tx wctypes.PendingTransaction, env *Env) *wctypes.ValidationReason {
	if tx.Amount.Cmp(tx.Available) > 0 {
		targetCurrency := env.TargetCurrency
		if targetCurrency == "" {
			targetCurrency = tx.SourceCurrency()
		}
		return &wctypes.ValidationReason{
			Code:           wctypes.ReasonInsufficientFunds,
			Available:      tx.Available,
			Requested:      tx.Amount,
			SourceCurrency: tx.SourceCurrency(),
			TargetCurrency: targetCurrency,
		}
	}
	return nil
}

// ValidateSufficientGas is stage 3, network-priced assets only: the absolute
// fee must be covered by the fee currency balance. When the fee currency is
// the spend currency, the fee must fit alongside the amount itself.
func ValidateSufficientGas(ctx context.Context, tx wctypes.PendingTransaction, env *Env) *wctypes.ValidationReason {
	if !env.NetworkPriced {
		return nil
	}
	spend := tx.FeeAmount
	if tx.FeeAmount != nil && tx.FeeAmount.Currency == tx.SourceCurrency() {
		spend = &wctypes.Money{Currency: tx.FeeAmount.Currency, Amount: tx.FeeAmount.Amount.Add(tx.Amount.Amount)}
	}
	if spend.Cmp(env.FeeCurrencyBalance) > 0 {
		return &wctypes.ValidationReason{
			Code:    wctypes.ReasonBelowFees,
			Fee:     tx.FeeAmount,
			Balance: env.FeeCurrencyBalance,
		}
	}
	return nil
}

// ValidateNoPendingTransaction is stage 4, execute-time only: no other
// transaction for the same network may be broadcast-pending. A repository
// error fails closed - we'd rather block a send than double-spend a nonce.
func ValidateNoPendingTransaction(ctx context.Context, repo pendingtx.Plugin, network wctypes.Network) *wctypes.ValidationReason {
	waiting, err := repo.IsWaitingOnTransaction(ctx, network)
	if err != nil {
		log.L(ctx).Warnf("Pending transaction check failed for network '%s', failing closed: %s", network, err)
		waiting = true
	}
	if waiting {
		return &wctypes.ValidationReason{Code: wctypes.ReasonTransactionInFlight}
	}
	return nil
}

type stageFn func(ctx context.Context, tx wctypes.PendingTransaction, env *Env) *wctypes.ValidationReason

func runStages(ctx context.Context, tx wctypes.PendingTransaction, env *Env, stages []stageFn) wctypes.ValidationState {
	for _, stage := range stages {
		if reason := stage(ctx, tx, env); reason != nil {
			return wctypes.ValidationInvalid(reason)
		}
	}
	return wctypes.ValidationCanExecute()
}

// ValidateAmount runs the amount-shape stages only (1-3). It is cheap and
// synchronous, suitable for running on every keystroke.
func ValidateAmount(ctx context.Context, tx wctypes.PendingTransaction, env *Env) wctypes.ValidationState {
	return runStages(ctx, tx, env, []stageFn{
		ValidateAmounts,
		ValidateSufficientFunds,
		ValidateSufficientGas,
	})
}

// ValidateAll runs the full ordered short-circuiting chain (1-4)
func ValidateAll(ctx context.Context, tx wctypes.PendingTransaction, env *Env, repo pendingtx.Plugin, network wctypes.Network) wctypes.ValidationState {
	state := ValidateAmount(ctx, tx, env)
	if !state.CanExecute() {
		return state
	}
	if reason := ValidateNoPendingTransaction(ctx, repo, network); reason != nil {
		return wctypes.ValidationInvalid(reason)
	}
	return wctypes.ValidationCanExecute()
}
