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

package balances

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// Plugin is the balance/account provider contract consumed by engines.
// Implementations are injected - never resolved from a global registry.
type Plugin interface {
	// ActionableBalance is the spendable balance of the account at quote
	// time, net of anything locked or unconfirmed
	ActionableBalance(ctx context.Context, account *wctypes.Account) (*wctypes.Money, error)

	// AccountCurrency resolves the currency an account holds
	AccountCurrency(ctx context.Context, account *wctypes.Account) (wctypes.CurrencyID, error)
}
