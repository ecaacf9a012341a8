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
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the backend that holds the funds
type AccountType = WCEnum

var (
	// AccountTypeChain is a self-custodied on-ledger account
	AccountTypeChain = wcEnum("accounttype", "chain")
	// AccountTypeCustodial is held by a custodian and moved over their rails
	AccountTypeCustodial = wcEnum("accounttype", "custodial")
	// AccountTypeFiat is an off-ledger fiat balance
	AccountTypeFiat = wcEnum("accounttype", "fiat")
)

// Account is the bound source of funds for a transaction session
type Account struct {
	ID       *UUID       `json:"id"`
	Type     AccountType `json:"type"`
	Network  Network     `json:"network"`
	Address  string      `json:"address,omitempty"`
	Currency CurrencyID  `json:"currency"`
	Label    string      `json:"label,omitempty"`
}

// TargetType distinguishes the kind of counterparty a transaction is bound to
type TargetType = WCEnum

var (
	// TargetTypeAddress is a raw on-ledger address
	TargetTypeAddress = wcEnum("targettype", "address")
	// TargetTypeAccount is another account known to this wallet
	TargetTypeAccount = wcEnum("targettype", "account")
	// TargetTypeOrder is an off-chain order endpoint (swap/sell/buy)
	TargetTypeOrder = wcEnum("targettype", "order")
)

// TransactionTarget is the bound destination for a transaction session
type TransactionTarget struct {
	Type      TargetType `json:"type"`
	Address   string     `json:"address,omitempty"`
	AccountID *UUID      `json:"accountId,omitempty"`
	Currency  CurrencyID `json:"currency,omitempty"`
	Label     string     `json:"label,omitempty"`
}

// Quote is a point-in-time price for price-dependent flows (swap/sell/buy).
// It is only present on transactions whose engine declares PriceDependent.
type Quote struct {
	ID      string          `json:"id,omitempty"`
	Pair    string          `json:"pair"`
	Price   decimal.Decimal `json:"price"`
	Expires *time.Time      `json:"expires,omitempty"`
}

// ExecutionResult is the receipt returned by a successful engine execution
type ExecutionResult struct {
	TxHash      string    `json:"txHash,omitempty"`
	OrderID     string    `json:"orderId,omitempty"`
	Network     Network   `json:"network"`
	SubmittedAt time.Time `json:"submittedAt"`
}
