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

// ValidationStatus is the terminal outcome of running the validator chain
type ValidationStatus = WCEnum

var (
	ValidationStatusUninitialized = wcEnum("validationstatus", "uninitialized")
	ValidationStatusCanExecute    = wcEnum("validationstatus", "can_execute")
	ValidationStatusInvalid       = wcEnum("validationstatus", "invalid")
)

// ValidationReasonCode is the closed set of user-recoverable validation failures
type ValidationReasonCode = WCEnum

var (
	ReasonInsufficientFunds   = wcEnum("validationreason", "insufficient_funds")
	ReasonBelowFees           = wcEnum("validationreason", "below_fees")
	ReasonBelowMinimumLimit   = wcEnum("validationreason", "below_minimum_limit")
	ReasonTransactionInFlight = wcEnum("validationreason", "transaction_in_flight")
	ReasonUnknownError        = wcEnum("validationreason", "unknown_error")
)

// ValidationReason carries the data needed to render one validation failure.
// Which fields are populated depends on the code.
type ValidationReason struct {
	Code           ValidationReasonCode `json:"code"`
	Available      *Money               `json:"available,omitempty"`
	Requested      *Money               `json:"requested,omitempty"`
	SourceCurrency CurrencyID           `json:"sourceCurrency,omitempty"`
	TargetCurrency CurrencyID           `json:"targetCurrency,omitempty"`
	Fee            *Money               `json:"fee,omitempty"`
	Balance        *Money               `json:"balance,omitempty"`
	Minimum        *Money               `json:"minimum,omitempty"`
}

// ValidationState is exactly one terminal state - partial or multiple
// simultaneous reasons are not representable
type ValidationState struct {
	Status ValidationStatus  `json:"status"`
	Reason *ValidationReason `json:"reason,omitempty"`
}

func ValidationUninitialized() ValidationState {
	return ValidationState{Status: ValidationStatusUninitialized}
}

func ValidationCanExecute() ValidationState {
	return ValidationState{Status: ValidationStatusCanExecute}
}

func ValidationInvalid(reason *ValidationReason) ValidationState {
	return ValidationState{Status: ValidationStatusInvalid, Reason: reason}
}

func (vs ValidationState) CanExecute() bool {
	return vs.Status.Equals(ValidationStatusCanExecute)
}

func (vs ValidationState) IsUninitialized() bool {
	return vs.Status.Equals(ValidationStatusUninitialized)
}
