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

package i18n

var (
	MsgConfigFailed               = ffm("WC10101", "Failed to read config: %s")
	MsgBigIntParseFailed          = ffm("WC10102", "Failed to parse value '%s' as a number")
	MsgInvalidUUID                = ffm("WC10103", "Invalid UUID '%s'")
	MsgInitializationNilDepError  = ffm("WC10104", "Initialization failed due to unmet dependency")
	MsgContextCanceled            = ffm("WC10105", "Context canceled")
	MsgAmountCurrencyMismatch     = ffm("WC10106", "Amount currency '%s' does not match transaction source currency '%s'")
	MsgFeeLevelNotAvailable       = ffm("WC10107", "Fee level '%s' is not in the available set for this transaction")
	MsgUnsupportedConfirmation    = ffm("WC10108", "Confirmation type '%s' is not part of this transaction's confirmation set")
	MsgNotValidatedForExecute     = ffm("WC10109", "Transaction is not in an executable state: %s")
	MsgTransactionAlreadyExecuted = ffm("WC10110", "Transaction for this session has already been executed")
	MsgProcessorNotInitialized    = ffm("WC10111", "Transaction processor has not been initialized")
	MsgProcessorReset             = ffm("WC10112", "Transaction processor has been reset and can no longer be used")
	MsgBalanceFetchFailed         = ffm("WC10113", "Failed to fetch account balance")
	MsgFeeFetchFailed             = ffm("WC10114", "Failed to fetch fee data for network '%s'")
	MsgQuoteUnavailable           = ffm("WC10115", "Conversion rate from '%s' to '%s' is unavailable")
	MsgUnsupportedAccountType     = ffm("WC10116", "Engine '%s' does not support the bound source account '%s'")
	MsgUnsupportedTargetType      = ffm("WC10117", "Engine '%s' does not support the bound transaction target '%s'")
	MsgDispatchFailed             = ffm("WC10118", "Failed to dispatch transaction to network '%s'")
	MsgNonceFetchFailed           = ffm("WC10119", "Failed to read account nonce for address '%s'")
	MsgDestinationResolveFailed   = ffm("WC10120", "Failed to resolve destination for target '%s'")
	MsgEngineNotPriceDependent    = ffm("WC10121", "Engine '%s' does not support price or quote updates")
	MsgOrderNotSupported          = ffm("WC10122", "Engine '%s' does not support off-chain orders")
	MsgDBConnectFailed            = ffm("WC10123", "Database connection failed")
	MsgDBQueryFailed              = ffm("WC10124", "Database query failed")
	MsgWSConnectFailed            = ffm("WC10125", "Websocket connection failed to '%s'")
	MsgWSClosing                  = ffm("WC10126", "Websocket closing")
	MsgInvalidPriceTick           = ffm("WC10127", "Invalid message received on price feed: %s")
	MsgKafkaEmitFailed            = ffm("WC10128", "Failed to publish completion event to topic '%s'")
	MsgGatewayError               = ffm("WC10129", "Error from gasconnect gateway: %s")
	MsgGatewayInvalidResponse     = ffm("WC10130", "Unexpected response from gasconnect gateway [%d]")
	MsgCustomFeeAmountRequired    = ffm("WC10131", "A custom fee amount is required when selecting the custom fee level")
	MsgNegativeAmount             = ffm("WC10132", "Transaction amounts may not be negative")
	MsgFeeCacheClosed             = ffm("WC10133", "Fee cache has been released")
	MsgEngineNotInitialized       = ffm("WC10134", "Engine has not been initialized for a transaction session")
	MsgWSSendTimedOut             = ffm("WC10135", "Websocket send timed out")
	MsgScanFailed                 = ffm("WC10136", "Failed to restore type '%T' into '%T'")
)
