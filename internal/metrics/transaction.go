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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var TxSubmittedCounter *prometheus.CounterVec
var TxSucceededCounter *prometheus.CounterVec
var TxFailedCounter *prometheus.CounterVec
var ValidationFailureCounter *prometheus.CounterVec
var FeeFetchCounter *prometheus.CounterVec
var TxDurationHistogram *prometheus.HistogramVec

// TxSubmittedCounterName is the prometheus metric for tracking the total number of transactions submitted for execution
var TxSubmittedCounterName = "wc_tx_submitted_total"

// TxSucceededCounterName is the prometheus metric for tracking the total number of transactions dispatched successfully
var TxSucceededCounterName = "wc_tx_succeeded_total"

// TxFailedCounterName is the prometheus metric for tracking the total number of transactions that failed to dispatch
var TxFailedCounterName = "wc_tx_failed_total"

// ValidationFailureCounterName is the prometheus metric for tracking validation failures by reason
var ValidationFailureCounterName = "wc_validation_failure_total"

// FeeFetchCounterName is the prometheus metric for tracking fee oracle round trips
var FeeFetchCounterName = "wc_fee_fetch_total"

// TxDurationHistogramName is the prometheus metric for tracking time from submit to dispatch receipt
var TxDurationHistogramName = "wc_tx_duration_seconds"

var networkLabels = []string{"network"}

func initTransactionMetrics() {
	TxSubmittedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: TxSubmittedCounterName,
		Help: "Number of transactions submitted for execution",
	}, networkLabels)
	TxSucceededCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: TxSucceededCounterName,
		Help: "Number of transactions dispatched successfully",
	}, networkLabels)
	TxFailedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: TxFailedCounterName,
		Help: "Number of transactions that failed to dispatch",
	}, networkLabels)
	ValidationFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: ValidationFailureCounterName,
		Help: "Number of validation failures, by reason",
	}, []string{"reason"})
	FeeFetchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: FeeFetchCounterName,
		Help: "Number of fee oracle round trips",
	}, networkLabels)
	TxDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: TxDurationHistogramName,
		Help: "Histogram of transaction execution, bucketed by time to dispatch receipt",
	}, networkLabels)
}
