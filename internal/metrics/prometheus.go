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

var registry *prometheus.Registry

// Registry returns the prometheus registry, initializing it and registering
// all metrics on first use
func Registry() *prometheus.Registry {
	if registry == nil {
		initMetricsCollectors()
		registry = prometheus.NewRegistry()
		registerMetricsCollectors()
	}
	return registry
}

// Clear drops the registry, so tests can re-init cleanly
func Clear() {
	registry = nil
}

func initMetricsCollectors() {
	initTransactionMetrics()
}

func registerMetricsCollectors() {
	registry.MustRegister(TxSubmittedCounter)
	registry.MustRegister(TxSucceededCounter)
	registry.MustRegister(TxFailedCounter)
	registry.MustRegister(ValidationFailureCounter)
	registry.MustRegister(FeeFetchCounter)
	registry.MustRegister(TxDurationHistogram)
}
