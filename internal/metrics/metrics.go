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
	"context"
	"sync"
	"time"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

var mutex = &sync.Mutex{}

type Manager interface {
	TransactionSubmitted(network wctypes.Network, sessionID *wctypes.UUID)
	TransactionSucceeded(network wctypes.Network, sessionID *wctypes.UUID)
	TransactionFailed(network wctypes.Network, sessionID *wctypes.UUID)
	ValidationFailed(reason wctypes.ValidationReasonCode)
	FeeFetched(network wctypes.Network)
	IsMetricsEnabled() bool
}

type metricsManager struct {
	ctx            context.Context
	metricsEnabled bool
	timeMap        map[string]time.Time
}

func NewMetricsManager(ctx context.Context) Manager {
	Registry()
	return &metricsManager{
		ctx:            ctx,
		metricsEnabled: config.GetBool(config.MetricsEnabled),
		timeMap:        make(map[string]time.Time),
	}
}

func (mm *metricsManager) IsMetricsEnabled() bool {
	return mm.metricsEnabled
}

func (mm *metricsManager) TransactionSubmitted(network wctypes.Network, sessionID *wctypes.UUID) {
	TxSubmittedCounter.WithLabelValues(network.String()).Inc()
	mm.addTime(sessionID.String())
}

func (mm *metricsManager) TransactionSucceeded(network wctypes.Network, sessionID *wctypes.UUID) {
	TxSucceededCounter.WithLabelValues(network.String()).Inc()
	if elapsed, ok := mm.takeTime(sessionID.String()); ok {
		TxDurationHistogram.WithLabelValues(network.String()).Observe(elapsed.Seconds())
	}
}

func (mm *metricsManager) TransactionFailed(network wctypes.Network, sessionID *wctypes.UUID) {
	TxFailedCounter.WithLabelValues(network.String()).Inc()
	_, _ = mm.takeTime(sessionID.String())
}

func (mm *metricsManager) ValidationFailed(reason wctypes.ValidationReasonCode) {
	ValidationFailureCounter.WithLabelValues(reason.String()).Inc()
}

func (mm *metricsManager) FeeFetched(network wctypes.Network) {
	FeeFetchCounter.WithLabelValues(network.String()).Inc()
}

func (mm *metricsManager) addTime(id string) {
	mutex.Lock()
	defer mutex.Unlock()
	mm.timeMap[id] = time.Now()
}

func (mm *metricsManager) takeTime(id string) (time.Duration, bool) {
	mutex.Lock()
	defer mutex.Unlock()
	start, ok := mm.timeMap[id]
	if ok {
		delete(mm.timeMap, id)
		return time.Since(start), true
	}
	return 0, false
}
