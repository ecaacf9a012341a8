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

// Package notify provides the in-process completion broadcast, used when all
// interested caches live in the same process as the engine
package notify

import (
	"context"
	"sync"

	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/pkg/notify"
)

// InProcessNotifier fans completion events out to local subscriber channels.
// A subscriber that is not keeping up has its oldest pending event dropped,
// so an emit never blocks the transaction path.
type InProcessNotifier struct {
	mux  sync.Mutex
	subs []chan *notify.CompletionEvent
}

func NewInProcessNotifier() *InProcessNotifier {
	return &InProcessNotifier{}
}

// Subscribe registers a listener channel. The returned channel carries the
// most recent events, newest winning when the subscriber lags.
func (n *InProcessNotifier) Subscribe() <-chan *notify.CompletionEvent {
	n.mux.Lock()
	defer n.mux.Unlock()
	sub := make(chan *notify.CompletionEvent, 1)
	n.subs = append(n.subs, sub)
	return sub
}

// TransactionCompleted implements notify.Notifier
func (n *InProcessNotifier) TransactionCompleted(ctx context.Context, event *notify.CompletionEvent) error {
	n.mux.Lock()
	defer n.mux.Unlock()

	log.L(ctx).Debugf("Broadcasting completion of session %s (txHash=%s)", event.SessionID, event.TxHash)
	for _, sub := range n.subs {
		select {
		case sub <- event:
		default:
			select {
			case <-sub:
			default:
			}
			sub <- event
		}
	}
	return nil
}

// Close releases all subscriber channels
func (n *InProcessNotifier) Close() {
	n.mux.Lock()
	defer n.mux.Unlock()
	for _, sub := range n.subs {
		close(sub)
	}
	n.subs = nil
}
