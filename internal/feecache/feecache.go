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

package feecache

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache"
	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/pkg/feemarket"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

// FeeCache serializes fee oracle access for one engine instance.
//
// Fetching is single-flight: the first caller triggers one oracle round-trip
// and concurrent callers join the same in-flight result. A completed snapshot
// is served from cache until it expires - or until a new observer attaches,
// which invalidates it. That subscription rule bounds staleness to "since the
// last observer attached" without any cancellation plumbing: level switches
// re-derive amounts from the cached schedule and never re-fetch.
type FeeCache struct {
	mux       sync.Mutex
	plugin    feemarket.Plugin
	cache     *ccache.Cache
	ttl       time.Duration
	inflight  map[wctypes.Network]*fetch
	completed map[wctypes.Network]bool
	closed    bool
}

type fetch struct {
	done     chan struct{}
	schedule *feemarket.FeeSchedule
	err      error
}

// Observer is one subscriber's handle onto the cache
type Observer struct {
	fc      *FeeCache
	network wctypes.Network
}

func NewFeeCache(ctx context.Context, plugin feemarket.Plugin) *FeeCache {
	return &FeeCache{
		plugin:    plugin,
		cache:     ccache.New(ccache.Configure().MaxSize(int64(config.GetInt(config.FeeCacheSize)))),
		ttl:       config.GetDuration(config.FeeCacheTTL),
		inflight:  map[wctypes.Network]*fetch{},
		completed: map[wctypes.Network]bool{},
	}
}

// NewObserver attaches a new observer. If a prior fetch has completed, the
// cached snapshot is invalidated so this observer sees fresh data.
func (fc *FeeCache) NewObserver(ctx context.Context, network wctypes.Network) *Observer {
	fc.mux.Lock()
	defer fc.mux.Unlock()
	if fc.completed[network] && fc.inflight[network] == nil {
		log.L(ctx).Debugf("Invalidating fee snapshot for '%s' on new observer", network)
		fc.cache.Delete(string(network))
		fc.completed[network] = false
	}
	return &Observer{fc: fc, network: network}
}

// Fees returns the current fee schedule, joining any in-flight fetch
func (o *Observer) Fees(ctx context.Context) (*feemarket.FeeSchedule, error) {
	return o.fc.fees(ctx, o.network)
}

func (fc *FeeCache) fees(ctx context.Context, network wctypes.Network) (*feemarket.FeeSchedule, error) {
	fc.mux.Lock()
	if fc.closed {
		fc.mux.Unlock()
		return nil, i18n.NewError(ctx, i18n.MsgFeeCacheClosed)
	}

	if item := fc.cache.Get(string(network)); item != nil && !item.Expired() {
		schedule := item.Value().(*feemarket.FeeSchedule)
		fc.mux.Unlock()
		return schedule, nil
	}

	if f := fc.inflight[network]; f != nil {
		fc.mux.Unlock()
		select {
		case <-f.done:
			return f.schedule, f.err
		case <-ctx.Done():
			return nil, i18n.NewError(ctx, i18n.MsgContextCanceled)
		}
	}

	f := &fetch{done: make(chan struct{})}
	fc.inflight[network] = f
	fc.mux.Unlock()

	schedule, err := fc.plugin.Fees(ctx, network)

	fc.mux.Lock()
	delete(fc.inflight, network)
	if err == nil {
		fc.cache.Set(string(network), schedule, fc.ttl)
		fc.completed[network] = true
	} else {
		err = i18n.WrapError(ctx, err, i18n.MsgFeeFetchFailed, network)
	}
	f.schedule, f.err = schedule, err
	close(f.done)
	fc.mux.Unlock()

	return schedule, err
}

// Cached returns the completed snapshot without triggering a fetch - nil if
// none is held. Level switches use this so they can never block.
func (fc *FeeCache) Cached(network wctypes.Network) *feemarket.FeeSchedule {
	fc.mux.Lock()
	defer fc.mux.Unlock()
	if item := fc.cache.Get(string(network)); item != nil && !item.Expired() {
		return item.Value().(*feemarket.FeeSchedule)
	}
	return nil
}

// Close releases the cache. Used by engines on session teardown.
func (fc *FeeCache) Close() {
	fc.mux.Lock()
	defer fc.mux.Unlock()
	if !fc.closed {
		fc.closed = true
		fc.cache.Stop()
	}
}
