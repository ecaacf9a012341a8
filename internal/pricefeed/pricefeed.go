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

// Package pricefeed subscribes to a live price tick stream over a websocket,
// fanning ticks out to listeners. Price-dependent engines use it to drive
// quote refreshes without polling.
package pricefeed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/internal/wsclient"
	"github.com/shopspring/decimal"
)

const (
	FeedConfigURL          = "url"
	FeedConfigAuthUsername = "auth.username"
	FeedConfigAuthPassword = "auth.password"
)

func InitPrefix(prefix config.ConfigPrefix) {
	prefix.AddKnownKey(FeedConfigURL)
	prefix.AddKnownKey(FeedConfigAuthUsername)
	prefix.AddKnownKey(FeedConfigAuthPassword)
}

// Tick is one price observation for a trading pair
type Tick struct {
	Type  string          `json:"type,omitempty"`
	Pair  string          `json:"pair"`
	Price decimal.Decimal `json:"price"`
}

// Listener receives ticks for a subscribed pair. Called on the feed's
// goroutine - listeners must not block.
type Listener func(ctx context.Context, tick *Tick)

type PriceFeed struct {
	ctx       context.Context
	cancel    func()
	ws        *wsclient.WSClient
	mux       sync.Mutex
	listeners map[string][]Listener
	latest    map[string]decimal.Decimal
}

// New connects the feed and subscribes to the given pairs. Subscriptions are
// replayed automatically on reconnect.
func New(ctx context.Context, prefix config.ConfigPrefix, pairs ...string) (*PriceFeed, error) {
	attempts := uint(config.GetInt(config.PriceFeedReconnectAttempts))
	initDelay := uint(config.GetInt(config.PriceFeedRetryInitDelayMS))
	maxDelay := uint(config.GetInt(config.PriceFeedRetryMaxDelayMS))
	wsConf := &wsclient.WSConfig{
		URL: prefix.GetString(FeedConfigURL),
		WSRetryConfig: wsclient.WSRetryConfig{
			InitialConnectAttempts: &attempts,
			WaitTimeMS:             &initDelay,
			MaxWaitTimeMS:          &maxDelay,
		},
	}
	username := prefix.GetString(FeedConfigAuthUsername)
	password := prefix.GetString(FeedConfigAuthPassword)
	if username != "" && password != "" {
		wsConf.Auth = &wsclient.WSAuthConfig{Username: username, Password: password}
	}

	subscribes := make([][]byte, len(pairs))
	for i, pair := range pairs {
		subscribes[i], _ = json.Marshal(map[string]string{"type": "subscribe", "pair": pair})
	}

	ws, err := wsclient.New(ctx, wsConf, subscribes...)
	if err != nil {
		return nil, err
	}

	fctx, cancel := context.WithCancel(ctx)
	pf := &PriceFeed{
		ctx:       fctx,
		cancel:    cancel,
		ws:        ws,
		listeners: map[string][]Listener{},
		latest:    map[string]decimal.Decimal{},
	}
	go pf.feedLoop()
	return pf, nil
}

// Subscribe registers a listener for one pair's ticks
func (pf *PriceFeed) Subscribe(pair string, l Listener) {
	pf.mux.Lock()
	defer pf.mux.Unlock()
	pf.listeners[pair] = append(pf.listeners[pair], l)
}

// Latest returns the last observed price for a pair, false if no tick has
// arrived yet
func (pf *PriceFeed) Latest(pair string) (decimal.Decimal, bool) {
	pf.mux.Lock()
	defer pf.mux.Unlock()
	price, ok := pf.latest[pair]
	return price, ok
}

func (pf *PriceFeed) Close() {
	pf.cancel()
	pf.ws.Close()
}

func (pf *PriceFeed) feedLoop() {
	l := log.L(pf.ctx)
	for {
		select {
		case <-pf.ctx.Done():
			return
		case msg, ok := <-pf.ws.Receive():
			if !ok {
				l.Warnf("Price feed connection permanently lost")
				return
			}
			var tick Tick
			if err := json.Unmarshal(msg, &tick); err != nil || tick.Pair == "" {
				l.Warn(i18n.Expand(pf.ctx, i18n.MsgInvalidPriceTick, msg))
				continue
			}
			if tick.Type != "" && tick.Type != "tick" {
				// subscription acks and other control frames
				continue
			}
			pf.dispatch(&tick)
		}
	}
}

func (pf *PriceFeed) dispatch(tick *Tick) {
	pf.mux.Lock()
	pf.latest[tick.Pair] = tick.Price
	listeners := make([]Listener, len(pf.listeners[tick.Pair]))
	copy(listeners, pf.listeners[tick.Pair])
	pf.mux.Unlock()
	for _, l := range listeners {
		l(pf.ctx, tick)
	}
}
