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

// Package gasconnect is the REST gateway client for EVM-family networks. One
// client serves three plugin contracts: the fee oracle, the transaction
// builder/dispatcher, and the conversion rate source.
package gasconnect

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/internal/restclient"
	"github.com/kaleido-io/walletcore/pkg/chain"
	"github.com/kaleido-io/walletcore/pkg/feemarket"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// GasConnect implements feemarket.Plugin, chain.Plugin and rates.Plugin
// against a gasconnect gateway
type GasConnect struct {
	ctx       context.Context
	client    *resty.Client
	rateCache *gocache.Cache
}

type feeTierJSON struct {
	GasPrice string `json:"gasPrice"`
	GasLimit int64  `json:"gasLimit"`
}

type feesJSON struct {
	Regular  *feeTierJSON `json:"regular,omitempty"`
	Priority *feeTierJSON `json:"priority,omitempty"`
}

type nonceJSON struct {
	Nonce uint64 `json:"nonce"`
}

type buildJSON struct {
	Raw string `json:"raw"`
}

type sendJSON struct {
	TxHash string `json:"txHash"`
}

type rateJSON struct {
	Rate decimal.Decimal `json:"rate"`
}

func InitPrefix(prefix config.ConfigPrefix) {
	restclient.InitPrefix(prefix)
}

func New(ctx context.Context, prefix config.ConfigPrefix) *GasConnect {
	ttl := config.GetDuration(config.GasConnectRateCacheTTL)
	return &GasConnect{
		ctx:       ctx,
		client:    restclient.New(ctx, prefix),
		rateCache: gocache.New(ttl, ttl),
	}
}

// Fees implements feemarket.Plugin - one round trip returns every tier
func (gc *GasConnect) Fees(ctx context.Context, network wctypes.Network) (*feemarket.FeeSchedule, error) {
	var fees feesJSON
	res, err := gc.client.R().
		SetContext(ctx).
		SetResult(&fees).
		Get(fmt.Sprintf("/gasstation/%s", network))
	if err != nil || !res.IsSuccess() {
		return nil, gatewayErr(ctx, res, err)
	}

	schedule := &feemarket.FeeSchedule{Network: network, Quotes: map[wctypes.FeeLevel]*feemarket.FeeQuote{}}
	for level, tier := range map[wctypes.FeeLevel]*feeTierJSON{
		wctypes.FeeLevelRegular:  fees.Regular,
		wctypes.FeeLevelPriority: fees.Priority,
	} {
		if tier == nil {
			continue
		}
		gasPrice, err := wctypes.ParseBigInt(ctx, tier.GasPrice)
		if err != nil {
			return nil, err
		}
		schedule.Quotes[level] = &feemarket.FeeQuote{Level: level, GasPrice: gasPrice, GasLimit: tier.GasLimit}
	}
	return schedule, nil
}

// NextNonce implements chain.Plugin
func (gc *GasConnect) NextNonce(ctx context.Context, network wctypes.Network, address string) (uint64, error) {
	var nonce nonceJSON
	res, err := gc.client.R().
		SetContext(ctx).
		SetResult(&nonce).
		Get(fmt.Sprintf("/networks/%s/accounts/%s/nonce", network, address))
	if err != nil || !res.IsSuccess() {
		return 0, gatewayErr(ctx, res, err)
	}
	return nonce.Nonce, nil
}

// Build implements chain.Plugin - the gateway assembles and signs
func (gc *GasConnect) Build(ctx context.Context, req *chain.BuildRequest) (chain.RawTransaction, error) {
	var build buildJSON
	res, err := gc.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&build).
		Post(fmt.Sprintf("/networks/%s/transactions/build", req.Network))
	if err != nil || !res.IsSuccess() {
		return nil, gatewayErr(ctx, res, err)
	}
	raw, err := hex.DecodeString(build.Raw)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgGatewayInvalidResponse, res.StatusCode())
	}
	return raw, nil
}

// Send implements chain.Plugin
func (gc *GasConnect) Send(ctx context.Context, network wctypes.Network, raw chain.RawTransaction) (*chain.Receipt, error) {
	var send sendJSON
	res, err := gc.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"raw": hex.EncodeToString(raw)}).
		SetResult(&send).
		Post(fmt.Sprintf("/networks/%s/transactions", network))
	if err != nil || !res.IsSuccess() {
		return nil, gatewayErr(ctx, res, err)
	}
	if send.TxHash == "" {
		return nil, i18n.NewError(ctx, i18n.MsgGatewayInvalidResponse, res.StatusCode())
	}
	log.L(ctx).Infof("Dispatched transaction %s to %s", send.TxHash, network)
	return &chain.Receipt{TxHash: send.TxHash}, nil
}

// Rate implements rates.Plugin, with a short-lived read-through cache so the
// confirmations of one editing session do not hammer the gateway
func (gc *GasConnect) Rate(ctx context.Context, from wctypes.CurrencyID, toFiat string) (decimal.Decimal, error) {
	cacheKey := string(from) + "/" + toFiat
	if cached, ok := gc.rateCache.Get(cacheKey); ok {
		return cached.(decimal.Decimal), nil
	}

	var rate rateJSON
	res, err := gc.client.R().
		SetContext(ctx).
		SetQueryParam("from", string(from)).
		SetQueryParam("to", toFiat).
		SetResult(&rate).
		Get("/rates")
	if err != nil || !res.IsSuccess() {
		return decimal.Zero, gatewayErr(ctx, res, err)
	}

	gc.rateCache.SetDefault(cacheKey, rate.Rate)
	return rate.Rate, nil
}

func gatewayErr(ctx context.Context, res *resty.Response, err error) error {
	if err != nil {
		return restclient.WrapRestErr(ctx, res, err, i18n.MsgGatewayError)
	}
	return i18n.NewError(ctx, i18n.MsgGatewayInvalidResponse, res.StatusCode())
}
