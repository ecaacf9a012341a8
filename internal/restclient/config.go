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

package restclient

import "github.com/kaleido-io/walletcore/internal/config"

const (
	defaultRequestTimeout = "30s"
	defaultRetryEnabled   = false
	defaultRetryCount     = 5
	defaultRetryInitDelay = "250ms"
	defaultRetryMaxDelay  = "30s"
)

const (
	HTTPConfigURL            = "url"
	HTTPConfigProxyURL       = "proxy.url"
	HTTPConfigHeaders        = "headers"
	HTTPConfigAuthUsername   = "auth.username"
	HTTPConfigAuthPassword   = "auth.password"
	HTTPConfigRequestTimeout = "requestTimeout"
	HTTPConfigRetryEnabled   = "retry.enabled"
	HTTPConfigRetryCount     = "retry.count"
	HTTPConfigRetryInitDelay = "retry.initWaitTime"
	HTTPConfigRetryMaxDelay  = "retry.maxWaitTime"

	// Unit test only
	HTTPCustomClient = "customClient"
)

func InitPrefix(prefix config.ConfigPrefix) {
	prefix.AddKnownKey(HTTPConfigURL)
	prefix.AddKnownKey(HTTPConfigProxyURL)
	prefix.AddKnownKey(HTTPConfigHeaders)
	prefix.AddKnownKey(HTTPConfigAuthUsername)
	prefix.AddKnownKey(HTTPConfigAuthPassword)
	prefix.AddKnownKey(HTTPConfigRequestTimeout, defaultRequestTimeout)
	prefix.AddKnownKey(HTTPConfigRetryEnabled, defaultRetryEnabled)
	prefix.AddKnownKey(HTTPConfigRetryCount, defaultRetryCount)
	prefix.AddKnownKey(HTTPConfigRetryInitDelay, defaultRetryInitDelay)
	prefix.AddKnownKey(HTTPConfigRetryMaxDelay, defaultRetryMaxDelay)
	prefix.AddKnownKey(HTTPCustomClient)
}
