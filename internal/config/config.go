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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/spf13/viper"
)

// The following keys can be accessed from the root configuration.
// Plugins are responsible for defining their own keys using the ConfigPrefix interface
var (
	Lang                         RootKey = ark("lang")
	LogLevel                     RootKey = ark("log.level")
	LogColor                     RootKey = ark("log.color")
	MetricsEnabled               RootKey = ark("metrics.enabled")
	FeeCacheTTL                  RootKey = ark("feecache.ttl")
	FeeCacheSize                 RootKey = ark("feecache.size")
	ProcessorFreshZeroAmount     RootKey = ark("processor.freshZeroAmountUninitialized")
	ProcessorRefreshDebounceMS   RootKey = ark("processor.refreshDebounceMS")
	PendingTxCacheSize           RootKey = ark("pendingtx.cacheSize")
	CompletionTopic              RootKey = ark("notify.kafka.topic")
	CompletionBrokers            RootKey = ark("notify.kafka.brokers")
	CompletionWriteTimeout       RootKey = ark("notify.kafka.writeTimeout")
	PriceFeedReconnectAttempts   RootKey = ark("pricefeed.initialConnectAttempts")
	PriceFeedRetryInitDelayMS    RootKey = ark("pricefeed.retry.initialDelayMS")
	PriceFeedRetryMaxDelayMS     RootKey = ark("pricefeed.retry.maxDelayMS")
	GasConnectExtraGasContract   RootKey = ark("gasconnect.extraGasLimitContract")
	GasConnectRateCacheTTL       RootKey = ark("gasconnect.rateCacheTTL")
)

// ConfigPrefix represents the global configuration, at a nested point in
// the config hierarchy. This allows plugins to define their own keys
// scoped under their prefix.
//
// Note that all values are GLOBAL so this cannot be used for per-instance
// customization. Rather for global initialization of plugins.
type ConfigPrefix interface {
	AddKnownKey(key string, defValue ...interface{})
	SubPrefix(suffix string) ConfigPrefix
	Set(key string, value interface{})

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetUint(key string) uint
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	Get(key string) interface{}
}

// RootKey are the known configuration keys
type RootKey string

func Reset() {
	viper.Reset()

	// Set defaults
	viper.SetDefault(string(Lang), "en")
	viper.SetDefault(string(LogLevel), "info")
	viper.SetDefault(string(LogColor), true)
	viper.SetDefault(string(MetricsEnabled), false)
	viper.SetDefault(string(FeeCacheTTL), "30s")
	viper.SetDefault(string(FeeCacheSize), 100)
	viper.SetDefault(string(ProcessorFreshZeroAmount), true)
	viper.SetDefault(string(ProcessorRefreshDebounceMS), 50)
	viper.SetDefault(string(PendingTxCacheSize), 64)
	viper.SetDefault(string(CompletionTopic), "walletcore.completions")
	viper.SetDefault(string(CompletionWriteTimeout), "10s")
	viper.SetDefault(string(PriceFeedReconnectAttempts), 5)
	viper.SetDefault(string(PriceFeedRetryInitDelayMS), 100)
	viper.SetDefault(string(PriceFeedRetryMaxDelayMS), 1000)
	viper.SetDefault(string(GasConnectExtraGasContract), 40000)
	viper.SetDefault(string(GasConnectRateCacheTTL), "1m")

	i18n.SetLang(GetString(Lang))
}

// ReadConfig initializes the config
func ReadConfig(cfgFile string) error {
	Reset()

	// Set precedence order for reading config location
	viper.SetEnvPrefix("walletcore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		f, err := os.Open(cfgFile)
		if err == nil {
			defer f.Close()
			err = viper.ReadConfig(f)
		}
		if err != nil {
			return i18n.WrapError(context.Background(), err, i18n.MsgConfigFailed, cfgFile)
		}
		return nil
	}
	viper.SetConfigName("walletcore.core")
	viper.AddConfigPath("/etc/walletcore/")
	viper.AddConfigPath("$HOME/.walletcore")
	viper.AddConfigPath(".")
	return viper.ReadInConfig()
}

var root = &configPrefix{
	keys: map[string]bool{}, // All keys go here, including those defined in sub prefixes
}

// ark adds a root key, used to define the keys that are used within the core
func ark(k string) RootKey {
	root.AddKnownKey(k)
	return RootKey(k)
}

// configPrefix is the main config structure passed to plugins, and used for root to wrap viper
type configPrefix struct {
	prefix string
	keys   map[string]bool
}

// NewPluginConfig creates a new plugin configuration object, at the specified prefix
func NewPluginConfig(prefix string) ConfigPrefix {
	if !strings.HasSuffix(prefix, ".") {
		prefix = prefix + "."
	}
	return &configPrefix{
		prefix: prefix,
		keys:   root.keys,
	}
}

func (c *configPrefix) prefixKey(k string) string {
	key := c.prefix + k
	if !c.keys[key] {
		panic(fmt.Sprintf("Undefined configuration key '%s'", key))
	}
	return key
}

func (c *configPrefix) SubPrefix(suffix string) ConfigPrefix {
	return &configPrefix{
		prefix: c.prefix + suffix + ".",
		keys:   root.keys,
	}
}

func (c *configPrefix) AddKnownKey(k string, defValue ...interface{}) {
	key := c.prefix + k
	if len(defValue) == 1 {
		viper.SetDefault(key, defValue[0])
	} else if len(defValue) > 0 {
		viper.SetDefault(key, defValue)
	}
	c.keys[key] = true
}

// GetString gets a configuration string
func GetString(key RootKey) string {
	return root.GetString(string(key))
}
func (c *configPrefix) GetString(key string) string {
	return viper.GetString(c.prefixKey(key))
}

// GetStringSlice gets a configuration string array
func GetStringSlice(key RootKey) []string {
	return root.GetStringSlice(string(key))
}
func (c *configPrefix) GetStringSlice(key string) []string {
	return viper.GetStringSlice(c.prefixKey(key))
}

// GetStringMap gets a configuration map
func GetStringMap(key RootKey) map[string]interface{} {
	return root.GetStringMap(string(key))
}
func (c *configPrefix) GetStringMap(key string) map[string]interface{} {
	return viper.GetStringMap(c.prefixKey(key))
}

// GetBool gets a configuration bool
func GetBool(key RootKey) bool {
	return root.GetBool(string(key))
}
func (c *configPrefix) GetBool(key string) bool {
	return viper.GetBool(c.prefixKey(key))
}

// GetInt gets a configuration int
func GetInt(key RootKey) int {
	return root.GetInt(string(key))
}
func (c *configPrefix) GetInt(key string) int {
	return viper.GetInt(c.prefixKey(key))
}

// GetUint gets a configuration uint
func GetUint(key RootKey) uint {
	return root.GetUint(string(key))
}
func (c *configPrefix) GetUint(key string) uint {
	return viper.GetUint(c.prefixKey(key))
}

// GetDuration gets a configuration duration, parsed from strings like "30s"
func GetDuration(key RootKey) time.Duration {
	return root.GetDuration(string(key))
}
func (c *configPrefix) GetDuration(key string) time.Duration {
	return viper.GetDuration(c.prefixKey(key))
}

// Get gets a raw configuration value
func Get(key RootKey) interface{} {
	return root.Get(string(key))
}
func (c *configPrefix) Get(key string) interface{} {
	return viper.Get(c.prefixKey(key))
}

// Set allows runtime setting of config (used in tests)
func Set(key RootKey, value interface{}) {
	root.Set(string(key), value)
}
func (c *configPrefix) Set(key string, value interface{}) {
	viper.Set(c.prefix+key, value)
}

// UintWithDefault resolves an optional uint pointer against a default
func UintWithDefault(val *uint, def uint) uint {
	if val == nil {
		return def
	}
	return *val
}
