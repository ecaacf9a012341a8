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

package wctypes

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"math/big"

	"github.com/kaleido-io/walletcore/internal/i18n"
)

// BigInt is a wrapper on a Go big.Int that standardizes JSON and DB serialization.
// All on-ledger amounts are integer counts of the smallest unit of the asset.
type BigInt big.Int

func NewBigInt(x int64) *BigInt {
	return (*BigInt)(big.NewInt(x))
}

func ParseBigInt(ctx context.Context, s string) (*BigInt, error) {
	i := new(BigInt)
	if _, ok := i.Int().SetString(s, 0); !ok {
		return nil, i18n.NewError(ctx, i18n.MsgBigIntParseFailed, s)
	}
	return i, nil
}

func (i *BigInt) Int() *big.Int {
	return (*big.Int)(i)
}

func (i *BigInt) String() string {
	if i == nil {
		return "0"
	}
	return i.Int().Text(10)
}

func (i *BigInt) Sign() int {
	if i == nil {
		return 0
	}
	return i.Int().Sign()
}

func (i *BigInt) Cmp(i2 *BigInt) int {
	switch {
	case i == nil && i2 == nil:
		return 0
	case i == nil:
		return new(big.Int).Neg(i2.Int()).Sign()
	case i2 == nil:
		return i.Int().Sign()
	default:
		return i.Int().Cmp(i2.Int())
	}
}

// Add returns a new value, leaving both inputs unmodified
func (i *BigInt) Add(i2 *BigInt) *BigInt {
	sum := new(big.Int)
	if i != nil {
		sum.Set(i.Int())
	}
	if i2 != nil {
		sum.Add(sum, i2.Int())
	}
	return (*BigInt)(sum)
}

// Sub returns a new value, leaving both inputs unmodified
func (i *BigInt) Sub(i2 *BigInt) *BigInt {
	diff := new(big.Int)
	if i != nil {
		diff.Set(i.Int())
	}
	if i2 != nil {
		diff.Sub(diff, i2.Int())
	}
	return (*BigInt)(diff)
}

func (i BigInt) MarshalText() ([]byte, error) {
	// Represent as base 10 string in marshalled JSON
	return []byte((*big.Int)(&i).Text(10)), nil
}

func (i *BigInt) UnmarshalJSON(b []byte) error {
	var val interface{}
	if err := json.Unmarshal(b, &val); err != nil {
		return i18n.WrapError(context.Background(), err, i18n.MsgBigIntParseFailed, b)
	}
	switch val := val.(type) {
	case string:
		if _, ok := i.Int().SetString(val, 0); !ok {
			return i18n.NewError(context.Background(), i18n.MsgBigIntParseFailed, b)
		}
		return nil
	case float64:
		i.Int().SetInt64(int64(val))
		return nil
	default:
		return i18n.NewError(context.Background(), i18n.MsgBigIntParseFailed, b)
	}
}

func (i BigInt) Value() (driver.Value, error) {
	return i.String(), nil
}
