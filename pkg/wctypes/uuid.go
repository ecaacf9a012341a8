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

	"github.com/google/uuid"
	"github.com/kaleido-io/walletcore/internal/i18n"
)

// UUID is a wrapper on a UUID implementation, ensuring consistent
// text and database serialization throughout the codebase
type UUID uuid.UUID

func NewUUID() *UUID {
	u := UUID(uuid.New())
	return &u
}

func ParseUUID(ctx context.Context, uuidStr string) (*UUID, error) {
	u, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgInvalidUUID, uuidStr)
	}
	pu := UUID(u)
	return &pu, nil
}

func MustParseUUID(uuidStr string) *UUID {
	u := UUID(uuid.MustParse(uuidStr))
	return &u
}

func (u *UUID) String() string {
	if u == nil {
		return ""
	}
	return (uuid.UUID)(*u).String()
}

func (u *UUID) MarshalText() ([]byte, error) {
	if u == nil {
		return []byte{}, nil
	}
	return (uuid.UUID)(*u).MarshalText()
}

func (u *UUID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(u).UnmarshalText(b)
}

func (u *UUID) Equals(u2 *UUID) bool {
	switch {
	case u == nil && u2 == nil:
		return true
	case u == nil || u2 == nil:
		return false
	default:
		return *u == *u2
	}
}

func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		if src == "" {
			return nil
		}
		return u.UnmarshalText([]byte(src))
	case []byte:
		if len(src) == 0 {
			return nil
		}
		return u.UnmarshalText(src)
	default:
		return i18n.NewError(context.Background(), i18n.MsgScanFailed, src, u)
	}
}
