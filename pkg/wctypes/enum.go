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
	"database/sql/driver"
	"strings"
)

// WCEnum is a closed set of string values, with a registry per enum type
type WCEnum string

var enumValues = map[string][]interface{}{}

func wcEnum(t string, val string) WCEnum {
	enumValues[t] = append(enumValues[t], val)
	return WCEnum(val)
}

// WCEnumValues returns the allowed values for a given enum type
func WCEnumValues(t string) []interface{} {
	return enumValues[t]
}

func (ts WCEnum) String() string {
	return strings.ToLower(string(ts))
}

func (ts WCEnum) Equals(ts2 WCEnum) bool {
	return strings.EqualFold(string(ts), string(ts2))
}

func (ts WCEnum) Value() (driver.Value, error) {
	return ts.String(), nil
}

func (ts *WCEnum) UnmarshalText(b []byte) error {
	*ts = WCEnum(strings.ToLower(string(b)))
	return nil
}
