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

// FeeLevel is the closed set of pricing tiers a transaction can be submitted at
type FeeLevel = WCEnum

var (
	// FeeLevelNone is used by flows that carry no network fee at all
	FeeLevelNone = wcEnum("feelevel", "none")
	// FeeLevelRegular targets inclusion within normal confirmation time
	FeeLevelRegular = wcEnum("feelevel", "regular")
	// FeeLevelPriority pays a premium for faster inclusion
	FeeLevelPriority = wcEnum("feelevel", "priority")
	// FeeLevelCustom uses a caller-supplied fee amount
	FeeLevelCustom = wcEnum("feelevel", "custom")
)

// IsFeeLess returns true for the level that carries no fee
func IsFeeLess(level FeeLevel) bool {
	return level.Equals(FeeLevelNone)
}

// FeeSelection describes the available pricing tiers and the active choice
type FeeSelection struct {
	SelectedLevel   FeeLevel   `json:"selectedLevel"`
	AvailableLevels []FeeLevel `json:"availableLevels"`
	Asset           CurrencyID `json:"asset"`
	CustomAmount    *Money     `json:"customAmount,omitempty"`
}

// Contains reports whether the level is one of the available levels
func (fs *FeeSelection) Contains(level FeeLevel) bool {
	for _, l := range fs.AvailableLevels {
		if l.Equals(level) {
			return true
		}
	}
	return false
}

// AdjustmentSupported is true when the caller can meaningfully choose
// between levels - more than one level beyond the fee-less one
func (fs *FeeSelection) AdjustmentSupported() bool {
	count := 0
	for _, l := range fs.AvailableLevels {
		if !IsFeeLess(l) {
			count++
		}
	}
	return count > 1
}
