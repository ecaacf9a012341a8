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

package rates

import (
	"context"

	"github.com/kaleido-io/walletcore/pkg/wctypes"
	"github.com/shopspring/decimal"
)

// Plugin is the currency conversion contract, used to derive the fiat legs
// of confirmations
type Plugin interface {
	// Rate returns how many units of the fiat currency one whole unit of the
	// asset is worth
	Rate(ctx context.Context, from wctypes.CurrencyID, toFiat string) (decimal.Decimal, error)
}
