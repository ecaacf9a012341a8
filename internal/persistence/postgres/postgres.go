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

// Package postgres binds the shared SQL persistence layer to PostgreSQL
package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/persistence/sqlcommon"
	_ "github.com/lib/pq"
)

const (
	// PSQLConfigURL is the PostgreSQL connection string
	PSQLConfigURL = "url"
	// PSQLConfigMaxConns caps the connection pool size
	PSQLConfigMaxConns = "maxConns"
)

func InitPrefix(prefix config.ConfigPrefix) {
	prefix.AddKnownKey(PSQLConfigURL)
	prefix.AddKnownKey(PSQLConfigMaxConns, 4)
}

// Open connects to PostgreSQL and returns the shared SQL layer over it
func Open(ctx context.Context, prefix config.ConfigPrefix) (*sqlcommon.SQLCommon, error) {
	db, err := sql.Open("postgres", prefix.GetString(PSQLConfigURL))
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBConnectFailed)
	}
	db.SetMaxOpenConns(prefix.GetInt(PSQLConfigMaxConns))
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBConnectFailed)
	}
	return sqlcommon.NewSQLCommon(ctx, db, sqlcommon.SQLFeatures{
		PlaceholderFormat: sq.Dollar,
	})
}
