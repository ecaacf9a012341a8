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

// Package sqlcommon is the shared SQL persistence layer. Database specifics
// (driver, placeholder format) are injected by a provider, so the query
// logic is written once.
package sqlcommon

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	lru "github.com/hashicorp/golang-lru"
	"github.com/kaleido-io/walletcore/internal/config"
	"github.com/kaleido-io/walletcore/internal/i18n"
	"github.com/kaleido-io/walletcore/internal/log"
)

type SQLFeatures struct {
	PlaceholderFormat sq.PlaceholderFormat
}

func DefaultSQLFeatures() SQLFeatures {
	return SQLFeatures{
		PlaceholderFormat: sq.Dollar,
	}
}

// SQLCommon wraps one database connection with query helpers and a small
// read cache for hot single-row lookups
type SQLCommon struct {
	db        *sql.DB
	features  SQLFeatures
	readCache *lru.Cache
}

func NewSQLCommon(ctx context.Context, db *sql.DB, features SQLFeatures) (*SQLCommon, error) {
	if db == nil {
		return nil, i18n.NewError(ctx, i18n.MsgDBConnectFailed)
	}
	readCache, err := lru.New(config.GetInt(config.PendingTxCacheSize))
	if err != nil {
		return nil, err
	}
	return &SQLCommon{
		db:        db,
		features:  features,
		readCache: readCache,
	}, nil
}

func (s *SQLCommon) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *SQLCommon) query(ctx context.Context, q sq.SelectBuilder) (*sql.Rows, error) {
	sqlQuery, args, err := q.PlaceholderFormat(s.features.PlaceholderFormat).ToSql()
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	l := log.L(ctx)
	l.Debugf(`SQL-> query: %s`, sqlQuery)
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		l.Errorf(`SQL query failed: %s sql=[ %s ]`, err, sqlQuery)
		return nil, i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	l.Debugf(`SQL<- query`)
	return rows, nil
}

func (s *SQLCommon) insert(ctx context.Context, q sq.InsertBuilder) error {
	sqlQuery, args, err := q.PlaceholderFormat(s.features.PlaceholderFormat).ToSql()
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	l := log.L(ctx)
	l.Debugf(`SQL-> insert: %s`, sqlQuery)
	res, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		l.Errorf(`SQL insert failed: %s sql=[ %s ]`, err, sqlQuery)
		return i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	ra, _ := res.RowsAffected()
	l.Debugf(`SQL<- insert affected=%d`, ra)
	return nil
}

func (s *SQLCommon) update(ctx context.Context, q sq.UpdateBuilder) (int64, error) {
	sqlQuery, args, err := q.PlaceholderFormat(s.features.PlaceholderFormat).ToSql()
	if err != nil {
		return 0, i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	l := log.L(ctx)
	l.Debugf(`SQL-> update: %s`, sqlQuery)
	res, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		l.Errorf(`SQL update failed: %s sql=[ %s ]`, err, sqlQuery)
		return 0, i18n.WrapError(ctx, err, i18n.MsgDBQueryFailed)
	}
	ra, _ := res.RowsAffected()
	l.Debugf(`SQL<- update affected=%d`, ra)
	return ra, nil
}
