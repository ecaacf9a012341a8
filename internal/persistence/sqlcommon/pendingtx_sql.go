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

package sqlcommon

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/kaleido-io/walletcore/internal/log"
	"github.com/kaleido-io/walletcore/pkg/pendingtx"
	"github.com/kaleido-io/walletcore/pkg/wctypes"
)

var (
	pendingTxColumns = []string{
		"id",
		"network",
		"tx_hash",
		"created",
		"confirmed",
	}
)

// IsWaitingOnTransaction implements pendingtx.Plugin. Errors surface to the
// caller, who treats them as "pending" (fail closed).
func (s *SQLCommon) IsWaitingOnTransaction(ctx context.Context, network wctypes.Network) (bool, error) {
	rows, err := s.query(ctx,
		sq.Select("COUNT(*)").
			From("pendingtx").
			Where(sq.Eq{
				"network":   network,
				"confirmed": false,
			}),
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	count := 0
	if rows.Next() {
		if err = rows.Scan(&count); err != nil {
			return false, err
		}
	}
	return count > 0, nil
}

// RecordSubmitted implements pendingtx.Plugin
func (s *SQLCommon) RecordSubmitted(ctx context.Context, record *pendingtx.Record) error {
	err := s.insert(ctx,
		sq.Insert("pendingtx").
			Columns(pendingTxColumns...).
			Values(
				record.ID,
				record.Network,
				record.TxHash,
				record.Created,
				false,
			),
	)
	if err != nil {
		return err
	}
	s.readCache.Add(record.TxHash, record)
	log.L(ctx).Debugf("Recorded pending transaction %s on %s", record.TxHash, record.Network)
	return nil
}

// MarkConfirmed implements pendingtx.Plugin
func (s *SQLCommon) MarkConfirmed(ctx context.Context, txHash string) error {
	_, err := s.update(ctx,
		sq.Update("pendingtx").
			Set("confirmed", true).
			Where(sq.Eq{"tx_hash": txHash}),
	)
	if err != nil {
		return err
	}
	s.readCache.Remove(txHash)
	return nil
}

// GetByTxHash reads one tracked transaction, serving repeat lookups of the
// same hash from the read cache
func (s *SQLCommon) GetByTxHash(ctx context.Context, txHash string) (*pendingtx.Record, error) {
	if cached, ok := s.readCache.Get(txHash); ok {
		return cached.(*pendingtx.Record), nil
	}

	rows, err := s.query(ctx,
		sq.Select(pendingTxColumns...).
			From("pendingtx").
			Where(sq.Eq{"tx_hash": txHash}),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		log.L(ctx).Debugf("Pending transaction '%s' not found", txHash)
		return nil, nil
	}
	record := pendingtx.Record{}
	if err = rows.Scan(&record.ID, &record.Network, &record.TxHash, &record.Created, &record.Confirmed); err != nil {
		return nil, err
	}
	s.readCache.Add(txHash, &record)
	return &record, nil
}
