package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"gengo-bot/internal/domain"
)

// ImmersionStore persists immersion logs via bun.
type ImmersionStore struct {
	db *bun.DB
}

func NewImmersionStore(db *bun.DB) *ImmersionStore {
	return &ImmersionStore{db: db}
}

func (s *ImmersionStore) Insert(ctx context.Context, log *domain.ImmersionLog) error {
	row := immersionLogFromDomain(*log)
	row.ID = 0
	_, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert immersion log: %w", err)
	}
	log.ID = row.ID
	return nil
}

// ListByUser returns the user's logs, newest first. limit <= 0 means all.
func (s *ImmersionStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ImmersionLog, error) {
	var rows []immersionLogRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select immersion logs: %w", err)
	}
	logs := make([]domain.ImmersionLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.toDomain())
	}
	return logs, nil
}

func (s *ImmersionStore) Latest(ctx context.Context, userID string) (domain.ImmersionLog, error) {
	row := immersionLogRow{}
	err := s.db.NewSelect().
		Model(&row).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ImmersionLog{}, domain.ErrNoLogs
	}
	if err != nil {
		return domain.ImmersionLog{}, fmt.Errorf("select latest immersion log: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ImmersionStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*immersionLogRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete immersion log: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNoLogs
	}
	return nil
}
