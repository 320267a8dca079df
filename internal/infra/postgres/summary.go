package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"gengo-bot/internal/domain"
)

// SummaryReader answers aggregate immersion queries straight from SQL, kept
// separate from the bun write path.
type SummaryReader struct {
	pool *pgxpool.Pool
}

func NewSummaryReader(pool *pgxpool.Pool) *SummaryReader {
	return &SummaryReader{pool: pool}
}

// Totals aggregates one user's logged amounts and durations per media type.
func (r *SummaryReader) Totals(ctx context.Context, userID string) ([]domain.ImmersionTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT media_type, COALESCE(SUM(amount), 0), COALESCE(SUM(duration_ns), 0)
		FROM immersion_logs
		WHERE user_id = $1
		GROUP BY media_type
		ORDER BY media_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("query immersion totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.ImmersionTotal
	for rows.Next() {
		var (
			mediaType  string
			amount     int64
			durationNS int64
		)
		if err := rows.Scan(&mediaType, &amount, &durationNS); err != nil {
			return nil, fmt.Errorf("scan immersion total: %w", err)
		}
		totals = append(totals, domain.ImmersionTotal{
			MediaType: domain.MediaType(mediaType),
			Amount:    amount,
			Duration:  time.Duration(durationNS),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read immersion totals: %w", err)
	}
	return totals, nil
}
