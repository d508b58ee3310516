package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/app/models"
	"github.com/yigit/persondata/internal/pkg/dberrors"
	"github.com/yigit/persondata/internal/pkg/logger"
)

// queueKeyColumn is the unique key column of each work-item table.
var queueKeyColumn = map[models.QueueName]string{
	models.PersonQueue:          "uwnetid",
	models.EnrolledStudentQueue: "system_key",
}

// QueueRepository writes sync work items
type QueueRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQueueRepository creates a new QueueRepository
func NewQueueRepository(db *pgxpool.Pool) *QueueRepository {
	return &QueueRepository{
		db: db,
		sb: newBuilder(),
	}
}

// Enqueue inserts key unless it is already queued. Concurrent callers race
// on the unique index; exactly one of them sees inserted=true.
func (r *QueueRepository) Enqueue(ctx context.Context, queue models.QueueName, key string) (bool, error) {
	column, ok := queueKeyColumn[queue]
	if !ok {
		return false, fmt.Errorf("unknown queue %q", queue)
	}

	sql, args, err := r.sb.Insert(string(queue)).
		Columns(column).
		Values(key).
		Suffix("ON CONFLICT (" + column + ") DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("queue", string(queue)).Msg("Error building enqueue SQL")
		return false, fmt.Errorf("failed to build enqueue query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("queue", string(queue)).Str("key", key).Msg("Error executing enqueue")
		return false, fmt.Errorf("error enqueuing into %s: %w", queue, err)
	}
	return tag.RowsAffected() == 1, nil
}

// PendingCounts returns the number of rows waiting in each queue.
func (r *QueueRepository) PendingCounts(ctx context.Context) (map[models.QueueName]int64, error) {
	counts := make(map[models.QueueName]int64, len(queueKeyColumn))
	for queue := range queueKeyColumn {
		sql, args, err := r.sb.Select("COUNT(*)").From(string(queue)).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build count query: %w", err)
		}
		var n int64
		if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
			if dberrors.IsUndefinedTable(err) {
				logger.Warn().Str("queue", string(queue)).Msg("Queue table missing, database not migrated")
			}
			logger.Error().Err(err).Str("queue", string(queue)).Msg("Error counting queue")
			return nil, fmt.Errorf("error counting %s: %w", queue, err)
		}
		counts[queue] = n
	}
	return counts, nil
}
