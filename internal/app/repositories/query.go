package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/persondata/internal/pkg/logger"
)

// ErrUnsupportedLookup is returned for a lookup kind the gateway cannot express.
var ErrUnsupportedLookup = errors.New("unsupported lookup kind")

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// selectRows runs q and scans every row into T by column name. The select
// list must be exactly models.Columns[T] (optionally table-qualified). The
// result is never nil.
func selectRows[T any](ctx context.Context, db *pgxpool.Pool, q squirrel.SelectBuilder, what string) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error building select SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error executing select query")
		return nil, fmt.Errorf("error querying %s: %w", what, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error scanning rows")
		return nil, fmt.Errorf("error scanning %s: %w", what, err)
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

// selectOne is selectRows for at most one row; no row is (nil, nil).
func selectOne[T any](ctx context.Context, db *pgxpool.Pool, q squirrel.SelectBuilder, what string) (*T, error) {
	items, err := selectRows[T](ctx, db, q.Limit(1), what)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// byID indexes rows by their id.
func byID[T any](items []*T, id func(*T) int64) map[int64]*T {
	out := make(map[int64]*T, len(items))
	for _, item := range items {
		out[id(item)] = item
	}
	return out
}
