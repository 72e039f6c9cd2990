package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kubev2v/async-worker/internal/models"
)

type OperationStore struct {
	db QueryInterceptor
}

func NewOperationStore(db QueryInterceptor) *OperationStore {
	return &OperationStore{db: db}
}

// Insert records op. A zero ID is replaced by a new random one.
func (s *OperationStore) Insert(ctx context.Context, op *models.Operation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, queryInsertOperation,
		op.ID.String(),
		op.Engine,
		op.Kind,
		op.Path,
		op.Result,
		op.Error,
		op.StartedAt.UTC(),
		op.Duration.Microseconds(),
	)
	return err
}

func (s *OperationStore) List(ctx context.Context, opts ...ListOption) ([]models.Operation, error) {
	builder := sq.Select(
		"id",
		"engine",
		"kind",
		"path",
		"result",
		"error",
		"started_at",
		"duration_us",
	).From("operations")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []models.Operation
	for rows.Next() {
		var (
			op       models.Operation
			id       string
			duration int64
		)
		err := rows.Scan(
			&id,
			&op.Engine,
			&op.Kind,
			&op.Path,
			&op.Result,
			&op.Error,
			&op.StartedAt,
			&duration,
		)
		if err != nil {
			return nil, err
		}
		if op.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		op.Duration = time.Duration(duration) * time.Microsecond
		ops = append(ops, op)
	}

	return ops, rows.Err()
}

func (s *OperationStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("operations")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// Prune deletes the operations started before t and returns how many went.
func (s *OperationStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, queryPruneOperations, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByEngine(engines ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(engines) == 0 {
			return b
		}
		return b.Where(sq.Eq{"engine": engines})
	}
}

func ByKind(kinds ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(kinds) == 0 {
			return b
		}
		return b.Where(sq.Eq{"kind": kinds})
	}
}

func ByFailed(failed bool) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if failed {
			return b.Where(sq.NotEq{"error": ""})
		}
		return b.Where(sq.Eq{"error": ""})
	}
}

func ByPathPrefix(prefix string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if prefix == "" {
			return b
		}
		return b.Where(sq.Like{"path": prefix + "%"})
	}
}

func StartedAfter(t time.Time) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.GtOrEq{"started_at": t.UTC()})
	}
}

// WithFilter applies every criterion set in f.
func WithFilter(f models.OperationFilter) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if f.Engine != "" {
			b = ByEngine(f.Engine)(b)
		}
		b = ByKind(f.Kinds...)(b)
		if f.Failed != nil {
			b = ByFailed(*f.Failed)(b)
		}
		if f.Since != nil {
			b = StartedAfter(*f.Since)(b)
		}
		return b
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

type SortParam struct {
	Field string
	Desc  bool
}

var apiFieldToDBColumn = map[string]string{
	"engine":    "engine",
	"kind":      "kind",
	"path":      "path",
	"startedAt": "started_at",
	"duration":  "duration_us",
}

// WithDefaultSort lists the most recent operations first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("started_at DESC", "id")
	}
}

func WithSort(sorts []SortParam) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		var orderClauses []string
		for _, s := range sorts {
			col, ok := apiFieldToDBColumn[s.Field]
			if !ok {
				continue
			}
			if s.Desc {
				orderClauses = append(orderClauses, col+" DESC")
			} else {
				orderClauses = append(orderClauses, col+" ASC")
			}
		}
		orderClauses = append(orderClauses, "id")
		return b.OrderBy(orderClauses...)
	}
}
