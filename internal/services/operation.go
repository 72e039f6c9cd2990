package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
)

const exportSheet = "operations"

type OperationService struct {
	store *store.Store
}

func NewOperationService(st *store.Store) *OperationService {
	return &OperationService{store: st}
}

type OperationListParams struct {
	Filter models.OperationFilter
	Sort   []store.SortParam
	Limit  uint64
	Offset uint64
}

type OperationListResult struct {
	Operations []models.Operation
	Total      int
}

func (s *OperationService) List(ctx context.Context, params OperationListParams) (*OperationListResult, error) {
	opts := s.buildListOptions(params)

	ops, err := s.store.Operation().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.Operation().Count(ctx, store.WithFilter(params.Filter))
	if err != nil {
		return nil, err
	}

	return &OperationListResult{
		Operations: ops,
		Total:      total,
	}, nil
}

func (s *OperationService) buildListOptions(params OperationListParams) []store.ListOption {
	opts := []store.ListOption{store.WithFilter(params.Filter)}

	if len(params.Sort) > 0 {
		opts = append(opts, store.WithSort(params.Sort))
	} else {
		opts = append(opts, store.WithDefaultSort())
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}

// Prune deletes the operations older than retention.
func (s *OperationService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.Operation().Prune(ctx, time.Now().Add(-retention))
}

// RunRetention prunes the operations older than retention every interval
// until ctx is done.
func (s *OperationService) RunRetention(ctx context.Context, interval, retention time.Duration) {
	log := zap.S().Named("retention")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Prune(ctx, retention)
			if err != nil {
				log.Warnw("failed to prune operations", "error", err)
				continue
			}
			if n > 0 {
				log.Debugw("operations pruned", "count", n, "retention", retention)
			}
		}
	}
}

// Export renders the matching operations as an xlsx workbook.
func (s *OperationService) Export(ctx context.Context, params OperationListParams) ([]byte, error) {
	result, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := []any{"ID", "Engine", "Kind", "Path", "Result", "Error", "Started At", "Duration (ms)"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, op := range result.Operations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			op.ID.String(),
			op.Engine,
			op.Kind,
			op.Path,
			op.Result,
			op.Error,
			op.StartedAt.UTC().Format(time.RFC3339Nano),
			float64(op.Duration.Microseconds()) / 1000,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
