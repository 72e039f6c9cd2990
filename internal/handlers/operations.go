package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/async-worker/api/v1"
	"github.com/kubev2v/async-worker/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetOperations returns the journaled operations with filtering and pagination
// (GET /operations)
func (h *Handler) GetOperations(c *gin.Context, params v1.GetOperationsParams) {
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	svcParams := services.OperationListParams{
		Filter: params.ToFilter(),
		Limit:  uint64(pageSize),
		Offset: uint64((page - 1) * pageSize),
	}
	if params.Sort != nil {
		sorts, err := v1.ParseSort(*params.Sort)
		if err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
			return
		}
		svcParams.Sort = sorts
	}

	result, err := h.operations.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("operation_handler").Errorw("failed to list operations", "error", err)
		c.JSON(http.StatusInternalServerError, v1.ErrorResponse{Error: "failed to list operations"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	ops := make([]v1.Operation, 0, len(result.Operations))
	for _, op := range result.Operations {
		ops = append(ops, v1.NewOperationFromModel(op))
	}

	c.JSON(http.StatusOK, v1.OperationListResponse{
		Page:       page,
		PageCount:  pageCount,
		Total:      result.Total,
		Operations: ops,
	})
}

// ExportOperations returns the journaled operations as an xlsx workbook
// (GET /operations/export)
func (h *Handler) ExportOperations(c *gin.Context, params v1.ExportOperationsParams) {
	svcParams := services.OperationListParams{Filter: params.ToFilter()}
	if params.Sort != nil {
		sorts, err := v1.ParseSort(*params.Sort)
		if err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
			return
		}
		svcParams.Sort = sorts
	}

	data, err := h.operations.Export(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("operation_handler").Errorw("failed to export operations", "error", err)
		c.JSON(http.StatusInternalServerError, v1.ErrorResponse{Error: "failed to export operations"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="operations.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
