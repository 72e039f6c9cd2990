package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/async-worker/api/v1"
	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/services"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

type Handler struct {
	engines    *services.EngineRegistry
	operations *services.OperationService
	fsSrv      *fs.Service
}

var _ v1.ServerInterface = (*Handler)(nil)

func New(engines *services.EngineRegistry, operations *services.OperationService, fsSrv *fs.Service) *Handler {
	return &Handler{
		engines:    engines,
		operations: operations,
		fsSrv:      fsSrv,
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ioErr *srvErrors.IOError
	switch {
	case srvErrors.IsParamsTooLargeError(err), srvErrors.IsInvalidParamsError(err):
		return http.StatusBadRequest
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsPoolExhaustedError(err):
		return http.StatusTooManyRequests
	case srvErrors.IsEngineClosedError(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &ioErr):
		switch ioErr.Code {
		case fs.CodeNotFound:
			return http.StatusNotFound
		case fs.CodePermission:
			return http.StatusForbidden
		case fs.CodeExist:
			return http.StatusConflict
		case fs.CodeNotDir, fs.CodeIsDir, fs.CodeInvalid:
			return http.StatusBadRequest
		case fs.CodeTooMany:
			return http.StatusTooManyRequests
		}
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, logger string, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.S().Named(logger).Errorw(msg, "path", c.Request.URL.Path, "error", err)
		c.JSON(status, v1.ErrorResponse{Error: msg})
		return
	}
	zap.S().Named(logger).Debugw(msg, "path", c.Request.URL.Path, "status", status, "error", err)
	if status == http.StatusTooManyRequests {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, v1.ErrorResponse{Error: err.Error()})
}
