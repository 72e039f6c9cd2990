package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List engines
	// (GET /engines)
	GetEngines(c *gin.Context)
	// Get one engine
	// (GET /engines/{name})
	GetEngine(c *gin.Context, name string)
	// List journaled operations
	// (GET /operations)
	GetOperations(c *gin.Context, params GetOperationsParams)
	// Export journaled operations as xlsx
	// (GET /operations/export)
	ExportOperations(c *gin.Context, params ExportOperationsParams)
	// Stat a path
	// (GET /fs/stat)
	GetFsStat(c *gin.Context, params FsPathParams)
	// List a directory
	// (GET /fs/list)
	ListFsDirectory(c *gin.Context, params FsPathParams)
	// Read a file
	// (GET /fs/file)
	ReadFsFile(c *gin.Context, params FsPathParams)
	// Write a file
	// (PUT /fs/file)
	WriteFsFile(c *gin.Context, params FsPathParams)
	// Delete a file or an empty directory
	// (DELETE /fs/file)
	DeleteFsFile(c *gin.Context, params FsPathParams)
	// Create a directory
	// (POST /fs/dir)
	CreateFsDirectory(c *gin.Context)
	// Rename a path
	// (POST /fs/rename)
	RenameFsFile(c *gin.Context)
	// Size of the mounted filesystem
	// (GET /fs/space)
	GetFsSpace(c *gin.Context)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

func (siw *ServerInterfaceWrapper) runMiddlewares(c *gin.Context) bool {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return false
		}
	}
	return true
}

// GetEngines operation middleware
func (siw *ServerInterfaceWrapper) GetEngines(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetEngines(c)
}

// GetEngine operation middleware
func (siw *ServerInterfaceWrapper) GetEngine(c *gin.Context) {
	var name string

	err := runtime.BindStyledParameterWithOptions("simple", "name", c.Param("name"), &name, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter name: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetEngine(c, name)
}

// GetOperations operation middleware
func (siw *ServerInterfaceWrapper) GetOperations(c *gin.Context) {
	var params GetOperationsParams
	query := c.Request.URL.Query()

	for _, b := range []struct {
		name string
		dest any
	}{
		{"engine", &params.Engine},
		{"kind", &params.Kind},
		{"failed", &params.Failed},
		{"since", &params.Since},
		{"sort", &params.Sort},
		{"page", &params.Page},
		{"pageSize", &params.PageSize},
	} {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter %s: %w", b.name, err), http.StatusBadRequest)
			return
		}
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetOperations(c, params)
}

// ExportOperations operation middleware
func (siw *ServerInterfaceWrapper) ExportOperations(c *gin.Context) {
	var params ExportOperationsParams
	query := c.Request.URL.Query()

	for _, b := range []struct {
		name string
		dest any
	}{
		{"engine", &params.Engine},
		{"kind", &params.Kind},
		{"failed", &params.Failed},
		{"since", &params.Since},
		{"sort", &params.Sort},
	} {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter %s: %w", b.name, err), http.StatusBadRequest)
			return
		}
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.ExportOperations(c, params)
}

func (siw *ServerInterfaceWrapper) bindPath(c *gin.Context) (FsPathParams, bool) {
	var params FsPathParams
	if err := runtime.BindQueryParameter("form", true, true, "path", c.Request.URL.Query(), &params.Path); err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter path: %w", err), http.StatusBadRequest)
		return params, false
	}
	return params, siw.runMiddlewares(c)
}

// GetFsStat operation middleware
func (siw *ServerInterfaceWrapper) GetFsStat(c *gin.Context) {
	if params, ok := siw.bindPath(c); ok {
		siw.Handler.GetFsStat(c, params)
	}
}

// ListFsDirectory operation middleware
func (siw *ServerInterfaceWrapper) ListFsDirectory(c *gin.Context) {
	if params, ok := siw.bindPath(c); ok {
		siw.Handler.ListFsDirectory(c, params)
	}
}

// ReadFsFile operation middleware
func (siw *ServerInterfaceWrapper) ReadFsFile(c *gin.Context) {
	if params, ok := siw.bindPath(c); ok {
		siw.Handler.ReadFsFile(c, params)
	}
}

// WriteFsFile operation middleware
func (siw *ServerInterfaceWrapper) WriteFsFile(c *gin.Context) {
	if params, ok := siw.bindPath(c); ok {
		siw.Handler.WriteFsFile(c, params)
	}
}

// DeleteFsFile operation middleware
func (siw *ServerInterfaceWrapper) DeleteFsFile(c *gin.Context) {
	if params, ok := siw.bindPath(c); ok {
		siw.Handler.DeleteFsFile(c, params)
	}
}

// CreateFsDirectory operation middleware
func (siw *ServerInterfaceWrapper) CreateFsDirectory(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.CreateFsDirectory(c)
}

// RenameFsFile operation middleware
func (siw *ServerInterfaceWrapper) RenameFsFile(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.RenameFsFile(c)
}

// GetFsSpace operation middleware
func (siw *ServerInterfaceWrapper) GetFsSpace(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetFsSpace(c)
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching the API.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, ErrorResponse{Error: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/engines", wrapper.GetEngines)
	router.GET(options.BaseURL+"/engines/:name", wrapper.GetEngine)
	router.GET(options.BaseURL+"/operations", wrapper.GetOperations)
	router.GET(options.BaseURL+"/operations/export", wrapper.ExportOperations)
	router.GET(options.BaseURL+"/fs/stat", wrapper.GetFsStat)
	router.GET(options.BaseURL+"/fs/list", wrapper.ListFsDirectory)
	router.GET(options.BaseURL+"/fs/file", wrapper.ReadFsFile)
	router.PUT(options.BaseURL+"/fs/file", wrapper.WriteFsFile)
	router.DELETE(options.BaseURL+"/fs/file", wrapper.DeleteFsFile)
	router.POST(options.BaseURL+"/fs/dir", wrapper.CreateFsDirectory)
	router.POST(options.BaseURL+"/fs/rename", wrapper.RenameFsFile)
	router.GET(options.BaseURL+"/fs/space", wrapper.GetFsSpace)
}
