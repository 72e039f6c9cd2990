package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/async-worker/api/v1"
	"github.com/kubev2v/async-worker/internal/fs"
)

const maxUploadSize = 32 << 20

const fsLogger = "fs_handler"

// GetFsStat returns the attributes of a path
// (GET /fs/stat)
func (h *Handler) GetFsStat(c *gin.Context, params v1.FsPathParams) {
	info, err := h.fsSrv.Stat(c.Request.Context(), params.Path)
	if err != nil {
		writeError(c, fsLogger, "failed to stat path", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewFileStat(info))
}

// ListFsDirectory returns the entries of a directory
// (GET /fs/list)
func (h *Handler) ListFsDirectory(c *gin.Context, params v1.FsPathParams) {
	names, err := h.fsSrv.List(c.Request.Context(), params.Path)
	if err != nil {
		writeError(c, fsLogger, "failed to list directory", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, v1.DirectoryListing{Path: params.Path, Entries: names})
}

// ReadFsFile returns the content of a file
// (GET /fs/file)
func (h *Handler) ReadFsFile(c *gin.Context, params v1.FsPathParams) {
	data, err := h.fsSrv.ReadFile(c.Request.Context(), params.Path)
	if err != nil {
		writeError(c, fsLogger, "failed to read file", err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// WriteFsFile creates or replaces a file with the request body
// (PUT /fs/file)
func (h *Handler) WriteFsFile(c *gin.Context, params v1.FsPathParams) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, v1.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "failed to read request body"})
		return
	}

	if err := h.fsSrv.WriteFile(c.Request.Context(), params.Path, data); err != nil {
		writeError(c, fsLogger, "failed to write file", err)
		return
	}
	c.JSON(http.StatusOK, v1.FileWritten{Path: params.Path, Size: int64(len(data))})
}

// DeleteFsFile deletes a file or an empty directory
// (DELETE /fs/file)
func (h *Handler) DeleteFsFile(c *gin.Context, params v1.FsPathParams) {
	if err := h.fsSrv.Delete(c.Request.Context(), params.Path); err != nil {
		writeError(c, fsLogger, "failed to delete path", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateFsDirectory creates a directory
// (POST /fs/dir)
func (h *Handler) CreateFsDirectory(c *gin.Context) {
	var req v1.CreateFsDirectoryJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "path is required"})
		return
	}

	if err := h.fsSrv.MakeDirectory(c.Request.Context(), req.Path); err != nil {
		writeError(c, fsLogger, "failed to create directory", err)
		return
	}
	c.Status(http.StatusCreated)
}

// RenameFsFile renames a file or a directory
// (POST /fs/rename)
func (h *Handler) RenameFsFile(c *gin.Context) {
	var req v1.RenameFsFileJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil || req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "from and to are required"})
		return
	}

	if err := h.fsSrv.Rename(c.Request.Context(), req.From, req.To); err != nil {
		writeError(c, fsLogger, "failed to rename path", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetFsSpace returns the size of the mounted filesystem
// (GET /fs/space)
func (h *Handler) GetFsSpace(c *gin.Context) {
	ctx := c.Request.Context()

	var space v1.Space
	for _, s := range []struct {
		kind fs.SpaceKind
		dest *int64
	}{
		{fs.SpaceTotal, &space.Total},
		{fs.SpaceFree, &space.Free},
		{fs.SpaceUsable, &space.Usable},
	} {
		n, err := h.fsSrv.SpaceSize(ctx, s.kind)
		if err != nil {
			writeError(c, fsLogger, "failed to get filesystem space", err)
			return
		}
		*s.dest = n
	}
	c.JSON(http.StatusOK, space)
}
