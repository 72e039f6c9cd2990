package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/async-worker/api/v1"
)

// GetEngines returns the status of every engine
// (GET /engines)
func (h *Handler) GetEngines(c *gin.Context) {
	list := h.engines.List()

	engines := make([]v1.Engine, 0, len(list))
	for _, e := range list {
		engines = append(engines, v1.NewEngineFromModel(e))
	}

	c.JSON(http.StatusOK, v1.EngineList{Engines: engines})
}

// GetEngine returns the status of one engine
// (GET /engines/{name})
func (h *Handler) GetEngine(c *gin.Context, name string) {
	e, err := h.engines.Get(name)
	if err != nil {
		writeError(c, "engine_handler", "failed to get engine", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewEngineFromModel(e))
}
