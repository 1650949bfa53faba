package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"entity-graph/backend/internal/graph"
	"entity-graph/backend/internal/middleware"
	"entity-graph/backend/pkg/logger"
)

// Handler serves the relationship views over HTTP
type Handler struct {
	deriver *graph.Deriver
	logger  *zap.Logger
}

// NewHandler creates a handler backed by deriver
func NewHandler(deriver *graph.Deriver) *Handler {
	return &Handler{
		deriver: deriver,
		logger:  logger.Get(),
	}
}

// Dataset returns every record of the dataset
func (h *Handler) Dataset(c *gin.Context) {
	c.JSON(http.StatusOK, h.deriver.Dataset())
}

// Graph returns the parent-level nodes and edges
func (h *Handler) Graph(c *gin.Context) {
	c.JSON(http.StatusOK, h.deriver.Graph())
}

// ChildNodes returns the "name/type" children of :parent_node
func (h *Handler) ChildNodes(c *gin.Context) {
	parent := h.parentParam(c)
	c.JSON(http.StatusOK, h.deriver.ChildNodes(parent))
}

// ParentConnectedNodes returns the parents directly linked to :parent_node
func (h *Handler) ParentConnectedNodes(c *gin.Context) {
	parent := h.parentParam(c)
	c.JSON(http.StatusOK, h.deriver.ConnectedParents(parent))
}

// parentParam reads :parent_node. An empty segment is served as a lookup of
// rows whose parent cell is blank.
func (h *Handler) parentParam(c *gin.Context) string {
	parent := c.Param("parent_node")
	if parent == "" {
		h.logger.Info("Blank parent requested",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
	return parent
}

// GraphPage renders the interactive network page
func (h *Handler) GraphPage(c *gin.Context) {
	c.HTML(http.StatusOK, graphTemplate, gin.H{
		"Title":   "Entity Relationship Graph",
		"Records": h.deriver.RecordCount(),
	})
}

// Health reports liveness and the size of the loaded dataset
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": h.deriver.RecordCount(),
	})
}
