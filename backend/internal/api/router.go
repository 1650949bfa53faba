package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"entity-graph/backend/internal/metrics"
	"entity-graph/backend/internal/middleware"
	apperrors "entity-graph/backend/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

const graphTemplate = "graph.html"

// RouterConfig wires the router's dependencies. Metrics may be nil.
type RouterConfig struct {
	Handler        *Handler
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	// Parent names may contain an escaped "/"; match on the raw path and
	// unescape the parameter afterwards.
	router.UseRawPath = true
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics(cfg.Metrics))

	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrRouteNotFound.Message})
	})

	// Health check
	router.GET("/health", cfg.Handler.Health)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Data fetch API
	api := router.Group("/api")
	{
		api.GET("/dataset/", cfg.Handler.Dataset)
		api.GET("/graph/", cfg.Handler.Graph)
		api.GET("/child-nodes/:parent_node/", cfg.Handler.ChildNodes)
		api.GET("/parent-connected-nodes/:parent_node/", cfg.Handler.ParentConnectedNodes)
	}

	// Data render page
	router.GET("/graph/", cfg.Handler.GraphPage)

	return router
}
