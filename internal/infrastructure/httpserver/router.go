// Package httpserver exposes the reader API over HTTP with gin.
package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ersonp/lore-reader/internal/application/handlers"
	"github.com/ersonp/lore-reader/internal/pkg/logger"
)

// RouterConfig holds the handlers and settings the router is built from.
type RouterConfig struct {
	LoreHandler    *handlers.LoreHandler
	LibraryHandler *handlers.LibraryHandler
	Log            *logger.Logger
	CORSOrigins    []string
	ServiceName    string
}

type routes struct {
	lore    *handlers.LoreHandler
	library *handlers.LibraryHandler
	log     *logger.Logger
}

// NewRouter builds the gin engine. The gin mode is process-global and is set
// by the caller.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lore-reader"
	}

	r := &routes{
		lore:    cfg.LoreHandler,
		library: cfg.LibraryHandler,
		log:     log.With("service", "HTTPServer"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestLogger(r.log))
	router.Use(CORS(cfg.CORSOrigins))

	router.GET("/healthz", r.health)

	api := router.Group("/api")
	{
		api.GET("/library", r.getLibrary)
		api.GET("/novel/:novel_id/chapters", r.getChapters)
		api.GET("/novel/:novel_id/lore/:entity_id", r.getLore)
		api.GET("/novel/:novel_id/:chapter_id", r.getChapter)
	}

	return router
}

func (s *routes) health(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

func (s *routes) getLibrary(c *gin.Context) {
	novels, err := s.library.HandleNovels(c.Request.Context())
	if err != nil {
		s.respondDomainError(c, err, "")
		return
	}
	RespondOK(c, novels)
}

func (s *routes) getChapters(c *gin.Context) {
	chapters, err := s.library.HandleChapters(c.Request.Context(), c.Param("novel_id"))
	if err != nil {
		s.respondDomainError(c, err, "Novel chapters not found")
		return
	}
	RespondOK(c, chapters)
}

func (s *routes) getChapter(c *gin.Context) {
	chapter, err := s.library.HandleChapter(c.Request.Context(), c.Param("novel_id"), c.Param("chapter_id"))
	if err != nil {
		s.respondDomainError(c, err, "Chapter not found")
		return
	}
	RespondOK(c, chapter)
}

func (s *routes) getLore(c *gin.Context) {
	raw, ok := c.GetQuery("chapter")
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_input", errors.New("chapter query parameter is required"))
		return
	}
	chapter, err := strconv.Atoi(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", errors.New("chapter must be an integer"))
		return
	}

	view, err := s.lore.HandleResolve(c.Request.Context(), c.Param("novel_id"), c.Param("entity_id"), chapter)
	if err != nil {
		s.respondDomainError(c, err, "")
		return
	}
	RespondOK(c, view)
}
