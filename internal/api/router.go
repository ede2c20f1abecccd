package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brewery-catalog/config"
	"brewery-catalog/internal/mw"
	"brewery-catalog/internal/session"
	"brewery-catalog/internal/web"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(client Catalog, sessions *session.Store, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(logger))
	r.SetHTMLTemplate(template.Must(web.Templates()))

	handler := NewHandler(client, sessions, logger)

	r.GET("/healthz", Healthz)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, listPath)
	})

	// Browser views keep their list state per session cookie.
	ui := r.Group(listPath)
	ui.Use(mw.Session(cfg.Session.CookieName, cfg.Session.IdleTTL))
	{
		ui.GET("", handler.ListBreweries)
		ui.POST("/search", handler.SubmitSearch)
		ui.POST("/reset", handler.ResetSearch)
		ui.POST("/page", handler.ChangePage)
		ui.POST("/sort", handler.ChangeSort)
		ui.POST("/alert/dismiss", handler.DismissAlert)
		ui.GET("/:id", handler.ShowBrewery)
	}

	// Stateless JSON access to the catalog.
	api := r.Group("/api")
	{
		api.GET("/breweries", handler.GetBreweries)
		api.GET("/breweries/:id", handler.GetBrewery)
	}

	return r
}
