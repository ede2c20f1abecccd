package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brewery-catalog/internal/detail"
)

type detailPage struct {
	State detail.State
	Alert alertView
}

// ShowBrewery handles GET /breweries/:id. Every page view mounts a fresh
// detail view, so the brewery is fetched once per visit.
func (h *Handler) ShowBrewery(c *gin.Context) {
	fetcher := detail.NewFetcher(h.catalog, h.logger)
	state, _ := fetcher.Load(fetchContext(c), c.Param("id"))

	status := http.StatusOK
	switch {
	case state.Alert != "":
		status = http.StatusBadGateway
	case state.NotFound:
		status = http.StatusNotFound
	}

	// Dismissing a detail error leads back to the list.
	c.HTML(status, "detail.html", detailPage{
		State: state,
		Alert: alertView{Message: state.Alert, DismissURL: listPath + "/alert/dismiss"},
	})
}
