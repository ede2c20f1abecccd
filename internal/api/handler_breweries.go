package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brewery-catalog/internal/listing"
	"brewery-catalog/internal/mw"
	"brewery-catalog/internal/parse"
)

const listPath = "/breweries"

type listPage struct {
	State listing.State
	Alert alertView
}

// synchronizer returns the list state of the caller's session.
func (h *Handler) synchronizer(c *gin.Context) *listing.Synchronizer {
	syncer, created := h.sessions.Get(mw.SessionID(c))
	if created {
		h.logger.Debug("new list session", zap.String("session", mw.SessionID(c)))
	}
	return syncer
}

// fetchContext detaches list fetches from the browser request, so a client
// that navigates away does not leave a "context canceled" alert behind. The
// catalog client's timeout still bounds the request.
func fetchContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// ListBreweries handles GET /breweries.
func (h *Handler) ListBreweries(c *gin.Context) {
	syncer := h.synchronizer(c)
	_ = syncer.Mount(fetchContext(c))

	state := syncer.Snapshot()
	c.HTML(http.StatusOK, "list.html", listPage{
		State: state,
		Alert: alertView{Message: state.Alert, DismissURL: listPath + "/alert/dismiss"},
	})
}

// SubmitSearch handles POST /breweries/search.
func (h *Handler) SubmitSearch(c *gin.Context) {
	syncer := h.synchronizer(c)
	syncer.SetSearchText(c.PostForm("search"))
	_ = syncer.Submit(fetchContext(c))
	c.Redirect(http.StatusSeeOther, listPath)
}

// ResetSearch handles POST /breweries/reset.
func (h *Handler) ResetSearch(c *gin.Context) {
	_ = h.synchronizer(c).Reset(fetchContext(c))
	c.Redirect(http.StatusSeeOther, listPath)
}

// ChangePage handles POST /breweries/page. The form carries either
// dir=next|prev or an explicit page number.
func (h *Handler) ChangePage(c *gin.Context) {
	syncer := h.synchronizer(c)
	ctx := fetchContext(c)

	switch c.PostForm("dir") {
	case "next":
		_ = syncer.NextPage(ctx)
	case "prev":
		_ = syncer.PrevPage(ctx)
	default:
		raw, ok := c.GetPostForm("page")
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "dir or page is required"})
			return
		}
		_ = syncer.GoToPage(ctx, parse.Page(raw))
	}
	c.Redirect(http.StatusSeeOther, listPath)
}

// ChangeSort handles POST /breweries/sort.
func (h *Handler) ChangeSort(c *gin.Context) {
	_ = h.synchronizer(c).SetSort(fetchContext(c), parse.Sort(c.PostForm("sort")))
	c.Redirect(http.StatusSeeOther, listPath)
}

// DismissAlert handles POST /breweries/alert/dismiss.
func (h *Handler) DismissAlert(c *gin.Context) {
	h.synchronizer(c).DismissAlert()
	c.Redirect(http.StatusSeeOther, listPath)
}
