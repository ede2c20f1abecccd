package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"brewery-catalog/config"
	"brewery-catalog/internal/api"
	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/model"
	"brewery-catalog/internal/session"
)

// upstream imitates the brewery directory: a paged collection, a search
// endpoint and lookups by id.
type upstream struct {
	mu        sync.Mutex
	breweries []model.Brewery
	requests  []url.URL
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, *r.URL)
	u.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/breweries")
	switch path {
	case "", "/search":
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		perPage, _ := strconv.Atoi(q.Get("per_page"))
		term := strings.ToLower(q.Get("query"))

		var matched []model.Brewery
		for _, b := range u.breweries {
			if path == "" || strings.Contains(strings.ToLower(b.Name), term) {
				matched = append(matched, b)
			}
		}
		if q.Get("sort") == "name:desc" {
			for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
		start := min((page-1)*perPage, len(matched))
		end := min(start+perPage, len(matched))
		writeJSON(w, http.StatusOK, matched[start:end])
	case "/legacy":
		// Old records come back without an identifier.
		writeJSON(w, http.StatusOK, map[string]any{"name": "Legacy Brewing"})
	default:
		id := strings.TrimPrefix(path, "/")
		for _, b := range u.breweries {
			if b.ID == id {
				writeJSON(w, http.StatusOK, b)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Couldn't find Brewery"})
	}
}

func (u *upstream) last() url.URL {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[len(u.requests)-1]
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TestBrowsingSession walks one browser session through paging, searching,
// resetting and opening details, against a fake directory.
func TestBrowsingSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// --- Test Setup ---

	// 1. A directory of 12 breweries, names sorted ascending; two are ale houses.
	directory := &upstream{}
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("Brewery %02d", i)
		if i == 4 || i == 9 {
			name = fmt.Sprintf("Brewery %02d Ale House", i)
		}
		website := fmt.Sprintf("https://b%02d.example", i)
		directory.breweries = append(directory.breweries, model.Brewery{
			ID: fmt.Sprintf("b-%02d", i), Name: name, City: "Asheville", State: "North Carolina",
			Country: "United States", WebsiteURL: &website,
		})
	}
	upstreamSrv := httptest.NewServer(directory)
	defer upstreamSrv.Close()

	// 2. The application wired the way serve wires it.
	cfg := config.Default()
	cfg.Catalog.BaseURL = upstreamSrv.URL + "/breweries"
	logger := zaptest.NewLogger(t)
	client := catalog.NewClient(cfg.Catalog, logger)
	sessions := session.NewStore(client, cfg.Session.IdleTTL, cfg.Session.CleanupInterval, logger)
	app := httptest.NewServer(api.NewRouter(client, sessions, cfg, logger))
	defer app.Close()

	// 3. A browser that keeps cookies and follows the 303 redirects.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{Jar: jar}

	load := func(t *testing.T, resp *http.Response) *goquery.Document {
		t.Helper()
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		require.NoError(t, err)
		return doc
	}
	rowNames := func(doc *goquery.Document) []string {
		var out []string
		doc.Find("table#breweries td.name").Each(func(_ int, s *goquery.Selection) {
			out = append(out, strings.TrimSpace(s.Text()))
		})
		return out
	}

	t.Run("Mount loads the first page", func(t *testing.T) {
		resp, err := browser.Get(app.URL + "/")
		require.NoError(t, err)
		doc := load(t, resp)

		assert.Len(t, rowNames(doc), 10)
		assert.Equal(t, 1, directory.count(), "mount fetches exactly once")
		first := directory.last()
		q := first.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("per_page"))
		assert.Equal(t, "name:asc", q.Get("sort"))
	})

	t.Run("Next page is short and ends paging", func(t *testing.T) {
		resp, err := browser.PostForm(app.URL+"/breweries/page", url.Values{"dir": {"next"}})
		require.NoError(t, err)
		doc := load(t, resp)

		assert.Equal(t, []string{"Brewery 11", "Brewery 12"}, rowNames(doc))
		_, disabled := doc.Find("button#next").Attr("disabled")
		assert.True(t, disabled)
		next := directory.last()
		assert.Equal(t, "2", next.Query().Get("page"))
	})

	t.Run("Search starts over on page one", func(t *testing.T) {
		resp, err := browser.PostForm(app.URL+"/breweries/search", url.Values{"search": {"  ale house "}})
		require.NoError(t, err)
		doc := load(t, resp)

		assert.Equal(t, []string{"Brewery 04 Ale House", "Brewery 09 Ale House"}, rowNames(doc))
		last := directory.last()
		assert.Equal(t, "/breweries/search", last.Path)
		assert.Equal(t, "ale house", last.Query().Get("query"))
		assert.Equal(t, "1", last.Query().Get("page"))
	})

	t.Run("Reset returns to the unfiltered first page", func(t *testing.T) {
		resp, err := browser.PostForm(app.URL+"/breweries/reset", url.Values{})
		require.NoError(t, err)
		doc := load(t, resp)

		assert.Len(t, rowNames(doc), 10)
		last := directory.last()
		assert.Equal(t, "/breweries", last.Path)
		assert.Empty(t, last.Query().Get("query"))
		assert.Equal(t, "1", last.Query().Get("page"))
	})

	t.Run("Detail view", func(t *testing.T) {
		resp, err := browser.Get(app.URL + "/breweries/b-04")
		require.NoError(t, err)
		doc := load(t, resp)

		assert.Equal(t, "Brewery 04 Ale House", strings.TrimSpace(doc.Find("td.name").Text()))
		assert.Equal(t, "Asheville, North Carolina United States", strings.TrimSpace(doc.Find("td.location").Text()))
		href, _ := doc.Find("td.website a").Attr("href")
		assert.Equal(t, "https://b04.example", href)
	})

	t.Run("Missing and id-less records are not found", func(t *testing.T) {
		for _, id := range []string{"nope", "legacy"} {
			resp, err := browser.Get(app.URL + "/breweries/" + id)
			require.NoError(t, err)
			doc, err := goquery.NewDocumentFromReader(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
			assert.Equal(t, "Uh oh! Brewery not found!", strings.TrimSpace(doc.Find("p.empty").Text()), id)
		}
	})

	t.Run("JSON access", func(t *testing.T) {
		resp, err := http.Get(app.URL + "/api/breweries?page=2&sort=desc")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body api.ListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2, body.Page)
		assert.False(t, body.HasNextPage)
		require.Len(t, body.Breweries, 2)
		assert.Equal(t, "Brewery 02", body.Breweries[0].Name)
	})
}
