package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"brewery-catalog/config"
	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/model"
	"brewery-catalog/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCatalog serves an in-memory directory with the upstream's filtering,
// ordering and paging rules.
type fakeCatalog struct {
	mu        sync.Mutex
	breweries []model.Brewery
	listErr   error
	getErr    error
	queries   []catalog.ListQuery
}

func (f *fakeCatalog) List(_ context.Context, q catalog.ListQuery) ([]model.Brewery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}

	var matched []model.Brewery
	for _, b := range f.breweries {
		if q.Query == "" || strings.Contains(strings.ToLower(b.Name), strings.ToLower(q.Query)) {
			matched = append(matched, b)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if q.Sort == model.SortDesc {
			return matched[i].Name > matched[j].Name
		}
		return matched[i].Name < matched[j].Name
	})

	start := (q.Page - 1) * q.PerPage
	if start >= len(matched) {
		return []model.Brewery{}, nil
	}
	end := min(start+q.PerPage, len(matched))
	return matched[start:end], nil
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*model.Brewery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, b := range f.breweries {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeCatalog) lastQuery() catalog.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func strPtr(s string) *string { return &s }

// newDirectory returns n breweries named "Brewery 01", "Brewery 02", ...
func newDirectory(n int) []model.Brewery {
	out := make([]model.Brewery, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Brewery{
			ID:    fmt.Sprintf("b-%02d", i),
			Name:  fmt.Sprintf("Brewery %02d", i),
			City:  "Portland",
			State: "Oregon",
		})
	}
	return out
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	catalog *fakeCatalog
	cookies []*http.Cookie
}

func newTestServer(t *testing.T, breweries []model.Brewery) *testServer {
	t.Helper()
	cfg := config.Default()
	logger := zaptest.NewLogger(t)
	fc := &fakeCatalog{breweries: breweries}
	sessions := session.NewStore(fc, time.Minute, time.Minute, logger)
	return &testServer{
		t:       t,
		router:  NewRouter(fc, sessions, cfg, logger),
		catalog: fc,
	}
}

// do sends a request carrying the cookies collected so far.
func (s *testServer) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		s.cookies = got
	}
	return w
}

// post submits a form and expects the redirect back to the list.
func (s *testServer) post(path string, form url.Values) {
	s.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	w := s.do(http.MethodPost, path, form)
	require.Equal(s.t, http.StatusSeeOther, w.Code)
	require.Equal(s.t, "/breweries", w.Header().Get("Location"))
}

// page fetches path and parses the HTML body.
func (s *testServer) page(path string, wantStatus int) *goquery.Document {
	s.t.Helper()
	w := s.do(http.MethodGet, path, nil)
	require.Equal(s.t, wantStatus, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(s.t, err)
	return doc
}

func names(doc *goquery.Document) []string {
	var out []string
	doc.Find("table#breweries tbody tr td.name").Each(func(_ int, sel *goquery.Selection) {
		out = append(out, strings.TrimSpace(sel.Text()))
	})
	return out
}

var errUpstream = errors.New("upstream unavailable")
