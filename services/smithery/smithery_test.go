package smithery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"towgo/services/degrade"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func registry(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sm-key", r.Header.Get("Authorization"))
		switch r.URL.EscapedPath() {
		case "/servers":
			assert.Equal(t, "maps", r.URL.Query().Get("q"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
			_, _ = w.Write([]byte(`{"servers":[{"qualifiedName":"@acme/maps","displayName":"Maps","useCount":42,"isDeployed":true}],
				"pagination":{"currentPage":2,"pageSize":5,"totalPages":3,"totalCount":11}}`))
		case "/servers/@acme/maps":
			_, _ = w.Write([]byte(`{"qualifiedName":"@acme/maps","displayName":"Maps","description":"Map tools"}`))
		case "/servers/@acme/tow%20maps":
			_, _ = w.Write([]byte(`{"qualifiedName":"@acme/tow maps","displayName":"Tow Maps"}`))
		case "/servers/broken":
			_, _ = w.Write([]byte(`{`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	return NewClient(Config{APIKey: "sm-key", BaseURL: baseURL, Timeout: time.Second}, zaptest.NewLogger(t))
}

func TestListServers(t *testing.T) {
	c := newTestClient(t, registry(t).URL)

	res := c.ListServers(context.Background(), " maps ", 2, 5)
	require.False(t, res.Degraded)
	require.Len(t, res.Value.Servers, 1)
	assert.Equal(t, "@acme/maps", res.Value.Servers[0].QualifiedName)
	assert.Equal(t, 42, res.Value.Servers[0].UseCount)
	assert.Equal(t, 11, res.Value.Pagination.TotalCount)
}

func TestListServers_NoKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"}, zaptest.NewLogger(t))

	res := c.ListServers(context.Background(), "", 0, 0)
	assert.True(t, res.Degraded)
	assert.Equal(t, degrade.ReasonMissingCredential, res.Reason)
	assert.Empty(t, res.Value.Servers)
	assert.NotNil(t, res.Value.Servers)
	assert.Equal(t, 1, res.Value.Pagination.CurrentPage)
	assert.Equal(t, 10, res.Value.Pagination.PageSize)
}

func TestListServers_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	res := c.ListServers(context.Background(), "", 1, 500)
	assert.True(t, res.Degraded)
	assert.Equal(t, degrade.ReasonUpstreamError, res.Reason)
	assert.Equal(t, 100, res.Value.Pagination.PageSize)
}

func TestGetServer(t *testing.T) {
	c := newTestClient(t, registry(t).URL)

	s, err := c.GetServer(context.Background(), "@acme/maps")
	require.NoError(t, err)
	assert.Equal(t, "Map tools", s.Description)

	s, err = c.GetServer(context.Background(), "@acme/tow maps")
	require.NoError(t, err)
	assert.Equal(t, "Tow Maps", s.DisplayName)

	_, err = c.GetServer(context.Background(), "@acme/missing")
	assert.ErrorIs(t, err, ErrServerNotFound)

	_, err = c.GetServer(context.Background(), "broken")
	assert.ErrorIs(t, err, errMalformed)
}

func TestGetServer_NoKey(t *testing.T) {
	c := NewClient(Config{}, zaptest.NewLogger(t))
	_, err := c.GetServer(context.Background(), "@acme/maps")
	assert.ErrorIs(t, err, ErrUnavailable)
}
