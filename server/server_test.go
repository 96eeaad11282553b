package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratst-engine/ratst/cache"
	"github.com/ratst-engine/ratst/engine/translator"
	"github.com/ratst-engine/ratst/mapping"
)

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	cfg := DefaultConfig()
	s, err := New(cfg, c, nil)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func translateURL(query, dialect string) string {
	v := url.Values{"query": {query}}
	if dialect != "" {
		v.Set("dialect", dialect)
	}
	return "/?" + v.Encode()
}

func TestTranslate(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		query   string
		dialect string
		want    map[string]any
	}{
		{
			name:  "selection",
			query: `σ subject = "database"(Books)`,
			want:  map[string]any{"result": `select * from Books where subject = "database"`},
		},
		{
			name:    "postgres intersect",
			query:   "R ∩ S",
			dialect: "postgres",
			want:    map[string]any{"result": "select * from R intersect select * from S"},
		},
		{
			name:  "relation rename",
			query: "ρStaff(Employee)",
			want:  map[string]any{"new_relation_name": "Staff", "old_relation_name": "Employee"},
		},
		{
			name:  "attribute rename",
			query: "ρ surname/name (Employee)",
			want: map[string]any{
				"relation_name":      "Employee",
				"new_attribute_name": "surname",
				"old_attribute_name": "name",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, s, translateURL(tt.query, tt.dialect))
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestTranslateMongoDB(t *testing.T) {
	s := newTestServer(t, nil)
	code, body := get(t, s, translateURL("σ a = 1 (Books)", "MongoDB"))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Books", body["collection"])
	assert.JSONEq(t,
		`{"aggregate": "Books", "pipeline": [{"$match": {"a": 1}}], "cursor": {}}`,
		body["result"].(string))
}

func TestTranslateErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"missing query", "/", "missing query parameter"},
		{"unbalanced", translateURL("(R", ""), "missing matching ')'"},
		{"missing operand", translateURL("∪ R", ""), "expected left operand"},
		{"reserved word", translateURL("select", ""), "reserved word"},
		{"unknown dialect", translateURL("R", "oracle"), "unsupported dialect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, GenericError, body["error"])
			assert.Contains(t, body["error_message"], tt.message)
		})
	}
}

type countingCache struct {
	cache.Cache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, dialect, expression string) (*translator.Result, bool, error) {
	c.gets++
	return c.Cache.Get(ctx, dialect, expression)
}

func (c *countingCache) Set(ctx context.Context, dialect, expression string, result *translator.Result) error {
	c.sets++
	return c.Cache.Set(ctx, dialect, expression, result)
}

func TestTranslateUsesCache(t *testing.T) {
	lru, err := cache.NewLRU(8, 0)
	require.NoError(t, err)
	c := &countingCache{Cache: lru}
	s := newTestServer(t, c)

	for range 3 {
		code, body := get(t, s, translateURL("R × S", ""))
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "select * from R cross join S", body["result"])
	}
	assert.Equal(t, 3, c.gets)
	assert.Equal(t, 1, c.sets)

	cached, ok, err := lru.Get(context.Background(), mapping.MySQL, "R × S")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "select * from R cross join S", cached.SQL)
}

func TestEvaluate(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"query": "π title (σ pages > 100 (Books))",
		"relations": {
			"Books": {"attributes": ["title", "pages"], "tuples": [["SQL", 30], ["TP", 1070]]}
		}
	}`
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name": "Books", "attributes": ["title"], "tuples": [["TP"]]}`, rec.Body.String())
}

func TestEvaluateErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing query", `{"relations": {}}`},
		{"bad relations", `{"query": "R", "relations": 5}`},
		{"unknown relation", `{"query": "R", "relations": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, GenericError, resp["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	code, body := get(t, newTestServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestUI(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui?"+url.Values{
		"query":   {"π author (Books) ∪ π author (Articles)"},
		"dialect": {"SQLite"},
	}.Encode(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	page, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "select author from Books union select author from Articles")
	assert.Contains(t, string(page), `<option value="SQLite" selected>`)
	assert.Contains(t, string(page), "Reads: Books, Articles")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui?query=%3Cscript%3E", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dialect = "postgres"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, mapping.PostgreSQL, cfg.Dialect)

	cfg = DefaultConfig()
	cfg.Dialect = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ReadTimeout = 0
	assert.Error(t, cfg.Validate())
}

func TestTranslateWithOutputValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValidateOutput = true
	cfg.Dialect = mapping.PostgreSQL
	s, err := New(cfg, nil, nil)
	require.NoError(t, err)

	code, body := get(t, s, translateURL("π a (R) − π a (S)", ""))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "select a from R except select a from S", body["result"])
}
