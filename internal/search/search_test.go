package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	reply    func(w http.ResponseWriter, r *http.Request)
}

func newFakeES(t *testing.T, reply func(w http.ResponseWriter, r *http.Request)) (*fakeES, *Elastic) {
	t.Helper()

	f := &fakeES{reply: reply}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.bodies = append(f.bodies, string(body))
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.reply(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := NewElastic(Config{URL: srv.URL, Index: "catalog_test"})
	require.NoError(t, err)
	return f, es
}

func TestElastic_IndexItem(t *testing.T) {
	t.Parallel()

	f, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	item := &models.CatalogItem{ID: uuid.New(), Kind: models.KindAccessory, Name: "Fender", Price: decimal.RequireFromString("12.50")}
	require.NoError(t, es.IndexItem(context.Background(), item))

	require.Len(t, f.requests, 1)
	assert.Equal(t, "PUT /catalog_test/_doc/"+item.ID.String(), f.requests[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies[0]), &doc))
	assert.Equal(t, "Fender", doc["name"])
	assert.Equal(t, "accessory", doc["kind"])
	assert.InDelta(t, 12.5, doc["price"], 1e-9)
}

func TestElastic_Search_ParsesHits(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	f, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":7},"hits":[` +
			`{"_source":{"id":"` + a.String() + `"}},` +
			`{"_source":{"id":"not-a-uuid"}},` +
			`{"_source":{"id":"` + b.String() + `"}}]}}`))
	})

	total, ids, err := es.Search(context.Background(), models.KindProduct, "kayak", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	require.Len(t, f.bodies, 1)
	assert.True(t, strings.Contains(f.bodies[0], `"kind":"product"`))
	assert.True(t, strings.Contains(f.bodies[0], `"query":"kayak"`))
}

func TestElastic_ErrorsAndMissingDelete(t *testing.T) {
	t.Parallel()

	_, es := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})

	require.NoError(t, es.DeleteItem(context.Background(), uuid.New()))

	_, _, err := es.Search(context.Background(), models.KindProduct, "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
