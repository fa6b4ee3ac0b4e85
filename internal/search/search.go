// Package search keeps catalog items in an Elasticsearch index and runs
// fuzzy name/description queries against it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
)

type Index interface {
	IndexItem(ctx context.Context, item *models.CatalogItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// Search returns matching item ids ranked by relevance.
	Search(ctx context.Context, kind models.Kind, query string, from, size int) (int64, []uuid.UUID, error)
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Elastic struct {
	client *elasticsearch.Client
	index  string
}

func NewElastic(cfg Config) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "catalog"
	}
	return &Elastic{client: client, index: index}, nil
}

type document struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
}

func toDocument(item *models.CatalogItem) document {
	return document{
		ID:          item.ID.String(),
		Kind:        string(item.Kind),
		Name:        item.Name,
		Description: item.Description,
		Brand:       item.Brand,
		Price:       item.Price.InexactFloat64(),
		Rating:      item.Rating,
	}
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("elasticsearch: %s: status %d: %s", op, status, bytes.TrimSpace(msg))
}

func (e *Elastic) IndexItem(ctx context.Context, item *models.CatalogItem) error {
	body, err := json.Marshal(toDocument(item))
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(item.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.StatusCode, res.Body)
	}
	return nil
}

func (e *Elastic) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := e.client.Delete(e.index, id.String(), e.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.StatusCode, res.Body)
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, kind models.Kind, query string, from, size int) (int64, []uuid.UUID, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "brand", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"kind": string(kind)},
				},
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID string `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.Source.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}
