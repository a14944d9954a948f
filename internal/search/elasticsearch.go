// AngelaMos | 2026
// elasticsearch.go

package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/product"
)

const requestTimeout = 3 * time.Second

const productsMapping = `{
  "mappings": {
    "properties": {
      "name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "categories":  {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "variant":     {"type": "text"},
      "size":        {"type": "keyword"},
      "price":       {"type": "scaled_float", "scaling_factor": 100},
      "updated_at":  {"type": "date"}
    }
  }
}`

func NewClient(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// ProductIndex keeps a search document per catalog item. Document ids are
// product ids so that hits can be loaded back from the database.
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	if index == "" {
		index = "products"
	}
	return &ProductIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{p.index}}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("check index %s: %w", p.index, err)
	}
	_ = res.Body.Close() //nolint:errcheck // empty HEAD body

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: p.index,
		Body:  bytes.NewReader([]byte(productsMapping)),
	}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("create index %s: %w", p.index, err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", p.index, res.Status())
	}

	return nil
}

type productDocument struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Variant     string   `json:"variant"`
	Size        string   `json:"size"`
	Price       float64  `json:"price"`
	UpdatedAt   string   `json:"updated_at"`
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod *product.Product) error {
	body, err := json.Marshal(productDocument{
		Name:        prod.Name,
		Description: prod.Description,
		Categories:  prod.Categories,
		Variant:     prod.Variant,
		Size:        prod.Size,
		Price:       prod.Price,
		UpdatedAt:   prod.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("encode product document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndexRequest{
		Index:      p.index,
		DocumentID: prod.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("index product %s: %w", prod.ID, err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() {
		return fmt.Errorf("index product %s: %s", prod.ID, res.Status())
	}

	return nil
}

// RemoveProduct deletes the document; a missing document is not an error.
func (p *ProductIndex) RemoveProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.DeleteRequest{Index: p.index, DocumentID: id}.Do(ctx, p.es)
	if err != nil {
		return fmt.Errorf("remove product %s: %w", id, err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove product %s: %s", id, res.Status())
	}

	return nil
}

// SearchProducts runs a multi_match over the text fields and returns the
// matching product ids by relevance.
func (p *ProductIndex) SearchProducts(ctx context.Context, query string, limit int) ([]string, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "categories^2", "variant", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size":    limit,
		"_source": false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := p.es.Search(
		p.es.Search.WithContext(ctx),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}

	return ids, nil
}

func (p *ProductIndex) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := p.es.Ping(p.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}

	return nil
}

var _ product.SearchIndex = (*ProductIndex)(nil)
