package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"psychology_station/article"
)

// Elasticsearch indexes generated articles and searches them.
type Elasticsearch struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

type document struct {
	article.Article
	ArchivedAt time.Time `json:"archived_at"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func NewElasticsearch(addr, index string, logger *slog.Logger) (*Elasticsearch, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Elasticsearch{es: es, index: index, log: logger}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Elasticsearch) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

func (c *Elasticsearch) Archive(ctx context.Context, a article.Article) error {
	payload, err := json.Marshal(document{Article: a, ArchivedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: a.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index article: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index article failed: %s", strings.TrimSpace(string(body)))
	}
	c.log.Debug("archived article", slog.String("id", a.ID), slog.String("index", c.index))
	return nil
}

// Search runs a multi_match over title, summary, content and tags, newest first.
func (c *Elasticsearch) Search(ctx context.Context, query string, size int) ([]article.Article, error) {
	if size <= 0 || size > 100 {
		size = 20
	}
	body := map[string]any{
		"size": size,
		"sort": []map[string]any{{"archived_at": map[string]any{"order": "desc"}}},
	}
	if q := strings.TrimSpace(query); q != "" {
		body["query"] = map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "summary", "content", "tags"},
			},
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search articles failed: %s", strings.TrimSpace(string(raw)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]article.Article, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source.Article)
	}
	return out, nil
}
