// Package archive hands generated articles to external sinks.
package archive

import (
	"context"
	"errors"

	"psychology_station/article"
)

// Sink receives every generated article once.
type Sink interface {
	Archive(ctx context.Context, a article.Article) error
}

// Searcher looks up archived articles.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]article.Article, error)
}

// Multi fans an article out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Archive(ctx context.Context, a article.Article) error {
	var errs []error
	for _, s := range m {
		if err := s.Archive(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
