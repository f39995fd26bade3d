package article

import "sync"

// Filter returns the articles in category c, preserving order.
// All short-circuits to the full list.
func Filter(articles []Article, c Category) []Article {
	if c == All {
		out := make([]Article, len(articles))
		copy(out, articles)
		return out
	}
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

// Collection holds the in-memory article list, newest first. It only grows.
type Collection struct {
	mu       sync.RWMutex
	articles []Article
}

// NewCollection copies initial into a new collection.
func NewCollection(initial []Article) *Collection {
	articles := make([]Article, len(initial))
	copy(articles, initial)
	return &Collection{articles: articles}
}

// Prepend puts a at the head of the list.
func (c *Collection) Prepend(a Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles = append([]Article{a}, c.articles...)
}

// List returns a snapshot of the list.
func (c *Collection) List() []Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

func (c *Collection) Get(id string) (Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}
