// Package trending supplies the sidebar topic list.
package trending

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	fetchTimeout = 5 * time.Second
	// a broken feed is retried at most this often
	failureTTL = 5 * time.Minute
)

// Static returns the built-in topics.
func Static() []string {
	return []string{
		"インポスター症候群とは",
		"ポモドーロ・テクニックの効果",
		"なぜ人は嘘をつくのか",
		"HSP（繊細さん）の特徴",
		"アドラー心理学 嫌われる勇気",
		"睡眠とメンタルヘルスの関係",
		"バーンアウト症候群の予兆",
		"マインドフルネス瞑想のやり方",
	}
}

// Source returns the current topic list.
type Source interface {
	Topics(ctx context.Context) []string
}

// StaticSource always serves Static().
type StaticSource struct{}

func (StaticSource) Topics(context.Context) []string { return Static() }

// FeedSource uses RSS/Atom item titles as topics, falling back to Static()
// when the feed can't be fetched or has no usable items. Failures are
// cached too, so a dead feed costs one fetch per failureTTL at most.
type FeedSource struct {
	url     string
	limit   int
	ttl     time.Duration
	timeout time.Duration
	parser  *gofeed.Parser
	log     *slog.Logger

	mu      sync.Mutex
	cached  []string
	expires time.Time
}

func NewFeedSource(url string, limit int, ttl time.Duration, logger *slog.Logger) *FeedSource {
	if limit <= 0 {
		limit = len(Static())
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FeedSource{
		url:     url,
		limit:   limit,
		ttl:     ttl,
		timeout: fetchTimeout,
		parser:  gofeed.NewParser(),
		log:     logger,
	}
}

func (f *FeedSource) Topics(ctx context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if f.cached != nil && now.Before(f.expires) {
		return f.cached
	}

	topics, err := f.fetch(ctx)
	if err != nil || len(topics) == 0 {
		if err != nil {
			f.log.Warn("fetch trending feed", slog.String("url", f.url), slog.Any("err", err))
		}
		f.cached = Static()
		f.expires = now.Add(min(f.ttl, failureTTL))
		return f.cached
	}
	f.cached = topics
	f.expires = now.Add(f.ttl)
	return topics
}

func (f *FeedSource) fetch(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, err
	}
	return titles(feed, f.limit), nil
}

func titles(feed *gofeed.Feed, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, item := range feed.Items {
		t := strings.TrimSpace(item.Title)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) >= limit {
			break
		}
	}
	return out
}
