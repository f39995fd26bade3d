// Package portal holds the portal state shared by the web view, the JSON API
// and the scheduler.
package portal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"psychology_station/archive"
	"psychology_station/article"
	"psychology_station/trending"
)

// AlertMessage is shown after a failed user-initiated generation.
const AlertMessage = "記事の生成に失敗しました。"

const archiveTimeout = 10 * time.Second

// Origin tells who asked for a generation.
type Origin int

const (
	OriginUser Origin = iota
	OriginScheduler
)

func (o Origin) String() string {
	if o == OriginScheduler {
		return "scheduler"
	}
	return "user"
}

// Generator is satisfied by *generator.Agent.
type Generator interface {
	Generate(ctx context.Context, topic string, category article.Category) (*article.Article, error)
}

type Options struct {
	Logger   *slog.Logger
	Seed     []article.Article
	Sink     archive.Sink
	Trending trending.Source
}

// Portal 持有文章列表、生成状态、当前选中文章和最近一次提示。
type Portal struct {
	gen      Generator
	sink     archive.Sink
	trending trending.Source
	log      *slog.Logger
	articles *article.Collection

	mu           sync.RWMutex
	generating   bool
	loadingTopic string

	// selectedID is the article opened after a generation; links opened
	// with ViewArticle never touch it. alert is process-wide and the next
	// page render consumes it, which suits the single-editor deployment.
	selectedID string
	alert      string
}

// View is everything the page needs for one category.
type View struct {
	Category     article.Category
	Categories   []article.Category
	Featured     *article.Article
	Grid         []article.Article
	Empty        bool
	Trending     []string
	Generating   bool
	LoadingTopic string
	Selected     *article.Article
	Alert        string
}

// Status is a snapshot of the generation state.
type Status struct {
	Generating   bool   `json:"generating"`
	LoadingTopic string `json:"loading_topic,omitempty"`
	Articles     int    `json:"articles"`
	Alert        string `json:"alert,omitempty"`
}

func New(gen Generator, opts Options) (*Portal, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	src := opts.Trending
	if src == nil {
		src = trending.StaticSource{}
	}
	seed := opts.Seed
	if seed == nil {
		seed = article.Seed()
	}
	return &Portal{
		gen:      gen,
		sink:     opts.Sink,
		trending: src,
		log:      log,
		articles: article.NewCollection(seed),
	}, nil
}

// Generate creates an article for topic. The All pseudo-category maps to
// メンタルヘルス. While it runs the portal reports the topic as loading; with
// overlapping calls the last one to start or finish wins.
func (p *Portal) Generate(ctx context.Context, topic string, active article.Category, origin Origin) (*article.Article, error) {
	category := active
	if category == article.All || category == "" {
		category = article.Mental
	}

	p.mu.Lock()
	p.generating = true
	p.loadingTopic = topic
	p.mu.Unlock()

	a, err := p.gen.Generate(ctx, topic, category)

	p.mu.Lock()
	p.generating = false
	p.loadingTopic = ""
	if err != nil {
		if origin == OriginUser {
			p.alert = AlertMessage
		}
		p.mu.Unlock()
		p.log.Error("generation failed",
			slog.String("topic", topic),
			slog.String("origin", origin.String()),
			slog.Any("err", err))
		return nil, err
	}
	p.articles.Prepend(*a)
	p.selectedID = a.ID
	p.mu.Unlock()

	p.log.Info("article generated",
		slog.String("id", a.ID),
		slog.String("title", a.Title),
		slog.String("origin", origin.String()))
	p.archive(ctx, *a)
	return a, nil
}

// Trigger adapts Generate for the scheduler.
func (p *Portal) Trigger(ctx context.Context, topic string) {
	_, _ = p.Generate(ctx, topic, article.All, OriginScheduler)
}

func (p *Portal) archive(ctx context.Context, a article.Article) {
	if p.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := p.sink.Archive(ctx, a); err != nil {
		p.log.Warn("archive article", slog.String("id", a.ID), slog.Any("err", err))
	}
}

// View builds the page state for category. Unknown categories are treated as All.
func (p *Portal) View(ctx context.Context, category article.Category) View {
	if !category.Valid() {
		category = article.All
	}
	filtered := article.Filter(p.articles.List(), category)

	p.mu.RLock()
	generating, topic, alert, selectedID := p.generating, p.loadingTopic, p.alert, p.selectedID
	p.mu.RUnlock()

	v := View{
		Category:     category,
		Categories:   article.Categories(),
		Trending:     p.trending.Topics(ctx),
		Generating:   generating,
		LoadingTopic: topic,
		Alert:        alert,
		Empty:        len(filtered) == 0 && !generating,
		Grid:         []article.Article{},
	}
	if len(filtered) > 0 {
		if !generating {
			first := filtered[0]
			v.Featured = &first
		}
		v.Grid = filtered[1:]
	}
	if selectedID != "" {
		if a, ok := p.articles.Get(selectedID); ok {
			v.Selected = &a
		}
	}
	return v
}

// ViewArticle is View with article id shown in the modal for this render
// only. The shared selection is left as is.
func (p *Portal) ViewArticle(ctx context.Context, category article.Category, id string) (View, bool) {
	a, ok := p.articles.Get(id)
	if !ok {
		return View{}, false
	}
	v := p.View(ctx, category)
	v.Selected = &a
	return v, true
}

// Articles returns the filtered list, newest first.
func (p *Portal) Articles(category article.Category) []article.Article {
	return article.Filter(p.articles.List(), category)
}

func (p *Portal) Article(id string) (article.Article, bool) {
	return p.articles.Get(id)
}

// Select marks id as the article shown in the modal.
func (p *Portal) Select(id string) (article.Article, bool) {
	a, ok := p.articles.Get(id)
	if !ok {
		return article.Article{}, false
	}
	p.mu.Lock()
	p.selectedID = id
	p.mu.Unlock()
	return a, true
}

func (p *Portal) ClearSelection() {
	p.mu.Lock()
	p.selectedID = ""
	p.mu.Unlock()
}

// DismissAlert clears the last alert.
func (p *Portal) DismissAlert() {
	p.mu.Lock()
	p.alert = ""
	p.mu.Unlock()
}

func (p *Portal) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Status{
		Generating:   p.generating,
		LoadingTopic: p.loadingTopic,
		Articles:     p.articles.Len(),
		Alert:        p.alert,
	}
}
