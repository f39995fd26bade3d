package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"psychology_station/article"
)

// ErrGenerationFailed 是唯一对外暴露的生成错误，网络/配额/格式错误都归到这里。
var ErrGenerationFailed = errors.New("記事の生成中にエラーが発生しました。")

var ErrEmptyTopic = errors.New("topic is required")

// Options 控制重试/超时等策略；零值即单次调用、不设超时。
type Options struct {
	Logger       *slog.Logger
	Retries      int
	RetryBackoff time.Duration
	Timeout      time.Duration
	Location     *time.Location
}

// Agent 负责根据主题和分类生成文章。
type Agent struct {
	llm     LLMClient
	log     *slog.Logger
	retries int
	backoff time.Duration
	timeout time.Duration
	loc     *time.Location

	now       func() time.Time
	newID     func() string
	viewCount func() int
}

func NewAgent(llm LLMClient, opts Options) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if opts.Retries < 0 {
		return nil, errors.New("retries cannot be negative")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Agent{
		llm:       llm,
		log:       log,
		retries:   opts.Retries,
		backoff:   backoff,
		timeout:   opts.Timeout,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,
		viewCount: func() int { return rand.IntN(8000) + 500 },
	}, nil
}

// Generate 调用模型并整理为 Article。
func (a *Agent) Generate(ctx context.Context, topic string, category article.Category) (*article.Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if !category.Valid() || category == article.All {
		return nil, fmt.Errorf("invalid article category %q", category)
	}

	prompt := BuildPrompt(topic, category)
	raw, err := a.complete(ctx, prompt)
	if err != nil {
		a.log.Error("article generation failed",
			slog.String("topic", topic),
			slog.String("category", string(category)),
			slog.Any("err", err),
		)
		return nil, ErrGenerationFailed
	}

	art := PostProcess(raw, article.GenerationRequest{Topic: topic, Category: category}, Stamp{
		ID:        a.newID(),
		CreatedAt: a.now().In(a.loc),
		ViewCount: a.viewCount(),
	})
	a.log.Info("article generated",
		slog.String("id", art.ID),
		slog.String("title", art.Title),
		slog.Int("sources", len(art.Sources)),
	)
	return &art, nil
}

func (a *Agent) complete(ctx context.Context, prompt Prompt) (Completion, error) {
	var lastErr error
	for attempt := 0; attempt <= a.retries; attempt++ {
		if attempt > 0 {
			wait := a.backoff * time.Duration(1<<uint(attempt-1))
			a.log.Warn("retrying generation",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
				slog.Any("err", lastErr),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return Completion{}, ctx.Err()
			}
		}

		out, err := a.completeOnce(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return Completion{}, lastErr
}

func (a *Agent) completeOnce(ctx context.Context, prompt Prompt) (Completion, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.llm.Complete(ctx, prompt)
}
