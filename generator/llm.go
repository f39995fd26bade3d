package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"psychology_station/article"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// Completion 是模型返回的原始文本和引用来源。
type Completion struct {
	Text    string
	Sources []article.GroundingSource
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Logger   *slog.Logger
}

// NewLLM picks the provider named in cfg and wraps it with tracing.
func NewLLM(ctx context.Context, cfg *LLMSettings) (LLMClient, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}

	var (
		llm LLMClient
		err error
	)
	switch cfg.Provider {
	case "gemini":
		llm, err = NewGeminiLLMFromConfig(ctx, cfg)
	case "openai":
		llm, err = NewOpenAILLMFromConfig(cfg)
		if err == nil {
			warnNoGrounding(cfg)
		}
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		llm, err = NewOpenAILLMFromConfig(cfg)
		if err == nil {
			warnNoGrounding(cfg)
		}
	case "anthropic":
		llm, err = NewAnthropicLLMFromConfig(cfg)
	case "mock":
		llm = MockLLM{}
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTracing(llm, cfg.Provider, cfg.Model), nil
}

// chat completions have no search tool; prompts still ask for one
func warnNoGrounding(cfg *LLMSettings) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log.Warn("llm provider has no web search grounding; articles will have no sources",
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.Model))
}
