package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"psychology_station/article"
)

const (
	defaultAnthropicModel = "claude-haiku-4-5"
	maxWebSearches        = 5
	citationWebSearch     = "web_search_result_location"
)

// AnthropicLLM implements LLMClient with the Messages API. Search requests
// enable the server-side web_search tool; its citations become Sources.
type AnthropicLLM struct {
	Model  string
	client *anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; provide llm.api_key")
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicLLM{Model: model, client: &client}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
		Temperature: anthropic.Float(prompt.Temperature),
	}
	if prompt.Search {
		params.Tools = []anthropic.ToolUnionParam{{
			OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				MaxUses: anthropic.Int(maxWebSearches),
			},
		}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Content) == 0 {
		return Completion{}, errors.New("anthropic: empty content")
	}
	return Completion{
		Text:    messageText(resp.Content),
		Sources: citationSources(resp.Content),
	}, nil
}

func messageText(content []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// citationSources collects web search citations that carry both a URL and a
// title, first occurrence wins.
func citationSources(content []anthropic.ContentBlockUnion) []article.GroundingSource {
	sources := []article.GroundingSource{}
	seen := make(map[string]struct{})
	for _, block := range content {
		if block.Type != "text" {
			continue
		}
		for _, c := range block.Citations {
			if c.Type != citationWebSearch || c.URL == "" || c.Title == "" {
				continue
			}
			if _, ok := seen[c.URL]; ok {
				continue
			}
			seen[c.URL] = struct{}{}
			sources = append(sources, article.GroundingSource{Title: c.Title, URL: c.URL})
		}
	}
	return sources
}
