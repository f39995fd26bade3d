package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"psychology_station/article"
)

const defaultGeminiModel = "gemini-3-flash-preview"

// GeminiLLM implements LLMClient with the Google GenAI SDK and Google Search grounding.
type GeminiLLM struct {
	Model  string
	client *genai.Client
}

func NewGeminiLLMFromConfig(ctx context.Context, cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; provide llm.api_key or API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiLLM{Model: model, client: client}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(prompt.Temperature)),
	}
	if prompt.Search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt.User), config)
	if err != nil {
		return Completion{}, err
	}
	return Completion{
		Text:    resp.Text(),
		Sources: groundingSources(resp),
	}, nil
}

// groundingSources keeps only web chunks that carry both a URI and a title.
func groundingSources(resp *genai.GenerateContentResponse) []article.GroundingSource {
	sources := []article.GroundingSource{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		if chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		sources = append(sources, article.GroundingSource{
			Title: chunk.Web.Title,
			URL:   chunk.Web.URI,
		})
	}
	return sources
}
