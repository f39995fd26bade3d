package generator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "psychology_station/generator"

type tracedLLM struct {
	next     LLMClient
	provider string
	model    string
}

// WithTracing wraps llm so every Complete call runs inside a gen_ai span.
func WithTracing(llm LLMClient, provider, model string) LLMClient {
	return &tracedLLM{next: llm, provider: provider, model: model}
}

func (t *tracedLLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generator.complete",
		trace.WithAttributes(
			// https://opentelemetry.io/docs/specs/semconv/gen-ai/
			attribute.String("gen_ai.operation.name", "generate_content"),
			attribute.String("gen_ai.provider.name", t.provider),
			attribute.String("gen_ai.request.model", t.model),
			attribute.Float64("gen_ai.request.temperature", prompt.Temperature),
			attribute.Bool("psych.search_grounding", prompt.Search),
		))
	defer span.End()

	out, err := t.next.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Completion{}, err
	}
	span.SetAttributes(
		attribute.Int("psych.response.chars", len([]rune(out.Text))),
		attribute.Int("psych.response.sources", len(out.Sources)),
	)
	return out, nil
}
