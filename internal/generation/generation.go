package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/yildizm/go-promptfmt"

	"docqa/internal/domain"
)

// CannotFindAnswer is the reply the model is instructed to use verbatim
// when the retrieved context does not contain the answer.
const CannotFindAnswer = "I cannot find the answer in the provided documents."

// noEngineAnswer is returned as a normal answer body when no provider is
// configured. Deployment misconfiguration is explained to the user rather
// than surfaced as a transport failure.
const noEngineAnswer = "Configuration error: no generation providers are active. Check the server's API keys."

// Generator invokes one generation backend with a fully rendered prompt.
// Implementations normalize whatever response shape their backend returns
// into a single flat string.
type Generator interface {
	Provider() domain.Provider
	Generate(ctx context.Context, prompt string) (string, error)
}

// Router holds the generation backends that had valid credentials at
// startup and selects one per request. The mapping is immutable after
// construction.
type Router struct {
	generators map[domain.Provider]Generator
}

// NewRouter builds a router over the given backends. Nil entries are
// skipped, so callers can pass results of conditional construction directly.
func NewRouter(gens ...Generator) *Router {
	m := make(map[domain.Provider]Generator, len(gens))
	for _, g := range gens {
		if g != nil {
			m[g.Provider()] = g
		}
	}
	return &Router{generators: m}
}

// Providers returns the configured backends in fallback priority order.
func (r *Router) Providers() []domain.Provider {
	var out []domain.Provider
	for _, p := range domain.ProviderPriority {
		if _, ok := r.generators[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Answer renders the prompt over the retrieved chunks and invokes the
// preferred provider, falling back to the first configured provider in
// priority order when the preferred one is absent. Invocation failures are
// converted into answer text so the caller still sees what was retrieved;
// only the configuration of the router itself is reported as the sentinel
// "no engine" answer.
func (r *Router) Answer(ctx context.Context, question string, contextChunks []domain.Chunk, preferred domain.Provider) string {
	gen, ok := r.pick(preferred)
	if !ok {
		return noEngineAnswer
	}
	text, err := gen.Generate(ctx, BuildPrompt(question, contextChunks))
	if err != nil {
		return fmt.Sprintf("Error (%s): %s", gen.Provider(), err)
	}
	return text
}

func (r *Router) pick(preferred domain.Provider) (Generator, bool) {
	if g, ok := r.generators[preferred]; ok {
		return g, true
	}
	for _, p := range domain.ProviderPriority {
		if g, ok := r.generators[p]; ok {
			return g, true
		}
	}
	return nil, false
}

// BuildPrompt renders the fixed answer-from-context template. Chunk texts
// are joined with blank lines into a single context block.
func BuildPrompt(question string, contextChunks []domain.Chunk) string {
	texts := make([]string, len(contextChunks))
	for i, c := range contextChunks {
		texts[i] = c.Text
	}
	contextBlock := strings.Join(texts, "\n\n")

	prompt := promptfmt.New().
		System("You are an intelligent assistant designed to answer questions based on the provided document context.").
		User("Context:\n%s\n\nQuestion:\n%s\n\nInstructions:\n1. Answer the question specifically using the context provided.\n2. If the answer is not contained in the context, say %q.\n3. Keep the answer concise and professional.\n\nAnswer:",
			contextBlock, question, CannotFindAnswer).
		Build()
	return prompt.String()
}
