// ABOUTME: Inspiration service that never fails
// ABOUTME: Caches normalized prompts and falls back to a static list on any error

package inspiration

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/humor/internal/cache"
)

// FallbackCategory labels the static prompts.
const FallbackCategory = "Prompt"

// cacheKey is the single key prompts are cached under.
const cacheKey = "prompts"

// Fallback returns the static prompts served whenever the source cannot.
func Fallback() []Prompt {
	return []Prompt{
		{Headline: "Write about the last small thing that surprised you.", Category: FallbackCategory},
		{Headline: "Describe a local place that feels like a hidden world.", Category: FallbackCategory},
		{Headline: "What would your future self thank you for writing today?", Category: FallbackCategory},
		{Headline: "Tell a story that starts with a sound you heard this week.", Category: FallbackCategory},
		{Headline: "Pick one belief you changed your mind about and why.", Category: FallbackCategory},
	}
}

// Config configures a Service.
type Config struct {
	Source Source

	// Limit caps the number of prompts returned. Zero means no cap.
	Limit int

	// CacheTTL keeps successful results this long. Zero disables caching.
	CacheTTL time.Duration

	Logger *slog.Logger
}

// Service turns a Source into a list of prompts.
type Service struct {
	source Source
	limit  int
	cache  *cache.Cache[[]Prompt]
	logger *slog.Logger
}

// NewService creates a Service. Close releases the cache goroutine.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		source: cfg.Source,
		limit:  cfg.Limit,
		logger: logger.With("component", "inspiration"),
	}
	if cfg.CacheTTL > 0 {
		s.cache = cache.New[[]Prompt](cfg.CacheTTL, 1)
	}
	return s
}

// Prompts returns current prompts. Source failures, malformed payloads and
// empty results all produce the fallback list; this method has no error path.
func (s *Service) Prompts(ctx context.Context) []Prompt {
	if s.cache != nil {
		if prompts, ok := s.cache.Get(cacheKey); ok {
			return clonePrompts(prompts)
		}
	}

	prompts, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch inspiration, using fallback", "error", err)
		return Fallback()
	}
	if len(prompts) == 0 {
		s.logger.Debug("inspiration source returned nothing, using fallback")
		return Fallback()
	}

	if s.limit > 0 && len(prompts) > s.limit {
		prompts = prompts[:s.limit]
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, prompts)
	}
	return clonePrompts(prompts)
}

func (s *Service) fetch(ctx context.Context) ([]Prompt, error) {
	if s.source == nil {
		return nil, ErrNoCommand
	}
	payload, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(payload)
}

// Close stops the cache cleanup goroutine.
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

func clonePrompts(p []Prompt) []Prompt {
	out := make([]Prompt, len(p))
	copy(out, p)
	return out
}
