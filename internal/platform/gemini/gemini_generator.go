package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/langtools/langtools-api/internal/config"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/generation"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var promptText string

// contentGenerator is the subset of *genai.Models used by the generator.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger  *slog.Logger
	config  config.LLMConfig
	prompt  *template.Template
	models  contentGenerator
	breaker *gobreaker.CircuitBreaker
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a Gemini API client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.BreakerMaxFailures == 0 {
		return nil, fmt.Errorf("%w: breaker max failures must be positive", generation.ErrInvalidConfig)
	}

	prompt, err := template.New("entry").Parse(promptText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	log := logger.With(slog.String("component", "gemini_generator"))
	maxFailures := cfg.BreakerMaxFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, generation.ErrContentBlocked) ||
				errors.Is(err, generation.ErrInvalidResponse)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &GeminiGenerator{
		logger:  log,
		config:  cfg,
		prompt:  prompt,
		models:  models,
		breaker: breaker,
	}, nil
}

// GenerateEntry implements generation.Generator.
func (g *GeminiGenerator) GenerateEntry(
	ctx context.Context,
	headword, sourceLanguage, targetLanguage string,
) ([]domain.Meaning, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	prompt, err := g.createPrompt(headword, sourceLanguage, targetLanguage)
	if err != nil {
		return nil, err
	}

	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.call(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn("gemini call rejected by circuit breaker", slog.String("state", g.breaker.State().String()))
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		log.Error("gemini call failed", slog.String("error", err.Error()))
		return nil, err
	}

	meanings, err := parseResponse(result.(string))
	if err != nil {
		log.Warn("unusable gemini response", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("dictionary entry generated",
		slog.String("headword", headword),
		slog.Int("meanings", len(meanings)))
	return meanings, nil
}

func (g *GeminiGenerator) createPrompt(headword, sourceLanguage, targetLanguage string) (string, error) {
	headword = strings.TrimSpace(headword)
	if headword == "" {
		return "", ErrEmptyHeadword
	}

	var buf bytes.Buffer
	if err := g.prompt.Execute(&buf, promptData{
		Headword:       headword,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// call performs one model request and returns the raw response text.
func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// parseResponse decodes the model's JSON answer into normalized meanings.
func parseResponse(text string) ([]domain.Meaning, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var resp responseSchema
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	raw := make([]domain.Meaning, len(resp.Meanings))
	for i, m := range resp.Meanings {
		raw[i] = domain.Meaning{
			PartOfSpeech: m.PartOfSpeech,
			Definition:   m.Definition,
			Translations: m.Translations,
			Examples:     m.Examples,
		}
	}
	return generation.NormalizeMeanings(raw)
}
