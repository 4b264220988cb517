package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/langtools/langtools-api/internal/domain"
)

// Generator produces the meanings of a headword.
type Generator interface {
	// GenerateEntry returns the meanings of headword in sourceLanguage,
	// translated into targetLanguage. Returned meanings carry positional
	// IDs assigned by NormalizeMeanings.
	GenerateEntry(ctx context.Context, headword, sourceLanguage, targetLanguage string) ([]domain.Meaning, error)
}

// MeaningID returns the ID of the meaning at position i.
func MeaningID(i int) string {
	return fmt.Sprintf("m%d", i+1)
}

// NormalizeMeanings trims the generated fields, drops meanings without a
// definition and assigns positional IDs. A regenerated entry therefore keeps
// the IDs of every position that still exists.
func NormalizeMeanings(raw []domain.Meaning) ([]domain.Meaning, error) {
	out := make([]domain.Meaning, 0, len(raw))
	for _, m := range raw {
		def := strings.TrimSpace(m.Definition)
		if def == "" {
			continue
		}
		out = append(out, domain.Meaning{
			ID:           MeaningID(len(out)),
			PartOfSpeech: strings.ToLower(strings.TrimSpace(m.PartOfSpeech)),
			Definition:   def,
			Translations: trimAll(m.Translations),
			Examples:     trimAll(m.Examples),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable meanings", ErrInvalidResponse)
	}
	return out, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
