package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for dictionary entries
var (
	ErrEmptyEntryID        = errors.New("entry ID cannot be empty")
	ErrEmptyEntryUserID    = errors.New("entry user ID cannot be empty")
	ErrEmptyHeadword       = errors.New("headword cannot be empty")
	ErrEmptyLanguage       = errors.New("language cannot be empty")
	ErrNoMeanings          = errors.New("entry must have at least one meaning")
	ErrEmptyMeaningID      = errors.New("meaning ID cannot be empty")
	ErrDuplicateMeaningID  = errors.New("meaning IDs must be unique within an entry")
	ErrEmptyMeaningDefText = errors.New("meaning definition cannot be empty")
)

// Meaning is a single sense of a headword. ID is stable across
// regenerations so training progress survives content updates.
type Meaning struct {
	ID           string   `json:"id"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Definition   string   `json:"definition"`
	Translations []string `json:"translations,omitempty"`
	Examples     []string `json:"examples,omitempty"`
}

// DictionaryEntry is a generated dictionary article owned by one learner.
type DictionaryEntry struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Headword       string    `json:"headword"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Meanings       []Meaning `json:"meanings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewDictionaryEntry creates a validated entry with a fresh ID.
func NewDictionaryEntry(
	userID uuid.UUID,
	headword, sourceLanguage, targetLanguage string,
	meanings []Meaning,
	now time.Time,
) (*DictionaryEntry, error) {
	entry := &DictionaryEntry{
		ID:             uuid.New(),
		UserID:         userID,
		Headword:       strings.TrimSpace(headword),
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		Meanings:       meanings,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the entry has valid data.
func (e *DictionaryEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEntryID
	}
	if e.UserID == uuid.Nil {
		return ErrEmptyEntryUserID
	}
	if e.Headword == "" {
		return ErrEmptyHeadword
	}
	if e.SourceLanguage == "" || e.TargetLanguage == "" {
		return ErrEmptyLanguage
	}
	return ValidateMeanings(e.Meanings)
}

// ValidateMeanings checks that meanings are non-empty and uniquely identified.
func ValidateMeanings(meanings []Meaning) error {
	if len(meanings) == 0 {
		return ErrNoMeanings
	}

	seen := make(map[string]struct{}, len(meanings))
	for _, m := range meanings {
		if m.ID == "" {
			return ErrEmptyMeaningID
		}
		if strings.TrimSpace(m.Definition) == "" {
			return ErrEmptyMeaningDefText
		}
		if _, dup := seen[m.ID]; dup {
			return ErrDuplicateMeaningID
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// MeaningIDs returns the meaning identifiers in entry order.
func (e *DictionaryEntry) MeaningIDs() []string {
	ids := make([]string, len(e.Meanings))
	for i, m := range e.Meanings {
		ids[i] = m.ID
	}
	return ids
}

// FindMeaning returns the meaning with the given ID, if present.
func (e *DictionaryEntry) FindMeaning(id string) (Meaning, bool) {
	for _, m := range e.Meanings {
		if m.ID == id {
			return m, true
		}
	}
	return Meaning{}, false
}
