package api

import (
	"time"

	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/service"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries an access token.
type AuthResponse struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreateEntryRequest is the body of POST /api/entries.
type CreateEntryRequest struct {
	Headword       string `json:"headword"        validate:"required,max=200"`
	SourceLanguage string `json:"source_language" validate:"required,max=64"`
	TargetLanguage string `json:"target_language" validate:"required,max=64"`
}

// MeaningResponse is one meaning of an entry.
type MeaningResponse struct {
	ID           string   `json:"id"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Definition   string   `json:"definition"`
	Translations []string `json:"translations,omitempty"`
	Examples     []string `json:"examples,omitempty"`
}

// TrainingResponse is a meaning's scheduling record. State is the lower-case
// state name.
type TrainingResponse struct {
	ID             string     `json:"id"`
	EntryID        string     `json:"entry_id"`
	MeaningID      string     `json:"meaning_id"`
	State          string     `json:"state"`
	Step           int        `json:"step"`
	Due            time.Time  `json:"due"`
	Stability      *float64   `json:"stability"`
	Difficulty     *float64   `json:"difficulty"`
	LastReview     *time.Time `json:"last_review"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	Version        int64      `json:"version"`
	Retrievability *float64   `json:"retrievability,omitempty"`
}

// EntryResponse is an entry with the training records of its meanings.
type EntryResponse struct {
	ID             string             `json:"id"`
	Headword       string             `json:"headword"`
	SourceLanguage string             `json:"source_language"`
	TargetLanguage string             `json:"target_language"`
	Meanings       []MeaningResponse  `json:"meanings"`
	Training       []TrainingResponse `json:"training"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SubmitReviewRequest is the body of POST /api/reviews/{id}. Rating is
// 1 (again) to 4 (easy).
type SubmitReviewRequest struct {
	Rating     int        `json:"rating"      validate:"required,gte=1,lte=4"`
	ReviewTime *time.Time `json:"review_time"`
}

// DueItemResponse is one meaning waiting for review.
type DueItemResponse struct {
	Headword string           `json:"headword"`
	Meaning  MeaningResponse  `json:"meaning"`
	Training TrainingResponse `json:"training"`
}

// DueResponse lists due items.
type DueResponse struct {
	Items []DueItemResponse `json:"items"`
}

// PreviewOutcome is the state a rating would lead to.
type PreviewOutcome struct {
	State      string    `json:"state"`
	Step       int       `json:"step"`
	Due        time.Time `json:"due"`
	Stability  *float64  `json:"stability"`
	Difficulty *float64  `json:"difficulty"`
}

// PreviewResponse maps rating names (again, hard, good, easy) to outcomes.
type PreviewResponse struct {
	TrainingID string                    `json:"training_id"`
	Outcomes   map[string]PreviewOutcome `json:"outcomes"`
}

func meaningToResponse(m domain.Meaning) MeaningResponse {
	return MeaningResponse{
		ID:           m.ID,
		PartOfSpeech: m.PartOfSpeech,
		Definition:   m.Definition,
		Translations: m.Translations,
		Examples:     m.Examples,
	}
}

func trainingToResponse(r *domain.MeaningTraining) TrainingResponse {
	t := r.Training
	return TrainingResponse{
		ID:         r.ID.String(),
		EntryID:    r.EntryID.String(),
		MeaningID:  r.MeaningID,
		State:      t.State.String(),
		Step:       t.Step,
		Due:        t.Due,
		Stability:  t.Stability,
		Difficulty: t.Difficulty,
		LastReview: t.LastReview,
		Reps:       t.Reps,
		Lapses:     t.Lapses,
		Version:    r.Version,
	}
}

func entryToResponse(e *service.EntryWithTraining) EntryResponse {
	meanings := make([]MeaningResponse, len(e.Entry.Meanings))
	for i, m := range e.Entry.Meanings {
		meanings[i] = meaningToResponse(m)
	}
	training := make([]TrainingResponse, len(e.Training))
	for i, r := range e.Training {
		training[i] = trainingToResponse(r)
	}
	return EntryResponse{
		ID:             e.Entry.ID.String(),
		Headword:       e.Entry.Headword,
		SourceLanguage: e.Entry.SourceLanguage,
		TargetLanguage: e.Entry.TargetLanguage,
		Meanings:       meanings,
		Training:       training,
		CreatedAt:      e.Entry.CreatedAt,
		UpdatedAt:      e.Entry.UpdatedAt,
	}
}

func previewToResponse(trainingID string, outcomes map[domain.Rating]domain.TrainingState) PreviewResponse {
	resp := PreviewResponse{
		TrainingID: trainingID,
		Outcomes:   make(map[string]PreviewOutcome, len(outcomes)),
	}
	for rating, t := range outcomes {
		resp.Outcomes[rating.String()] = PreviewOutcome{
			State:      t.State.String(),
			Step:       t.Step,
			Due:        t.Due,
			Stability:  t.Stability,
			Difficulty: t.Difficulty,
		}
	}
	return resp
}
