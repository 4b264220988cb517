package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for MeaningTraining
var (
	ErrEmptyTrainingID      = errors.New("training ID cannot be empty")
	ErrEmptyTrainingUserID  = errors.New("training user ID cannot be empty")
	ErrEmptyTrainingEntryID = errors.New("training entry ID cannot be empty")
)

// MeaningTraining is the persisted scheduling record of one meaning of a
// dictionary entry. Version is bumped on every store-back and is used for
// optimistic concurrency control.
type MeaningTraining struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	EntryID   uuid.UUID     `json:"entry_id"`
	MeaningID string        `json:"meaning_id"`
	Training  TrainingState `json:"training"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewMeaningTraining creates a record for a meaning that was just persisted.
func NewMeaningTraining(userID, entryID uuid.UUID, meaningID string, training TrainingState, now time.Time) (*MeaningTraining, error) {
	mt := &MeaningTraining{
		ID:        uuid.New(),
		UserID:    userID,
		EntryID:   entryID,
		MeaningID: meaningID,
		Training:  training,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := mt.Validate(); err != nil {
		return nil, err
	}

	return mt, nil
}

// Validate checks identifiers and the embedded training state.
func (m *MeaningTraining) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyTrainingID
	}
	if m.UserID == uuid.Nil {
		return ErrEmptyTrainingUserID
	}
	if m.EntryID == uuid.Nil {
		return ErrEmptyTrainingEntryID
	}
	if m.MeaningID == "" {
		return ErrEmptyMeaningID
	}
	return m.Training.Validate()
}

// DueItem is a training record joined with the content a learner reviews.
type DueItem struct {
	Training *MeaningTraining `json:"training"`
	Headword string           `json:"headword"`
	Meaning  Meaning          `json:"meaning"`
}
