package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{"nil", nil, false, false},
		{"unrelated", errors.New("boom"), false, false},
		{"generic not found", ErrNotFound, true, false},
		{"user not found", ErrUserNotFound, true, false},
		{"wrapped training not found", fmt.Errorf("load: %w", ErrTrainingNotFound), true, false},
		{"entry not found in store error", NewStoreError("entry", "get", "missing", ErrEntryNotFound), true, false},
		{"email exists", ErrEmailExists, false, true},
		{"wrapped training exists", fmt.Errorf("create: %w", ErrTrainingExists), false, true},
		{"version conflict", ErrVersionConflict, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.notFound, IsNotFoundError(tc.err))
			assert.Equal(t, tc.duplicate, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	err := NewStoreError("meaning_training", "update", "stale row", ErrVersionConflict)
	assert.Equal(t, "update operation on meaning_training failed: stale row: version conflict", err.Error())
	assert.ErrorIs(t, err, ErrVersionConflict)

	bare := NewStoreError("user", "create", "invalid", nil)
	assert.Equal(t, "create operation on user failed: invalid", bare.Error())
}
