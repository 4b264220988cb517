package gemini

import "errors"

// ErrEmptyHeadword is returned when GenerateEntry is called without a headword.
var ErrEmptyHeadword = errors.New("headword cannot be empty")
