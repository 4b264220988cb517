package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/api/shared"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/service"
	"github.com/langtools/langtools-api/internal/service/auth"
	"github.com/langtools/langtools-api/internal/service/review"
	"github.com/stretchr/testify/mock"
)

var apiNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type mockJWTService struct{ mock.Mock }

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(*auth.Claims)
	return c, args.Error(1)
}

type mockDictionaryService struct{ mock.Mock }

func (m *mockDictionaryService) CreateEntry(
	ctx context.Context,
	userID uuid.UUID,
	req service.CreateEntryRequest,
) (*service.EntryWithTraining, error) {
	args := m.Called(ctx, userID, req)
	e, _ := args.Get(0).(*service.EntryWithTraining)
	return e, args.Error(1)
}

func (m *mockDictionaryService) GetEntry(ctx context.Context, userID, entryID uuid.UUID) (*service.EntryWithTraining, error) {
	args := m.Called(ctx, userID, entryID)
	e, _ := args.Get(0).(*service.EntryWithTraining)
	return e, args.Error(1)
}

func (m *mockDictionaryService) RegenerateEntry(ctx context.Context, userID, entryID uuid.UUID) (*service.EntryWithTraining, error) {
	args := m.Called(ctx, userID, entryID)
	e, _ := args.Get(0).(*service.EntryWithTraining)
	return e, args.Error(1)
}

func (m *mockDictionaryService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

type mockReviewService struct{ mock.Mock }

func (m *mockReviewService) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DueItem, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]*domain.DueItem)
	return items, args.Error(1)
}

func (m *mockReviewService) SubmitReview(
	ctx context.Context,
	userID, trainingID uuid.UUID,
	answer review.Answer,
) (*domain.MeaningTraining, error) {
	args := m.Called(ctx, userID, trainingID, answer)
	r, _ := args.Get(0).(*domain.MeaningTraining)
	return r, args.Error(1)
}

func (m *mockReviewService) Preview(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (map[domain.Rating]domain.TrainingState, error) {
	args := m.Called(ctx, userID, trainingID)
	out, _ := args.Get(0).(map[domain.Rating]domain.TrainingState)
	return out, args.Error(1)
}

// serve routes a request through a chi router so URL parameters resolve.
// A non-nil userID is placed in the request context.
func serve(
	t *testing.T,
	pattern, method, target, body string,
	userID uuid.UUID,
	h http.HandlerFunc,
) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testEntry(userID uuid.UUID) *service.EntryWithTraining {
	entry := &domain.DictionaryEntry{
		ID:             uuid.New(),
		UserID:         userID,
		Headword:       "banco",
		SourceLanguage: "es",
		TargetLanguage: "en",
		Meanings: []domain.Meaning{
			{ID: "m1", PartOfSpeech: "noun", Definition: "bank", Translations: []string{"bank"}},
			{ID: "m2", PartOfSpeech: "noun", Definition: "bench", Translations: []string{"bench"}},
		},
		CreatedAt: apiNow,
		UpdatedAt: apiNow,
	}
	training := make([]*domain.MeaningTraining, len(entry.Meanings))
	for i, m := range entry.Meanings {
		training[i] = &domain.MeaningTraining{
			ID:        uuid.New(),
			UserID:    userID,
			EntryID:   entry.ID,
			MeaningID: m.ID,
			Training:  domain.NewTrainingState(apiNow),
			Version:   1,
			CreatedAt: apiNow,
			UpdatedAt: apiNow,
		}
	}
	return &service.EntryWithTraining{Entry: entry, Training: training}
}
