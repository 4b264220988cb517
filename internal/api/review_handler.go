package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/langtools/langtools-api/internal/api/shared"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/domain/srs"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/service/review"
)

// ReviewHandler handles due lists, review submission and previews.
type ReviewHandler struct {
	reviews   review.Service
	scheduler srs.Service
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewHandler creates a ReviewHandler. scheduler is used to report the
// retrievability of due items.
func NewReviewHandler(reviews review.Service, scheduler srs.Service, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviews:   reviews,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "review_handler")),
		now:       time.Now,
	}
}

// ListDue handles GET /api/reviews/due?limit=N.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit: must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.reviews.ListDue(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	now := h.now()
	resp := DueResponse{Items: make([]DueItemResponse, 0, len(items))}
	for _, item := range items {
		training := trainingToResponse(item.Training)
		if !item.Training.Training.IsNew() {
			if p, err := h.scheduler.Retrievability(item.Training.Training, now); err == nil {
				training.Retrievability = &p
			}
		}
		resp.Items = append(resp.Items, DueItemResponse{
			Headword: item.Headword,
			Meaning:  meaningToResponse(item.Meaning),
			Training: training,
		})
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("due items listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(resp.Items)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitReview handles POST /api/reviews/{id}.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	trainingID, ok := pathUUID(w, r, "id", "Training")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.reviews.SubmitReview(r.Context(), userID, trainingID, review.Answer{
		Rating:     domain.Rating(req.Rating),
		ReviewTime: req.ReviewTime,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trainingToResponse(record))
}

// Preview handles GET /api/reviews/{id}/preview.
func (h *ReviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	trainingID, ok := pathUUID(w, r, "id", "Training")
	if !ok {
		return
	}

	outcomes, err := h.reviews.Preview(r.Context(), userID, trainingID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, previewToResponse(trainingID.String(), outcomes))
}
