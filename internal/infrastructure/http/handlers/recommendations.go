package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
)

const defaultRecommendationLimit = 10

// GenerateRecommendationsRequest is the body of POST /recommendations/generate
type GenerateRecommendationsRequest struct {
	MealType string `json:"meal_type" validate:"omitempty,meal"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// GenerateRecommendations handles POST /api/v1/recommendations/generate
func (h *APIHandlers) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req GenerateRecommendationsRequest
	if err := render.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	meal, _ := recommendation.ParseMealType(req.MealType)
	if req.Limit == 0 {
		req.Limit = defaultRecommendationLimit
	}

	recs, err := h.services.Recommendations.Generate(r.Context(), inbound.GenerateRecommendationsCommand{
		UserID: userID,
		Meal:   meal,
		Limit:  req.Limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.metrics.RecommendationsGenerated(string(meal), len(recs))
	render.JSON(w, http.StatusOK, recs)
}

// ListRecommendations handles GET /api/v1/recommendations
func (h *APIHandlers) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	recs, err := h.services.Recommendations.List(r.Context(), userID, queryInt(r, "limit", defaultRecommendationLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, recs)
}

// AcceptRecommendation handles POST /api/v1/recommendations/{id}/accept
func (h *APIHandlers) AcceptRecommendation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.services.Recommendations.Accept, "accepted")
}

// RejectRecommendation handles POST /api/v1/recommendations/{id}/reject
func (h *APIHandlers) RejectRecommendation(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.services.Recommendations.Reject, "rejected")
}

type responder func(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.RecommendationDTO, error)

func (h *APIHandlers) respond(w http.ResponseWriter, r *http.Request, record responder, outcome string) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recID, err := pathUUID(chi.URLParam(r, "id"), "recommendation id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec, err := record(r.Context(), recID, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.metrics.RecommendationResponded(outcome)
	render.JSON(w, http.StatusOK, rec)
}

// ExplainRecommendation handles GET /api/v1/recommendations/{id}/explain
func (h *APIHandlers) ExplainRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recID, err := pathUUID(chi.URLParam(r, "id"), "recommendation id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	explanation, err := h.services.Recommendations.Explain(r.Context(), recID, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, explanation)
}
