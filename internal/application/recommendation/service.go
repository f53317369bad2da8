// Package recommendation provides the application layer for food recommendations
package recommendation

import (
	"context"
	stderrors "errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/application/scoring"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/shared"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Service implements the recommendation use cases
type Service struct {
	catalog     outbound.FoodCatalog
	profiles    outbound.ProfileRepository
	consumption outbound.ConsumptionRepository
	store       outbound.RecommendationStore
	engine      *scoring.Engine
	events      outbound.MessageBus
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new recommendation service
func NewService(
	catalog outbound.FoodCatalog,
	profiles outbound.ProfileRepository,
	consumption outbound.ConsumptionRepository,
	store outbound.RecommendationStore,
	engine *scoring.Engine,
	events outbound.MessageBus,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:     catalog,
		profiles:    profiles,
		consumption: consumption,
		store:       store,
		engine:      engine,
		events:      events,
		logger:      logger.Named("recommendation-service"),
		now:         time.Now,
	}
}

var _ inbound.RecommendationService = (*Service)(nil)

// Generate ranks the affordable catalog for the meal and returns up to
// limit recommendations. Catalog or store failures yield an empty result.
func (s *Service) Generate(ctx context.Context, cmd inbound.GenerateRecommendationsCommand) ([]inbound.RecommendationDTO, error) {
	limit := cmd.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	meal := cmd.Meal
	if meal == "" {
		meal = recommendation.MealAll
	}

	profile, err := s.loadProfile(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []inbound.RecommendationDTO{}, nil
	}

	items, err := s.catalog.Query(ctx, food.Filter{AffordableOnly: true, Categories: meal.Categories()})
	if err != nil {
		s.logger.Error("Failed to load candidate foods",
			zap.String("user_id", cmd.UserID.String()),
			zap.String("meal", string(meal)),
			zap.Error(err),
		)
		return []inbound.RecommendationDTO{}, nil
	}
	if len(items) == 0 {
		return []inbound.RecommendationDTO{}, nil
	}

	history, err := s.consumption.LastN(ctx, cmd.UserID, scoring.RecentWindow)
	if err != nil {
		s.logger.Warn("Consumption history unavailable, scoring without it",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
	}

	candidates := s.engine.Rank(*profile, items, meal, scoring.NewRecentSet(history))
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]inbound.RecommendationDTO, 0, len(candidates))
	for _, candidate := range candidates {
		rec, err := s.materialize(ctx, *profile, candidate, meal)
		if err != nil {
			s.logger.Error("Failed to store recommendation",
				zap.String("user_id", cmd.UserID.String()),
				zap.Int64("food_id", candidate.Item.ID),
				zap.Error(err),
			)
			continue
		}
		item := candidate.Item
		out = append(out, inbound.NewRecommendationDTO(rec, &item))
	}

	s.logger.Info("Recommendations generated",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("meal", string(meal)),
		zap.Int("candidates", len(items)),
		zap.Int("returned", len(out)),
	)

	return out, nil
}

// loadProfile returns (nil, nil) when the profile store is unavailable so
// the caller can degrade to an empty result.
func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(userID.String())
	}
	s.logger.Error("Failed to load profile", zap.String("user_id", userID.String()), zap.Error(err))
	return nil, nil
}

// materialize reuses the stored row for (user, food, meal) or inserts a new
// one. A concurrent insert of the same key resolves to the winner's row.
func (s *Service) materialize(ctx context.Context, profile user.Profile, c scoring.Candidate, meal recommendation.MealType) (*recommendation.Recommendation, error) {
	existing, err := s.store.FindExisting(ctx, profile.ID, c.Item.ID, meal)
	if err == nil {
		return existing, nil
	}
	if !stderrors.Is(err, outbound.ErrNotFound) {
		return nil, err
	}

	serving := recommendation.ServingSize(profile.PrimaryGoal)
	rec, err := recommendation.NewRecommendation(recommendation.Params{
		UserID:        profile.ID,
		FoodID:        c.Item.ID,
		Meal:          meal,
		Confidence:    c.Result.Confidence(),
		Reasoning:     c.Result.Reasoning(),
		ServingSize:   serving,
		EstimatedCost: c.Item.CostFor(serving),
		FeaturesUsed:  extractFeatures(profile, c.Item).encode(),
		CreatedAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, rec); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			s.logger.Debug("Recommendation inserted concurrently, reusing stored row",
				zap.String("user_id", profile.ID.String()),
				zap.Int64("food_id", c.Item.ID),
			)
			return s.store.FindExisting(ctx, profile.ID, c.Item.ID, meal)
		}
		return nil, err
	}

	s.publishEvents(ctx, rec.Events())
	return rec, nil
}

// List returns the user's most recent recommendations with their foods
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]inbound.RecommendationDTO, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	recs, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to list recommendations", zap.String("user_id", userID.String()), zap.Error(err))
		return []inbound.RecommendationDTO{}, nil
	}
	return s.withFoods(ctx, recs), nil
}

func (s *Service) withFoods(ctx context.Context, recs []*recommendation.Recommendation) []inbound.RecommendationDTO {
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.FoodID())
	}
	items, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load recommended foods", zap.Error(err))
		items = map[int64]food.Item{}
	}

	out := make([]inbound.RecommendationDTO, 0, len(recs))
	for _, rec := range recs {
		var item *food.Item
		if found, ok := items[rec.FoodID()]; ok {
			item = &found
		}
		out = append(out, inbound.NewRecommendationDTO(rec, item))
	}
	return out
}

// Accept marks a recommendation as accepted by its user
func (s *Service) Accept(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.RecommendationDTO, error) {
	return s.respond(ctx, recommendationID, userID, recommendation.AcceptanceAccepted)
}

// Reject marks a recommendation as rejected by its user
func (s *Service) Reject(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.RecommendationDTO, error) {
	return s.respond(ctx, recommendationID, userID, recommendation.AcceptanceRejected)
}

func (s *Service) respond(ctx context.Context, recommendationID, userID uuid.UUID, acceptance recommendation.Acceptance) (*inbound.RecommendationDTO, error) {
	rec, err := s.findOwned(ctx, recommendationID, userID, "respond to this recommendation")
	if err != nil {
		return nil, err
	}

	if acceptance == recommendation.AcceptanceAccepted {
		err = rec.Accept(userID, s.now())
	} else {
		err = rec.Reject(userID, s.now())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to record response")
	}

	if err := s.store.UpdateAcceptance(ctx, rec.ID(), rec.Acceptance()); err != nil {
		return nil, errors.NewDatabaseError("update recommendation", err)
	}
	s.publishEvents(ctx, rec.Events())

	s.logger.Info("Recommendation response recorded",
		zap.String("recommendation_id", rec.ID().String()),
		zap.String("acceptance", rec.Acceptance().String()),
	)

	dto := s.withFoods(ctx, []*recommendation.Recommendation{rec})[0]
	return &dto, nil
}

// Explain describes the nutritional benefits and suitability of a recommendation
func (s *Service) Explain(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.ExplanationDTO, error) {
	rec, err := s.findOwned(ctx, recommendationID, userID, "view this recommendation")
	if err != nil {
		return nil, err
	}

	item, err := s.catalog.FindByID(ctx, rec.FoodID())
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewFoodNotFoundError(rec.FoodID())
		}
		return nil, errors.NewDatabaseError("load food item", err)
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("load profile", err)
	}

	return explain(rec, *item, *profile), nil
}

func (s *Service) findOwned(ctx context.Context, recommendationID, userID uuid.UUID, action string) (*recommendation.Recommendation, error) {
	rec, err := s.store.FindByID(ctx, recommendationID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecommendationNotFoundError(recommendationID.String())
		}
		return nil, errors.NewDatabaseError("load recommendation", err)
	}
	if rec.UserID() != userID {
		return nil, errors.NewInsufficientPermissionsError(action)
	}
	return rec, nil
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil {
		return
	}
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to encode event", zap.String("event", event.EventName()), zap.Error(err))
			continue
		}
		msg := outbound.Message{
			ID:        uuid.NewString(),
			Type:      event.EventName(),
			Payload:   payload,
			Timestamp: event.OccurredAt(),
		}
		if err := s.events.Publish(ctx, event.EventName(), msg); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}
