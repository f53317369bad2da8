// Package recommendation contains the recommendation aggregate
package recommendation

import (
	"time"

	"github.com/google/uuid"
	"github.com/zoenutrition/zoe/internal/domain/shared"
)

const (
	// TypeHybrid marks recommendations produced by rule scoring plus an optional model
	TypeHybrid = "hybrid"
	// ModelVersion is recorded on every recommendation produced by this build
	ModelVersion = "v1.0"
)

// Acceptance is the user's response to a recommendation
type Acceptance int8

const (
	AcceptanceUnset Acceptance = iota
	AcceptanceAccepted
	AcceptanceRejected
)

// String implements fmt.Stringer
func (a Acceptance) String() string {
	switch a {
	case AcceptanceAccepted:
		return "accepted"
	case AcceptanceRejected:
		return "rejected"
	default:
		return "unset"
	}
}

// Recommendation is the aggregate root for a suggested food.
// (UserID, FoodID, MealSuggestion) identifies it uniquely.
type Recommendation struct {
	shared.AggregateRoot

	id            uuid.UUID
	userID        uuid.UUID
	foodID        int64
	meal          MealType
	kind          string
	confidence    float64
	reasoning     string
	servingSize   float64
	estimatedCost float64
	modelVersion  string
	featuresUsed  string
	acceptance    Acceptance
	createdAt     time.Time
}

// Params carries the values needed to create a recommendation
type Params struct {
	UserID        uuid.UUID
	FoodID        int64
	Meal          MealType
	Confidence    float64
	Reasoning     string
	ServingSize   float64
	EstimatedCost float64
	FeaturesUsed  string
	CreatedAt     time.Time
}

// NewRecommendation creates a new hybrid recommendation
func NewRecommendation(p Params) (*Recommendation, error) {
	if p.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if p.FoodID <= 0 {
		return nil, ErrMissingFood
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return nil, ErrInvalidConfidence
	}
	if p.Meal == "" {
		p.Meal = MealAll
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	r := &Recommendation{
		id:            uuid.New(),
		userID:        p.UserID,
		foodID:        p.FoodID,
		meal:          p.Meal,
		kind:          TypeHybrid,
		confidence:    p.Confidence,
		reasoning:     p.Reasoning,
		servingSize:   p.ServingSize,
		estimatedCost: p.EstimatedCost,
		modelVersion:  ModelVersion,
		featuresUsed:  p.FeaturesUsed,
		createdAt:     p.CreatedAt,
	}

	r.AddEvent(RecommendationCreatedEvent{
		RecommendationID: r.id,
		UserID:           r.userID,
		FoodID:           r.foodID,
		Confidence:       r.confidence,
		CreatedAt:        r.createdAt,
	})

	return r, nil
}

// Snapshot is the persisted form of a recommendation
type Snapshot struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FoodID        int64
	Meal          MealType
	Type          string
	Confidence    float64
	Reasoning     string
	ServingSize   float64
	EstimatedCost float64
	ModelVersion  string
	FeaturesUsed  string
	Acceptance    Acceptance
	CreatedAt     time.Time
}

// Restore rebuilds a recommendation from storage without raising events
func Restore(s Snapshot) *Recommendation {
	return &Recommendation{
		id:            s.ID,
		userID:        s.UserID,
		foodID:        s.FoodID,
		meal:          s.Meal,
		kind:          s.Type,
		confidence:    s.Confidence,
		reasoning:     s.Reasoning,
		servingSize:   s.ServingSize,
		estimatedCost: s.EstimatedCost,
		modelVersion:  s.ModelVersion,
		featuresUsed:  s.FeaturesUsed,
		acceptance:    s.Acceptance,
		createdAt:     s.CreatedAt,
	}
}

// Snapshot exports the recommendation for storage
func (r *Recommendation) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.id,
		UserID:        r.userID,
		FoodID:        r.foodID,
		Meal:          r.meal,
		Type:          r.kind,
		Confidence:    r.confidence,
		Reasoning:     r.reasoning,
		ServingSize:   r.servingSize,
		EstimatedCost: r.estimatedCost,
		ModelVersion:  r.modelVersion,
		FeaturesUsed:  r.featuresUsed,
		Acceptance:    r.acceptance,
		CreatedAt:     r.createdAt,
	}
}

// Accept records a positive response from the owning user
func (r *Recommendation) Accept(userID uuid.UUID, at time.Time) error {
	return r.respond(userID, AcceptanceAccepted, at)
}

// Reject records a negative response from the owning user
func (r *Recommendation) Reject(userID uuid.UUID, at time.Time) error {
	return r.respond(userID, AcceptanceRejected, at)
}

func (r *Recommendation) respond(userID uuid.UUID, a Acceptance, at time.Time) error {
	if userID != r.userID {
		return ErrNotOwner
	}
	r.acceptance = a
	r.AddEvent(RecommendationRespondedEvent{
		RecommendationID: r.id,
		UserID:           r.userID,
		Acceptance:       a,
		RespondedAt:      at,
	})
	return nil
}

// Getters

func (r *Recommendation) ID() uuid.UUID          { return r.id }
func (r *Recommendation) UserID() uuid.UUID      { return r.userID }
func (r *Recommendation) FoodID() int64          { return r.foodID }
func (r *Recommendation) Meal() MealType         { return r.meal }
func (r *Recommendation) Type() string           { return r.kind }
func (r *Recommendation) Confidence() float64    { return r.confidence }
func (r *Recommendation) Reasoning() string      { return r.reasoning }
func (r *Recommendation) ServingSize() float64   { return r.servingSize }
func (r *Recommendation) EstimatedCost() float64 { return r.estimatedCost }
func (r *Recommendation) ModelVersion() string   { return r.modelVersion }
func (r *Recommendation) FeaturesUsed() string   { return r.featuresUsed }
func (r *Recommendation) Acceptance() Acceptance { return r.acceptance }
func (r *Recommendation) CreatedAt() time.Time   { return r.createdAt }
