// Package user defines the nutrition profile of a platform user
package user

import (
	"time"

	"github.com/google/uuid"
)

// Goal is the user's primary dietary goal
type Goal string

const (
	GoalLoseWeight    Goal = "lose_weight"
	GoalGainWeight    Goal = "gain_weight"
	GoalHealthyEating Goal = "healthy_eating"
	GoalOther         Goal = "other"
)

// ParseGoal maps free text onto a goal, defaulting to GoalOther
func ParseGoal(s string) Goal {
	switch Goal(s) {
	case GoalLoseWeight, GoalGainWeight, GoalHealthyEating:
		return Goal(s)
	default:
		return GoalOther
	}
}

// DiabetesType distinguishes diabetes variants; empty when not diabetic
type DiabetesType string

const (
	DiabetesType1 DiabetesType = "type1"
	DiabetesType2 DiabetesType = "type2"
)

const daysPerBudgetMonth = 30

// Profile is the snapshot of a user that scoring reads. It is never
// modified while a ranking is computed.
type Profile struct {
	ID            uuid.UUID
	FirstName     string
	HasDiabetes   bool
	DiabetesType  DiabetesType
	PrimaryGoal   Goal
	MonthlyBudget *float64
	Age           *int
	HeightCm      *float64
	WeightKg      *float64

	OfflineMode bool
	LastSync    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DailyBudget is the monthly budget spread over a 30 day month.
// A missing or non-positive budget reports false.
func (p Profile) DailyBudget() (float64, bool) {
	if p.MonthlyBudget == nil || *p.MonthlyBudget <= 0 {
		return 0, false
	}
	return *p.MonthlyBudget / daysPerBudgetMonth, true
}

// BMI computes body mass index when height and weight are both known
func (p Profile) BMI() (float64, bool) {
	if p.HeightCm == nil || p.WeightKg == nil || *p.HeightCm <= 0 {
		return 0, false
	}
	meters := *p.HeightCm / 100
	return *p.WeightKg / (meters * meters), true
}

// DisplayName returns the first name or a neutral fallback
func (p Profile) DisplayName() string {
	if p.FirstName == "" {
		return "there"
	}
	return p.FirstName
}

// GoOffline marks the profile as prepared for offline use
func (p *Profile) GoOffline(at time.Time) {
	p.OfflineMode = true
	p.LastSync = &at
	p.UpdatedAt = at
}

// GoOnline clears the offline flag
func (p *Profile) GoOnline(at time.Time) {
	p.OfflineMode = false
	p.UpdatedAt = at
}

// MarkSynced records a completed synchronisation
func (p *Profile) MarkSynced(at time.Time) {
	p.LastSync = &at
	p.UpdatedAt = at
}

// Consumption is one logged food, newest entries first when listed
type Consumption struct {
	FoodID     int64
	ConsumedAt time.Time
}
