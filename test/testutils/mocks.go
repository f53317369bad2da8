// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// MockRecommendationStore provides a mock implementation of RecommendationStore
type MockRecommendationStore struct {
	mock.Mock
}

func (m *MockRecommendationStore) FindExisting(ctx context.Context, userID uuid.UUID, foodID int64, meal recommendation.MealType) (*recommendation.Recommendation, error) {
	args := m.Called(ctx, userID, foodID, meal)
	rec, _ := args.Get(0).(*recommendation.Recommendation)
	return rec, args.Error(1)
}

func (m *MockRecommendationStore) Save(ctx context.Context, rec *recommendation.Recommendation) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockRecommendationStore) FindByID(ctx context.Context, id uuid.UUID) (*recommendation.Recommendation, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*recommendation.Recommendation)
	return rec, args.Error(1)
}

func (m *MockRecommendationStore) UpdateAcceptance(ctx context.Context, id uuid.UUID, acceptance recommendation.Acceptance) error {
	return m.Called(ctx, id, acceptance).Error(0)
}

func (m *MockRecommendationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*recommendation.Recommendation, error) {
	args := m.Called(ctx, userID, limit)
	recs, _ := args.Get(0).([]*recommendation.Recommendation)
	return recs, args.Error(1)
}

// MockProfileRepository provides a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*user.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *user.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

// MockConsumptionRepository provides a mock implementation of ConsumptionRepository
type MockConsumptionRepository struct {
	mock.Mock
}

func (m *MockConsumptionRepository) Record(ctx context.Context, userID uuid.UUID, entry user.Consumption) error {
	return m.Called(ctx, userID, entry).Error(0)
}

func (m *MockConsumptionRepository) LastN(ctx context.Context, userID uuid.UUID, n int) ([]user.Consumption, error) {
	args := m.Called(ctx, userID, n)
	entries, _ := args.Get(0).([]user.Consumption)
	return entries, args.Error(1)
}

// MockPriceSource provides a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) Name() string { return "mock" }

func (m *MockPriceSource) Fetch(ctx context.Context, item food.Item) (food.PriceQuote, error) {
	args := m.Called(ctx, item)
	quote, _ := args.Get(0).(food.PriceQuote)
	return quote, args.Error(1)
}

// MockChatHistoryRepository provides a mock implementation of ChatHistoryRepository
type MockChatHistoryRepository struct {
	mock.Mock
}

func (m *MockChatHistoryRepository) Append(ctx context.Context, exchange chat.Exchange) error {
	return m.Called(ctx, exchange).Error(0)
}

func (m *MockChatHistoryRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]chat.Exchange, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]chat.Exchange)
	return out, args.Error(1)
}

// MockRecommendationService provides a mock implementation of the inbound RecommendationService
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Generate(ctx context.Context, cmd inbound.GenerateRecommendationsCommand) ([]inbound.RecommendationDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).([]inbound.RecommendationDTO)
	return out, args.Error(1)
}

func (m *MockRecommendationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]inbound.RecommendationDTO, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]inbound.RecommendationDTO)
	return out, args.Error(1)
}

func (m *MockRecommendationService) Accept(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.RecommendationDTO, error) {
	args := m.Called(ctx, recommendationID, userID)
	out, _ := args.Get(0).(*inbound.RecommendationDTO)
	return out, args.Error(1)
}

func (m *MockRecommendationService) Reject(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.RecommendationDTO, error) {
	args := m.Called(ctx, recommendationID, userID)
	out, _ := args.Get(0).(*inbound.RecommendationDTO)
	return out, args.Error(1)
}

func (m *MockRecommendationService) Explain(ctx context.Context, recommendationID, userID uuid.UUID) (*inbound.ExplanationDTO, error) {
	args := m.Called(ctx, recommendationID, userID)
	out, _ := args.Get(0).(*inbound.ExplanationDTO)
	return out, args.Error(1)
}

// MockMessageBus records published messages
type MockMessageBus struct {
	mu        sync.Mutex
	Published []outbound.Message
	Err       error
}

// NewMockMessageBus creates a new recording bus
func NewMockMessageBus() *MockMessageBus {
	return &MockMessageBus{}
}

func (m *MockMessageBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, message)
	return nil
}

func (m *MockMessageBus) Subscribe(topic string, handler outbound.MessageHandler) {}

// Types returns the message types published so far
func (m *MockMessageBus) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Published))
	for _, msg := range m.Published {
		out = append(out, msg.Type)
	}
	return out
}

var (
	_ outbound.RecommendationStore   = (*MockRecommendationStore)(nil)
	_ outbound.ProfileRepository     = (*MockProfileRepository)(nil)
	_ outbound.ConsumptionRepository = (*MockConsumptionRepository)(nil)
	_ outbound.PriceSource           = (*MockPriceSource)(nil)
	_ outbound.ChatHistoryRepository = (*MockChatHistoryRepository)(nil)
	_ outbound.MessageBus            = (*MockMessageBus)(nil)
	_ inbound.RecommendationService  = (*MockRecommendationService)(nil)
)
