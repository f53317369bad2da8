package chat

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/chat"
	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	// RecommendationLimit is how many foods a recommendation reply names
	RecommendationLimit = 3
	// BudgetOptionLimit is how many foods a budget reply names
	BudgetOptionLimit = 5
	// DefaultHistoryLimit applies when History is called without a limit
	DefaultHistoryLimit = 10
	maxHistoryLimit     = 100
	maxMessageLength    = 1000

	budgetShareOfDailyBudget = 0.15
)

// Service answers user messages and keeps the conversation history
type Service struct {
	classifier  *IntentClassifier
	catalog     outbound.FoodCatalog
	profiles    outbound.ProfileRepository
	recommender inbound.RecommendationService
	history     outbound.ChatHistoryRepository
	limiter     *UserLimiter
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new chat service. A nil limiter disables throttling.
func NewService(
	classifier *IntentClassifier,
	catalog outbound.FoodCatalog,
	profiles outbound.ProfileRepository,
	recommender inbound.RecommendationService,
	history outbound.ChatHistoryRepository,
	limiter *UserLimiter,
	logger *zap.Logger,
) *Service {
	return &Service{
		classifier:  classifier,
		catalog:     catalog,
		profiles:    profiles,
		recommender: recommender,
		history:     history,
		limiter:     limiter,
		logger:      logger.Named("chat-service"),
		now:         time.Now,
	}
}

var _ inbound.ChatService = (*Service)(nil)

// ProcessMessage classifies the message, builds a reply for the user's
// profile and stores the exchange. History write failures do not fail the
// reply.
func (s *Service) ProcessMessage(ctx context.Context, userID uuid.UUID, message string) (*inbound.ChatReplyDTO, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.NewValidationError("message is required")
	}
	if len(message) > maxMessageLength {
		return nil, errors.NewValidationError(fmt.Sprintf("message must be at most %d characters", maxMessageLength))
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return nil, errors.NewTooManyRequestsError()
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("load profile", err)
	}

	items, err := s.catalog.All(ctx)
	if err != nil {
		s.logger.Warn("Catalog unavailable for entity matching", zap.Error(err))
	}

	intent := s.classifier.Classify(message)
	entities := ExtractEntities(message, items)
	response := s.respond(ctx, *profile, intent, entities, items)

	exchange := chat.Exchange{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Response:  response,
		Intent:    intent,
		Entities:  entities,
		CreatedAt: s.now(),
	}
	if err := s.history.Append(ctx, exchange); err != nil {
		s.logger.Error("Failed to store chat exchange",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	s.logger.Debug("Message processed",
		zap.String("user_id", userID.String()),
		zap.String("intent", string(intent)),
	)

	return &inbound.ChatReplyDTO{Response: response, Intent: intent, Entities: entities}, nil
}

// History returns the user's most recent exchanges, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]inbound.ChatExchangeDTO, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	exchanges, err := s.history.Recent(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("load chat history", err)
	}

	out := make([]inbound.ChatExchangeDTO, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, inbound.ChatExchangeDTO{
			ID:        e.ID,
			Message:   e.Message,
			Response:  e.Response,
			Intent:    e.Intent,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) respond(ctx context.Context, profile user.Profile, intent chat.Intent, entities chat.Entities, items []food.Item) string {
	switch intent {
	case chat.IntentGreeting:
		return fmt.Sprintf("Hello %s! I'm ZOE, your nutrition assistant. How can I help you today? "+
			"I can help with food recommendations, nutrition advice, diabetes management, and more!", profile.DisplayName())
	case chat.IntentFoodRecommendation:
		return s.recommend(ctx, profile, entities)
	case chat.IntentNutritionInfo:
		return nutritionReply(entities, items)
	case chat.IntentDiabetesAdvice:
		return diabetesReply(profile)
	case chat.IntentWeightManagement:
		return weightReply(profile)
	case chat.IntentBudget:
		return s.budget(ctx, profile)
	case chat.IntentRecipe:
		if entities.Food != nil {
			return fmt.Sprintf("I can help you with recipes for %s. Here's a simple preparation tip: focus on steaming, "+
				"boiling, or grilling to preserve nutrients. Would you like more specific cooking instructions?", *entities.Food)
		}
		return "Which food would you like a recipe for? I can provide cooking tips and preparation methods."
	case chat.IntentGoodbye:
		return "You're welcome! Feel free to ask me anything about nutrition anytime. Stay healthy!"
	default:
		return "I'm here to help with nutrition and dietary advice. You can ask me about:\n" +
			"- Food recommendations\n" +
			"- Nutritional information\n" +
			"- Diabetes management\n" +
			"- Weight management\n" +
			"- Budget-friendly options\n" +
			"What would you like to know?"
	}
}

func (s *Service) recommend(ctx context.Context, profile user.Profile, entities chat.Entities) string {
	meal := recommendation.MealAll
	if entities.MealType != nil {
		meal = *entities.MealType
	}

	recs, err := s.recommender.Generate(ctx, inbound.GenerateRecommendationsCommand{
		UserID: profile.ID,
		Meal:   meal,
		Limit:  RecommendationLimit,
	})
	if err != nil {
		s.logger.Warn("Recommendations unavailable for chat", zap.String("user_id", profile.ID.String()), zap.Error(err))
	}
	if len(recs) == 0 {
		return "I'm having trouble finding recommendations right now. Please check your profile settings."
	}

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		if rec.Food != nil {
			names = append(names, rec.Food.Name)
		}
	}
	reply := fmt.Sprintf("Based on your profile, I recommend: %s. ", strings.Join(names, ", "))
	if recs[0].Reasoning != "" {
		reply += "Reason: " + recs[0].Reasoning
	}
	return reply
}

func (s *Service) budget(ctx context.Context, profile user.Profile) string {
	const fallback = "I can help you find affordable foods. Please set your monthly budget in your profile settings."

	daily, ok := profile.DailyBudget()
	if !ok {
		return fallback
	}
	ceiling := daily * budgetShareOfDailyBudget
	items, err := s.catalog.Query(ctx, food.Filter{MaxPrice: &ceiling})
	if err != nil {
		s.logger.Warn("Budget lookup failed", zap.String("user_id", profile.ID.String()), zap.Error(err))
		return fallback
	}
	if len(items) == 0 {
		return fallback
	}
	if len(items) > BudgetOptionLimit {
		items = items[:BudgetOptionLimit]
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return fmt.Sprintf("Based on your budget of %s UGX/month, here are affordable options: %s",
		formatUGX(*profile.MonthlyBudget), strings.Join(names, ", "))
}

func nutritionReply(entities chat.Entities, items []food.Item) string {
	if entities.Food == nil {
		return "Which food would you like to know about? I can provide detailed nutritional information."
	}
	for _, item := range items {
		if entities.FoodID != nil && item.ID == *entities.FoodID {
			return formatNutrition(item)
		}
	}
	return fmt.Sprintf("I don't have information about %s in my database. Could you try a different food?", *entities.Food)
}

func formatNutrition(item food.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nutritional information for %s (per 100g):\n\n", item.Name)

	n := item.Nutrients
	facts := []struct {
		label string
		value *float64
		unit  string
	}{
		{"Calories", n.Calories, " kcal"},
		{"Protein", n.Protein, "g"},
		{"Carbohydrates", n.Carbohydrates, "g"},
		{"Fiber", n.Fiber, "g"},
		{"Fat", n.Fat, "g"},
		{"Glycemic Index", n.GlycemicIndex, ""},
		{"Vitamin C", n.VitaminC, "mg"},
		{"Iron", n.Iron, "mg"},
	}
	for _, fact := range facts {
		if fact.value != nil && *fact.value != 0 {
			fmt.Fprintf(&b, "%s: %s%s\n", fact.label, strconv.FormatFloat(*fact.value, 'f', -1, 64), fact.unit)
		}
	}

	if item.Price != nil && *item.Price != 0 {
		fmt.Fprintf(&b, "\nCurrent price: %s UGX per %s", formatUGX(*item.Price), item.PriceUnit)
	}
	return b.String()
}

func diabetesReply(profile user.Profile) string {
	if !profile.HasDiabetes {
		return "I notice you don't have diabetes in your profile. Would you like to update your health information?"
	}

	reply := "For diabetes management, I recommend:\n" +
		"1. Choose foods with low glycemic index (GI < 55)\n" +
		"2. Monitor your blood sugar regularly\n" +
		"3. Eat balanced meals with protein, fiber, and healthy carbs\n" +
		"4. Avoid high-sugar foods and refined carbohydrates\n\n"

	switch profile.DiabetesType {
	case user.DiabetesType1:
		reply += "For Type 1 diabetes, make sure to coordinate with your medical provider for insulin dosing."
	case user.DiabetesType2:
		reply += "For Type 2 diabetes, focus on lifestyle changes and medication adherence."
	}
	return reply
}

func weightReply(profile user.Profile) string {
	switch profile.PrimaryGoal {
	case user.GoalLoseWeight:
		return "For weight loss, I recommend:\n- Low-calorie, high-fiber foods\n- Lean proteins\n- Plenty of vegetables\n- Portion control\n- Regular physical activity"
	case user.GoalGainWeight:
		return "For healthy weight gain, I recommend:\n- Calorie-dense foods\n- High-protein options\n- Healthy fats\n- Regular meals and snacks"
	default:
		return "I can help you with weight management. Would you like to set a weight goal in your profile?"
	}
}

func formatUGX(amount float64) string {
	return humanize.Comma(int64(math.Round(amount)))
}
