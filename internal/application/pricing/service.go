// Package pricing maintains market prices and estimates meal costs
package pricing

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	Currency = "UGX"

	DefaultTrendDays       = 30
	maxTrendDays           = 365
	DefaultAffordableLimit = 20
	maxAffordableLimit     = 100
)

// Options tunes the update job
type Options struct {
	// UpdateInterval is how old a price must be before it is refreshed
	UpdateInterval time.Duration
	// FetchTimeout bounds each call to the price source
	FetchTimeout time.Duration
}

// DefaultOptions refreshes daily with a five second source timeout
func DefaultOptions() Options {
	return Options{UpdateInterval: 24 * time.Hour, FetchTimeout: 5 * time.Second}
}

// Service implements inbound.PriceService
type Service struct {
	catalog outbound.FoodCatalog
	history outbound.PriceHistoryRepository
	source  outbound.PriceSource
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new price service
func NewService(
	catalog outbound.FoodCatalog,
	history outbound.PriceHistoryRepository,
	source outbound.PriceSource,
	opts Options,
	logger *zap.Logger,
) *Service {
	defaults := DefaultOptions()
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = defaults.UpdateInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaults.FetchTimeout
	}
	return &Service{
		catalog: catalog,
		history: history,
		source:  source,
		opts:    opts,
		logger:  logger.Named("price-service"),
		now:     time.Now,
	}
}

var _ inbound.PriceService = (*Service)(nil)

// UpdatePrices refreshes every item whose price is older than the update
// interval, or every item when force is set. A failing item is counted and
// skipped; cancellation stops the run and returns the partial result.
func (s *Service) UpdatePrices(ctx context.Context, force bool) (*inbound.PriceUpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return &inbound.PriceUpdateResult{}, err
	}
	items, err := s.catalog.All(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load food items", err)
	}

	start := s.now()
	cutoff := start.Add(-s.opts.UpdateInterval)
	result := &inbound.PriceUpdateResult{}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Price update interrupted", zap.Int("updated", result.Updated), zap.Error(err))
			return result, err
		}
		if !force && !item.PriceIsStale(cutoff) {
			result.Skipped++
			continue
		}
		if err := s.refresh(ctx, item); err != nil {
			result.Failed++
			s.logger.Warn("Price refresh failed",
				zap.Int64("food_id", item.ID),
				zap.String("food", item.Name),
				zap.Error(err),
			)
			continue
		}
		result.Updated++
	}

	s.logger.Info("Price update finished",
		zap.Bool("force", force),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("took", s.now().Sub(start)),
	)
	return result, nil
}

func (s *Service) refresh(ctx context.Context, item food.Item) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	quote, err := s.source.Fetch(fetchCtx, item)
	cancel()
	if err != nil {
		return err
	}

	at := s.now()
	price := round2(quote.Price)
	if err := s.catalog.UpdatePrice(ctx, item.ID, price, at); err != nil {
		return err
	}

	point := food.PricePoint{
		FoodID:     item.ID,
		Price:      price,
		Location:   quote.Location,
		Source:     quote.Source,
		RecordedAt: at,
	}
	if err := s.history.Append(ctx, point); err != nil {
		s.logger.Warn("Failed to record price history", zap.Int64("food_id", item.ID), zap.Error(err))
	}
	return nil
}

// Trend lists the prices recorded for a food over the last days, oldest first
func (s *Service) Trend(ctx context.Context, foodID int64, days int) ([]inbound.PricePointDTO, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	if _, err := s.catalog.FindByID(ctx, foodID); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewFoodNotFoundError(foodID)
		}
		return nil, errors.NewDatabaseError("load food item", err)
	}

	points, err := s.history.Since(ctx, foodID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, errors.NewDatabaseError("load price history", err)
	}

	out := make([]inbound.PricePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, inbound.PricePointDTO{Date: p.RecordedAt, Price: p.Price, Location: p.Location})
	}
	return out, nil
}

// AffordableFoods lists affordable items priced at or below maxPrice, cheapest first
func (s *Service) AffordableFoods(ctx context.Context, maxPrice float64, limit int) ([]inbound.FoodDTO, error) {
	if maxPrice < 0 || math.IsNaN(maxPrice) {
		return nil, errors.NewValidationError("max_price must not be negative")
	}
	if limit <= 0 {
		limit = DefaultAffordableLimit
	}
	if limit > maxAffordableLimit {
		limit = maxAffordableLimit
	}

	items, err := s.catalog.Cheapest(ctx, maxPrice, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list affordable foods", err)
	}
	return inbound.NewFoodDTOs(items), nil
}

// EstimateMealCost sums the cost of each portion. Unknown or unpriced
// foods contribute nothing.
func (s *Service) EstimateMealCost(ctx context.Context, portions []food.Portion) (*inbound.MealCostDTO, error) {
	ids := make([]int64, 0, len(portions))
	for _, p := range portions {
		if p.Grams < 0 {
			return nil, errors.NewValidationError("quantity must not be negative")
		}
		ids = append(ids, p.FoodID)
	}

	items, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("load food items", err)
	}

	total := 0.0
	for _, p := range portions {
		if item, ok := items[p.FoodID]; ok {
			total += item.CostFor(p.Grams)
		}
	}
	return &inbound.MealCostDTO{TotalCost: round2(total), Currency: Currency}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
