// Package offline prepares per-user snapshots for use without connectivity
package offline

import (
	"context"
	stderrors "errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/domain/user"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	// SnapshotRecommendations is how many recent recommendations a snapshot keeps
	SnapshotRecommendations = 50
	// DefaultSnapshotTTL keeps a snapshot for a week
	DefaultSnapshotTTL = 7 * 24 * time.Hour
)

var features = inbound.OfflineFeatures{
	FoodSearch:          true,
	ViewRecommendations: true,
	LogFood:             true,
	ViewProfile:         true,
	Chatbot:             false,
	PriceUpdates:        false,
	SyncData:            false,
}

// Service implements inbound.OfflineService
type Service struct {
	profiles        outbound.ProfileRepository
	catalog         outbound.FoodCatalog
	recommendations inbound.RecommendationService
	cache           outbound.CacheRepository
	prober          outbound.ConnectivityProber
	ttl             time.Duration
	logger          *zap.Logger
	now             func() time.Time
}

// NewService creates a new offline service
func NewService(
	profiles outbound.ProfileRepository,
	catalog outbound.FoodCatalog,
	recommendations inbound.RecommendationService,
	cache outbound.CacheRepository,
	prober outbound.ConnectivityProber,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Service{
		profiles:        profiles,
		catalog:         catalog,
		recommendations: recommendations,
		cache:           cache,
		prober:          prober,
		ttl:             ttl,
		logger:          logger.Named("offline-service"),
		now:             time.Now,
	}
}

var _ inbound.OfflineService = (*Service)(nil)

func snapshotKey(userID uuid.UUID) string {
	return "offline:" + userID.String()
}

// Enable flags the user as offline and caches a fresh snapshot
func (s *Service) Enable(ctx context.Context, userID uuid.UUID) (*inbound.OfflineStatusDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	profile.GoOffline(at)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, errors.NewDatabaseError("save profile", err)
	}

	if err := s.cacheSnapshot(ctx, *profile, at); err != nil {
		return nil, err
	}

	s.logger.Info("Offline mode enabled", zap.String("user_id", userID.String()))
	return s.status(ctx, *profile), nil
}

// Disable clears the offline flag and records the sync. The cached
// snapshot is left to expire.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID) (*inbound.OfflineStatusDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	profile.GoOnline(at)
	profile.MarkSynced(at)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, errors.NewDatabaseError("save profile", err)
	}

	s.logger.Info("Offline mode disabled", zap.String("user_id", userID.String()))
	return s.status(ctx, *profile), nil
}

// Load returns the cached snapshot for the user
func (s *Service) Load(ctx context.Context, userID uuid.UUID) (*inbound.OfflineSnapshot, error) {
	raw, err := s.cache.Get(ctx, snapshotKey(userID))
	if err != nil {
		if stderrors.Is(err, outbound.ErrCacheMiss) {
			return nil, errors.NewOfflineDataUnavailableError(userID.String())
		}
		return nil, errors.NewExternalServiceError("cache", err)
	}

	var snapshot inbound.OfflineSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("Discarding unreadable offline snapshot", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errors.NewOfflineDataUnavailableError(userID.String())
	}
	return &snapshot, nil
}

// Features lists what works without connectivity
func (s *Service) Features() inbound.OfflineFeatures {
	return features
}

// IsOnline probes the upstream network
func (s *Service) IsOnline(ctx context.Context) bool {
	if s.prober == nil {
		return false
	}
	return s.prober.Reachable(ctx)
}

func (s *Service) loadProfile(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("load profile", err)
	}
	return profile, nil
}

func (s *Service) cacheSnapshot(ctx context.Context, profile user.Profile, at time.Time) error {
	items, err := s.catalog.Query(ctx, food.Filter{AffordableOnly: true})
	if err != nil {
		return errors.NewDatabaseError("load food items", err)
	}

	recs, err := s.recommendations.List(ctx, profile.ID, SnapshotRecommendations)
	if err != nil {
		s.logger.Warn("Snapshot without recommendations", zap.String("user_id", profile.ID.String()), zap.Error(err))
		recs = []inbound.RecommendationDTO{}
	}

	snapshot := inbound.OfflineSnapshot{
		User:            inbound.NewProfileDTO(profile),
		FoodItems:       inbound.NewFoodDTOs(items),
		Recommendations: recs,
		CachedAt:        at,
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to encode offline snapshot")
	}
	if err := s.cache.Set(ctx, snapshotKey(profile.ID), raw, s.ttl); err != nil {
		return errors.NewExternalServiceError("cache", err)
	}

	s.logger.Debug("Offline snapshot cached",
		zap.String("user_id", profile.ID.String()),
		zap.Int("food_items", len(items)),
		zap.Int("recommendations", len(recs)),
		zap.Int("bytes", len(raw)),
	)
	return nil
}

func (s *Service) status(ctx context.Context, profile user.Profile) *inbound.OfflineStatusDTO {
	return &inbound.OfflineStatusDTO{
		OfflineMode: profile.OfflineMode,
		LastSync:    profile.LastSync,
		Online:      s.IsOnline(ctx),
		Features:    features,
	}
}
