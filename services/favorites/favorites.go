// Package favorites manages a user's saved businesses with a Redis-cached list.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	favoriteRepo "towgo/database/repository/favorite"
	"towgo/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cachePrefix = "favorites:"

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrMissingPlaceID   = errors.New("placeId is required")
	// ErrStaleCache is returned when a mutation was stored but the cached
	// list could be neither deleted nor rewritten.
	ErrStaleCache = errors.New("favorites cache could not be refreshed")
)

// Service implements the favorites operations.
type Service struct {
	repo   favoriteRepo.FavoriteRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the favorites service. cache may be nil.
func NewService(repo favoriteRepo.FavoriteRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// Add saves b for userID. When the place is already saved the existing
// favorite is returned with created=false.
func (s *Service) Add(ctx context.Context, userID string, b models.Business) (*models.Favorite, bool, error) {
	placeID := strings.TrimSpace(b.PlaceID)
	if placeID == "" {
		return nil, false, ErrMissingPlaceID
	}

	existing, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	for i := range existing {
		if existing[i].PlaceID == placeID {
			return &existing[i], false, nil
		}
	}

	fav := &models.Favorite{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlaceID:     placeID,
		Name:        b.Name,
		Address:     b.Address,
		PhoneNumber: b.PhoneNumber,
		Location:    b.Location,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, fav); err != nil {
		return nil, false, err
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return nil, false, err
	}
	return fav, true, nil
}

// Remove deletes the favorite for placeID.
func (s *Service) Remove(ctx context.Context, userID, placeID string) error {
	err := s.repo.DeleteByPlaceID(ctx, userID, placeID)
	if errors.Is(err, favoriteRepo.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	if err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// List returns the user's favorites, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	if cached, ok := s.cached(ctx, userID); ok {
		return cached, nil
	}

	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	s.store(ctx, userID, favs)
	return favs, nil
}

// IsFavorite reports whether placeID is in the user's list.
func (s *Service) IsFavorite(ctx context.Context, userID, placeID string) (bool, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, f := range favs {
		if f.PlaceID == placeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) cached(ctx context.Context, userID string) ([]models.Favorite, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, cachePrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Favorites cache read failed", zap.String("userID", userID), zap.Error(err))
		}
		return nil, false
	}
	var favs []models.Favorite
	if err := json.Unmarshal(data, &favs); err != nil {
		s.logger.Warn("Favorites cache entry is corrupt", zap.String("userID", userID), zap.Error(err))
		return nil, false
	}
	return favs, true
}

func (s *Service) store(ctx context.Context, userID string, favs []models.Favorite) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(favs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cachePrefix+userID, b, s.ttl).Err(); err != nil {
		s.logger.Warn("Favorites cache write failed", zap.String("userID", userID), zap.Error(err))
	}
}

// invalidate drops the cached list after a mutation. When the delete fails
// the list is reloaded and written back so readers never see the old one.
func (s *Service) invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	err := s.cache.Del(ctx, cachePrefix+userID).Err()
	if err == nil {
		return nil
	}
	s.logger.Warn("Favorites cache invalidation failed, rewriting list", zap.String("userID", userID), zap.Error(err))

	favs, err := s.repo.ListByUser(ctx, userID)
	if err == nil {
		var b []byte
		if b, err = json.Marshal(favs); err == nil {
			err = s.cache.Set(ctx, cachePrefix+userID, b, s.ttl).Err()
		}
	}
	if err != nil {
		s.logger.Error("Favorites cache left stale", zap.String("userID", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStaleCache, err)
	}
	return nil
}
