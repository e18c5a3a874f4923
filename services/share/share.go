// Package share creates time-limited public snapshots of a user's location.
package share

import (
	"context"
	"errors"
	"time"

	shareRepo "towgo/database/repository/share"
	"towgo/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Expiry bounds, in minutes.
const (
	DefaultExpiryMinutes = 60
	MaxExpiryMinutes     = 1440
)

var (
	ErrShareNotFound  = errors.New("location share not found")
	ErrInvalidExpiry  = errors.New("expires must be between 1 and 1440 minutes")
	ErrInvalidPayload = errors.New("an address or valid coordinates are required")
)

// Service creates and resolves location shares.
type Service struct {
	repo   shareRepo.ShareRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the share service.
func NewService(repo shareRepo.ShareRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create stores a share for userID and returns it. Expires is in minutes;
// zero selects DefaultExpiryMinutes.
func (s *Service) Create(ctx context.Context, userID string, req models.ShareRequest) (*models.LocationShare, error) {
	minutes := req.Expires
	if minutes == 0 {
		minutes = DefaultExpiryMinutes
	}
	if minutes < 1 || minutes > MaxExpiryMinutes {
		return nil, ErrInvalidExpiry
	}
	hasPoint := req.Location != (models.LatLng{})
	if hasPoint && !models.ValidCoordinates(req.Location) {
		return nil, ErrInvalidPayload
	}
	if !hasPoint && req.Address == "" {
		return nil, ErrInvalidPayload
	}

	now := s.now().UTC()
	sh := &models.LocationShare{
		ShareID:            uuid.NewString(),
		UserID:             userID,
		Address:            req.Address,
		Location:           req.Location,
		Accuracy:           req.Accuracy,
		IncludeVehicleInfo: req.IncludeVehicleInfo,
		ExpiresAt:          now.Add(time.Duration(minutes) * time.Minute),
		CreatedAt:          now,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}
	s.logger.Info("Location share created",
		zap.String("shareId", sh.ShareID),
		zap.String("userID", userID),
		zap.Time("expiresAt", sh.ExpiresAt))
	return sh, nil
}

// Get returns an unexpired share.
func (s *Service) Get(ctx context.Context, shareID string) (*models.LocationShare, error) {
	sh, err := s.repo.GetByShareID(ctx, shareID)
	if errors.Is(err, shareRepo.ErrNotFound) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(sh.ExpiresAt) {
		return nil, ErrShareNotFound
	}
	return sh, nil
}
