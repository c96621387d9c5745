package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-relay/internal/core/cache"
	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/features/tracking/domain"
	"shipment-relay/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// ErrShipmentRequired is returned when no shipment or tracking identifier was given.
var ErrShipmentRequired = errors.New("shipment identifier is required")

// referenceKeyPrefix namespaces cached shipment references.
const referenceKeyPrefix = "inpost:reference:"

// TrackingService answers carrier questions for the webhook dispatcher and the operator API.
type TrackingService struct {
	tracker ports.CarrierTracker
	// cache is optional; nil disables reference caching.
	cache        cache.Cache
	referenceTTL time.Duration
	ready        map[string]struct{}
	log          *zap.Logger
}

// NewTrackingService creates a new TrackingService.
// readyStatuses lists the carrier statuses meaning the parcel entered the sorting network.
func NewTrackingService(tracker ports.CarrierTracker, c cache.Cache, referenceTTL time.Duration, readyStatuses []string) *TrackingService {
	ready := make(map[string]struct{}, len(readyStatuses))
	for _, s := range readyStatuses {
		ready[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	return &TrackingService{
		tracker:      tracker,
		cache:        c,
		referenceTTL: referenceTTL,
		ready:        ready,
		log:          logger.Named("tracking"),
	}
}

// ResolveOrderReference returns the order name attached to a shipment, or "" when there is none.
// Found references are cached; they never change for a given shipment.
func (s *TrackingService) ResolveOrderReference(ctx context.Context, shipmentID string) (string, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return "", ErrShipmentRequired
	}

	key := referenceKeyPrefix + shipmentID
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			return string(cached), nil
		case !errors.Is(err, cache.ErrCacheMiss):
			s.log.Warn("Reference cache read failed", zap.String("shipment_id", shipmentID), zap.Error(err))
		}
	}

	ref, err := s.tracker.ResolveOrderReference(ctx, shipmentID)
	if err != nil {
		return "", err
	}

	if ref != "" && s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(ref), s.referenceTTL); err != nil {
			s.log.Warn("Reference cache write failed", zap.String("shipment_id", shipmentID), zap.Error(err))
		}
	}

	return ref, nil
}

// CheckReadiness reports whether the parcel has entered the sorting network.
// An unknown parcel is simply not ready.
func (s *TrackingService) CheckReadiness(ctx context.Context, reference string) (domain.Readiness, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.Readiness{}, ErrShipmentRequired
	}

	history, err := s.tracker.GetTrackingHistory(ctx, reference)
	if errors.Is(err, domain.ErrTrackingNotFound) {
		return domain.Readiness{TrackingNumber: reference}, nil
	}
	if err != nil {
		return domain.Readiness{}, err
	}

	_, ready := s.ready[strings.ToLower(history.Status)]
	return domain.Readiness{
		Ready:          ready,
		Status:         history.Status,
		TrackingNumber: history.TrackingNumber,
	}, nil
}

// GetTrackingHistory retrieves the tracking history of a parcel.
func (s *TrackingService) GetTrackingHistory(ctx context.Context, trackingNumber string) (*domain.TrackingHistory, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrShipmentRequired
	}

	history, err := s.tracker.GetTrackingHistory(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking from carrier: %w", err)
	}
	return history, nil
}
