package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shipment-relay/internal/core/cache"
	"shipment-relay/internal/features/tracking/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var readyStatuses = []string{"adopted_at_sorting_center", "Delivered"}

// mockCarrierTracker is a testify mock of ports.CarrierTracker.
type mockCarrierTracker struct {
	mock.Mock
}

func (m *mockCarrierTracker) ResolveOrderReference(ctx context.Context, shipmentID string) (string, error) {
	args := m.Called(ctx, shipmentID)
	return args.String(0), args.Error(1)
}

func (m *mockCarrierTracker) GetTrackingHistory(ctx context.Context, trackingNumber string) (*domain.TrackingHistory, error) {
	args := m.Called(ctx, trackingNumber)
	if v := args.Get(0); v != nil {
		return v.(*domain.TrackingHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

// brokenCache fails every operation, like an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("dial tcp: refused") }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("dial tcp: refused")
}
func (brokenCache) Delete(context.Context, string) error { return errors.New("dial tcp: refused") }
func (brokenCache) Ping(context.Context) error           { return errors.New("dial tcp: refused") }
func (brokenCache) Close() error                         { return nil }

func newRedisCache(t *testing.T) (*miniredis.Miniredis, cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://"+mr.Addr(), "relay:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

// TestResolveOrderReference_CachesHits verifies the carrier is asked once per shipment.
func TestResolveOrderReference_CachesHits(t *testing.T) {
	mr, c := newRedisCache(t)
	tracker := new(mockCarrierTracker)
	tracker.On("ResolveOrderReference", mock.Anything, "49051").Return("#1001", nil).Once()

	svc := NewTrackingService(tracker, c, time.Hour, readyStatuses)

	for i := 0; i < 2; i++ {
		ref, err := svc.ResolveOrderReference(context.Background(), "49051")
		require.NoError(t, err)
		assert.Equal(t, "#1001", ref)
	}

	tracker.AssertNumberOfCalls(t, "ResolveOrderReference", 1)
	got, err := mr.Get("relay:inpost:reference:49051")
	require.NoError(t, err)
	assert.Equal(t, "#1001", got)
	assert.Equal(t, time.Hour, mr.TTL("relay:inpost:reference:49051"))
}

// TestResolveOrderReference_EmptyNotCached verifies a missing reference is retried next time.
func TestResolveOrderReference_EmptyNotCached(t *testing.T) {
	mr, c := newRedisCache(t)
	tracker := new(mockCarrierTracker)
	tracker.On("ResolveOrderReference", mock.Anything, "7").Return("", nil)

	svc := NewTrackingService(tracker, c, time.Hour, readyStatuses)

	ref, err := svc.ResolveOrderReference(context.Background(), "7")
	require.NoError(t, err)
	assert.Empty(t, ref)
	assert.False(t, mr.Exists("relay:inpost:reference:7"))
}

// TestResolveOrderReference_CacheDown verifies a broken cache falls back to the carrier.
func TestResolveOrderReference_CacheDown(t *testing.T) {
	tracker := new(mockCarrierTracker)
	tracker.On("ResolveOrderReference", mock.Anything, "49051").Return("#1001", nil)

	svc := NewTrackingService(tracker, brokenCache{}, time.Hour, readyStatuses)

	ref, err := svc.ResolveOrderReference(context.Background(), "49051")
	require.NoError(t, err)
	assert.Equal(t, "#1001", ref)
}

// TestResolveOrderReference_NoCache verifies the service works without Redis.
func TestResolveOrderReference_NoCache(t *testing.T) {
	tracker := new(mockCarrierTracker)
	tracker.On("ResolveOrderReference", mock.Anything, "49051").Return("#1001", nil).Twice()

	svc := NewTrackingService(tracker, nil, time.Hour, readyStatuses)

	for i := 0; i < 2; i++ {
		_, err := svc.ResolveOrderReference(context.Background(), "49051")
		require.NoError(t, err)
	}
	tracker.AssertExpectations(t)
}

func TestResolveOrderReference_Errors(t *testing.T) {
	tracker := new(mockCarrierTracker)
	tracker.On("ResolveOrderReference", mock.Anything, "1").Return("", errors.New("timeout"))
	svc := NewTrackingService(tracker, nil, time.Hour, readyStatuses)

	_, err := svc.ResolveOrderReference(context.Background(), " ")
	assert.ErrorIs(t, err, ErrShipmentRequired)

	_, err = svc.ResolveOrderReference(context.Background(), "1")
	assert.EqualError(t, err, "timeout")
}

// TestCheckReadiness verifies the ready set and the unknown-parcel case.
func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name     string
		history  *domain.TrackingHistory
		err      error
		expected domain.Readiness
	}{
		{
			name:     "SortingCenter",
			history:  &domain.TrackingHistory{TrackingNumber: "620001", Status: "adopted_at_sorting_center"},
			expected: domain.Readiness{Ready: true, Status: "adopted_at_sorting_center", TrackingNumber: "620001"},
		},
		{
			name:     "CaseInsensitive",
			history:  &domain.TrackingHistory{TrackingNumber: "620001", Status: "DELIVERED"},
			expected: domain.Readiness{Ready: true, Status: "DELIVERED", TrackingNumber: "620001"},
		},
		{
			name:     "NotYet",
			history:  &domain.TrackingHistory{TrackingNumber: "620001", Status: "confirmed"},
			expected: domain.Readiness{Ready: false, Status: "confirmed", TrackingNumber: "620001"},
		},
		{
			name:     "UnknownParcel",
			err:      fmt.Errorf("%w: 620001", domain.ErrTrackingNotFound),
			expected: domain.Readiness{TrackingNumber: "620001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := new(mockCarrierTracker)
			tracker.On("GetTrackingHistory", mock.Anything, "620001").Return(tt.history, tt.err)
			svc := NewTrackingService(tracker, nil, 0, readyStatuses)

			got, err := svc.CheckReadiness(context.Background(), "620001")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckReadiness_TransportError(t *testing.T) {
	tracker := new(mockCarrierTracker)
	tracker.On("GetTrackingHistory", mock.Anything, "620001").Return(nil, errors.New("connection refused"))
	svc := NewTrackingService(tracker, nil, 0, readyStatuses)

	_, err := svc.CheckReadiness(context.Background(), "620001")
	assert.Error(t, err)
}

func TestGetTrackingHistory(t *testing.T) {
	expected := &domain.TrackingHistory{TrackingNumber: "620001", GlobalStatus: domain.TrackingStatusInTransit}
	tracker := new(mockCarrierTracker)
	tracker.On("GetTrackingHistory", mock.Anything, "620001").Return(expected, nil)
	tracker.On("GetTrackingHistory", mock.Anything, "X").Return(nil, domain.ErrTrackingNotFound)
	svc := NewTrackingService(tracker, nil, 0, readyStatuses)

	history, err := svc.GetTrackingHistory(context.Background(), "620001")
	require.NoError(t, err)
	assert.Equal(t, expected, history)

	_, err = svc.GetTrackingHistory(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrTrackingNotFound)
	assert.Contains(t, err.Error(), "failed to get tracking from carrier")
}
