package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityProber_GetCapabilities(t *testing.T) {
	ctx := context.Background()

	t.Run("Present", func(t *testing.T) {
		caps, err := NewCapabilityProber(newFakePlatform("hold", "create_fulfillment")).GetCapabilities(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, []string{"create_fulfillment", "hold"}, caps.List())
	})

	t.Run("MissingFieldIsEmptySet", func(t *testing.T) {
		platform := newFakePlatform()
		platform.capabilities[11] = nil

		caps, err := NewCapabilityProber(platform).GetCapabilities(ctx, 11)
		require.NoError(t, err)
		require.NotNil(t, caps)
		assert.True(t, caps.IsEmpty())
	})

	t.Run("Error", func(t *testing.T) {
		platform := newFakePlatform("hold")
		platform.probeErr = errors.New("timeout")

		_, err := NewCapabilityProber(platform).GetCapabilities(ctx, 11)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "probe fulfillment order 11")
	})

	t.Run("QueriedEveryTime", func(t *testing.T) {
		platform := newFakePlatform("hold")
		prober := NewCapabilityProber(platform)

		_, _ = prober.GetCapabilities(ctx, 11)
		_, _ = prober.GetCapabilities(ctx, 11)
		assert.Equal(t, 2, platform.probes)
	})
}
