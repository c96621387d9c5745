package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"shipment-relay/internal/core/config"
	"shipment-relay/internal/features/tracking/domain"
)

// InPostAdapter implements ports.CarrierTracker using the InPost ShipX API.
type InPostAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the ShipX API root, without a trailing slash.
	baseURL string
	// token is the ShipX bearer token.
	token string
}

// NewInPostAdapter creates a new instance of InPostAdapter.
func NewInPostAdapter(cfg config.InPostConfig, client *http.Client) *InPostAdapter {
	return &InPostAdapter{
		client:  client,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
	}
}

// shipmentResponse is the part of the ShipX shipment resource the relay reads.
type shipmentResponse struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
}

// trackingResponse is the ShipX tracking resource.
type trackingResponse struct {
	TrackingNumber  string `json:"tracking_number"`
	Status          string `json:"status"`
	TrackingDetails []struct {
		Status       string    `json:"status"`
		OriginStatus string    `json:"origin_status"`
		Agency       *string   `json:"agency"`
		Datetime     time.Time `json:"datetime"`
	} `json:"tracking_details"`
}

// ResolveOrderReference reads the merchant reference stored on a shipment.
func (a *InPostAdapter) ResolveOrderReference(ctx context.Context, shipmentID string) (string, error) {
	var shipment shipmentResponse
	found, err := a.get(ctx, "/v1/shipments/"+url.PathEscape(shipmentID), &shipment)
	if err != nil {
		return "", fmt.Errorf("failed to get shipment %s: %w", shipmentID, err)
	}
	if !found {
		return "", nil
	}

	return strings.TrimSpace(shipment.Reference), nil
}

// GetTrackingHistory retrieves the tracking status and events of a parcel, oldest event first.
func (a *InPostAdapter) GetTrackingHistory(ctx context.Context, trackingNumber string) (*domain.TrackingHistory, error) {
	var tracking trackingResponse
	found, err := a.get(ctx, "/v1/tracking/"+url.PathEscape(trackingNumber), &tracking)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking %s: %w", trackingNumber, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrTrackingNotFound, trackingNumber)
	}

	history := &domain.TrackingHistory{
		TrackingNumber: tracking.TrackingNumber,
		Status:         tracking.Status,
		GlobalStatus:   domain.GlobalStatusOf(tracking.Status),
		History:        make([]domain.TrackingEvent, 0, len(tracking.TrackingDetails)),
	}
	if history.TrackingNumber == "" {
		history.TrackingNumber = trackingNumber
	}

	for _, d := range tracking.TrackingDetails {
		event := domain.TrackingEvent{
			Date:       d.Datetime,
			Code:       d.Status,
			OriginCode: d.OriginStatus,
		}
		if d.Agency != nil {
			event.Agency = *d.Agency
		}
		history.History = append(history.History, event)
	}

	sort.SliceStable(history.History, func(i, j int) bool {
		return history.History[i].Date.Before(history.History[j].Date)
	})

	return history, nil
}

// get performs an authenticated GET. It reports false on 404.
func (a *InPostAdapter) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("inpost API returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}
