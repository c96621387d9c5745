package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shipment-relay/internal/core/config"
	"shipment-relay/internal/features/fulfillment/domain"
)

// maxErrorBody caps how much of a failed response body is kept on an APIError.
const maxErrorBody = 512

// ShopifyAdapter implements ports.OrderPlatform using the Shopify REST Admin API.
type ShopifyAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// baseURL is the versioned Admin API root, without a trailing slash.
	baseURL string
	// token is sent as X-Shopify-Access-Token.
	token string
}

// NewShopifyAdapter creates a new instance of ShopifyAdapter.
// A shop URL without a scheme is assumed to be https.
func NewShopifyAdapter(cfg config.ShopifyConfig, client *http.Client) *ShopifyAdapter {
	shop := strings.TrimRight(strings.TrimSpace(cfg.ShopURL), "/")
	if !strings.Contains(shop, "://") {
		shop = "https://" + shop
	}

	return &ShopifyAdapter{
		client:  client,
		baseURL: fmt.Sprintf("%s/admin/api/%s", shop, cfg.APIVersion),
		token:   cfg.AccessToken,
	}
}

// FindOrdersByName searches orders of any status by display name.
func (a *ShopifyAdapter) FindOrdersByName(ctx context.Context, name string) ([]domain.OrderRef, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("status", "any")
	query.Set("fields", "id,name")

	var body struct {
		Orders []domain.OrderRef `json:"orders"`
	}
	if err := a.do(ctx, "search orders", http.MethodGet, "/orders.json?"+query.Encode(), nil, nil, &body); err != nil {
		return nil, err
	}

	return body.Orders, nil
}

// ListFulfillmentOrders returns the fulfillment orders of an order.
func (a *ShopifyAdapter) ListFulfillmentOrders(ctx context.Context, orderID int64) ([]domain.FulfillmentOrder, error) {
	var body struct {
		FulfillmentOrders []shopifyFulfillmentOrder `json:"fulfillment_orders"`
	}
	path := fmt.Sprintf("/orders/%d/fulfillment_orders.json", orderID)
	if err := a.do(ctx, "list fulfillment orders", http.MethodGet, path, nil, nil, &body); err != nil {
		return nil, err
	}

	out := make([]domain.FulfillmentOrder, 0, len(body.FulfillmentOrders))
	for _, fo := range body.FulfillmentOrders {
		out = append(out, fo.toDomain())
	}
	return out, nil
}

// GetFulfillmentOrder reads one fulfillment order together with its supported actions.
func (a *ShopifyAdapter) GetFulfillmentOrder(ctx context.Context, fulfillmentOrderID int64) (*domain.FulfillmentOrder, error) {
	var body struct {
		FulfillmentOrder *shopifyFulfillmentOrder `json:"fulfillment_order"`
	}
	path := fmt.Sprintf("/fulfillment_orders/%d.json", fulfillmentOrderID)
	if err := a.do(ctx, "get fulfillment order", http.MethodGet, path, nil, nil, &body); err != nil {
		return nil, err
	}

	if body.FulfillmentOrder == nil {
		return &domain.FulfillmentOrder{ID: fulfillmentOrderID, Capabilities: domain.NewCapabilitySet()}, nil
	}
	fo := body.FulfillmentOrder.toDomain()
	return &fo, nil
}

// HoldFulfillmentOrder puts a fulfillment order on hold without notifying the merchant.
func (a *ShopifyAdapter) HoldFulfillmentOrder(ctx context.Context, fulfillmentOrderID int64, hold domain.HoldRequest) error {
	payload := map[string]any{
		"fulfillment_hold": map[string]any{
			"reason":          hold.Reason,
			"reason_notes":    hold.Notes,
			"notify_merchant": false,
		},
	}
	path := fmt.Sprintf("/fulfillment_orders/%d/hold.json", fulfillmentOrderID)
	return a.do(ctx, "hold fulfillment order", http.MethodPost, path, payload, nil, nil)
}

// ReleaseFulfillmentOrderHold lifts the hold on a fulfillment order.
func (a *ShopifyAdapter) ReleaseFulfillmentOrderHold(ctx context.Context, fulfillmentOrderID int64) error {
	path := fmt.Sprintf("/fulfillment_orders/%d/release_hold.json", fulfillmentOrderID)
	return a.do(ctx, "release fulfillment order hold", http.MethodPost, path, map[string]any{}, nil, nil)
}

// ListFulfillments returns every fulfillment of an order, cancelled ones included.
func (a *ShopifyAdapter) ListFulfillments(ctx context.Context, orderID int64) ([]domain.Fulfillment, error) {
	var body struct {
		Fulfillments []domain.Fulfillment `json:"fulfillments"`
	}
	path := fmt.Sprintf("/orders/%d/fulfillments.json", orderID)
	if err := a.do(ctx, "list fulfillments", http.MethodGet, path, nil, nil, &body); err != nil {
		return nil, err
	}
	return body.Fulfillments, nil
}

// CreateFulfillment creates a fulfillment covering the whole fulfillment order.
func (a *ShopifyAdapter) CreateFulfillment(ctx context.Context, req domain.NewFulfillment) (*domain.Fulfillment, error) {
	payload := map[string]any{
		"fulfillment": map[string]any{
			"line_items_by_fulfillment_order": []map[string]any{
				{"fulfillment_order_id": req.FulfillmentOrderID},
			},
			"tracking_info":   trackingInfoPayload(req.Tracking),
			"notify_customer": req.NotifyCustomer,
		},
	}

	var headers http.Header
	if req.IdempotencyKey != "" {
		headers = http.Header{"Idempotency-Key": []string{req.IdempotencyKey}}
	}

	var body struct {
		Fulfillment domain.Fulfillment `json:"fulfillment"`
	}
	if err := a.do(ctx, "create fulfillment", http.MethodPost, "/fulfillments.json", payload, headers, &body); err != nil {
		return nil, err
	}
	return &body.Fulfillment, nil
}

// UpdateFulfillmentTracking replaces the tracking data of a fulfillment.
func (a *ShopifyAdapter) UpdateFulfillmentTracking(ctx context.Context, fulfillmentID int64, update domain.TrackingUpdate) error {
	payload := map[string]any{
		"fulfillment": map[string]any{
			"tracking_info":   trackingInfoPayload(update.Tracking),
			"notify_customer": update.NotifyCustomer,
		},
	}
	path := fmt.Sprintf("/fulfillments/%d/update_tracking.json", fulfillmentID)
	return a.do(ctx, "update fulfillment tracking", http.MethodPost, path, payload, nil, nil)
}

// HealthCheck verifies that the shop is reachable and the token is valid.
func (a *ShopifyAdapter) HealthCheck(ctx context.Context) error {
	if err := a.do(ctx, "health check", http.MethodGet, "/shop.json", nil, nil, nil); err != nil {
		return fmt.Errorf("shopify health check failed: %w", err)
	}
	return nil
}

// do sends one Admin API request. A non-2xx response becomes *domain.APIError;
// out, when non-nil, receives the decoded body.
func (a *ShopifyAdapter) do(ctx context.Context, op, method, path string, payload any, headers http.Header, out any) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.APIError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func trackingInfoPayload(t domain.TrackingInfo) map[string]any {
	info := map[string]any{
		"number":  t.Number,
		"company": t.Company,
	}
	if t.URL != "" {
		info["url"] = t.URL
	}
	return info
}

// shopifyFulfillmentOrder is the raw fulfillment order resource.
type shopifyFulfillmentOrder struct {
	ID               int64           `json:"id"`
	OrderID          int64           `json:"order_id"`
	Status           string          `json:"status"`
	SupportedActions json.RawMessage `json:"supported_actions"`
}

func (fo shopifyFulfillmentOrder) toDomain() domain.FulfillmentOrder {
	return domain.FulfillmentOrder{
		ID:           fo.ID,
		OrderID:      fo.OrderID,
		Status:       fo.Status,
		Capabilities: parseSupportedActions(fo.SupportedActions),
	}
}

// parseSupportedActions accepts either ["hold", ...] or [{"action": "hold"}, ...].
// Any other shape yields an empty set.
func parseSupportedActions(raw json.RawMessage) domain.CapabilitySet {
	if len(raw) == 0 {
		return domain.NewCapabilitySet()
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return domain.NewCapabilitySet(names...)
	}

	var objects []struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		names = make([]string, 0, len(objects))
		for _, o := range objects {
			names = append(names, o.Action)
		}
		return domain.NewCapabilitySet(names...)
	}

	return domain.NewCapabilitySet()
}
