package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shipment-relay/internal/core/cache"
	"shipment-relay/internal/core/config"
	"shipment-relay/internal/core/httpclient"
	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/core/proxy"
	"shipment-relay/internal/core/server"
	"shipment-relay/internal/core/telemetry"
	fulfillmentadapter "shipment-relay/internal/features/fulfillment/adapters"
	"shipment-relay/internal/features/fulfillment/domain"
	fulfillmenthandler "shipment-relay/internal/features/fulfillment/handler"
	fulfillmentservice "shipment-relay/internal/features/fulfillment/service"
	trackingadapter "shipment-relay/internal/features/tracking/adapters"
	trackinghandler "shipment-relay/internal/features/tracking/handler"
	trackingservice "shipment-relay/internal/features/tracking/service"
	webhookhandler "shipment-relay/internal/features/webhooks/handler"
	webhookservice "shipment-relay/internal/features/webhooks/service"

	"go.uber.org/zap"
)

// @title Shipment Relay API
// @version 1.0
// @description Relays InPost parcel events into Shopify: orders are held when the label is created and fulfilled once the parcel reaches the sorting center.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("empty_capability_policy", cfg.Fulfillment.EmptyCapabilityPolicy),
	)

	shutdownTracing, err := telemetry.Init(cfg.TracingEnabled, "shipment-relay", cfg.Environment)
	if err != nil {
		l.Fatal("Tracing init failed", zap.Error(err))
	}

	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	if proxySettings.HasProxy() {
		l.Info("Outbound proxy enabled", zap.String("proxy", proxySettings.HostPort()))
	}

	shopifyClient, err := httpclient.NewClient("shopify", cfg.HTTPTimeout, proxySettings)
	if err != nil {
		l.Fatal("Shopify client init failed", zap.Error(err))
	}
	inpostClient, err := httpclient.NewClient("inpost", cfg.HTTPTimeout, proxySettings)
	if err != nil {
		l.Fatal("InPost client init failed", zap.Error(err))
	}

	// Initialize Shopify Adapter and run Health Check
	shopify := fulfillmentadapter.NewShopifyAdapter(cfg.Shopify, shopifyClient)
	healthCtx, cancelHealth := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	err = shopify.HealthCheck(healthCtx)
	cancelHealth()
	if err != nil {
		l.Fatal("Shopify Health Check Failed", zap.Error(err))
	}
	l.Info("Shopify connection verified")

	orchestrator := fulfillmentservice.NewOrchestrator(shopify, fulfillmentservice.Options{
		Hold: domain.HoldRequest{
			Reason: cfg.Shopify.HoldReason,
			Notes:  cfg.Shopify.HoldNotes,
		},
		CarrierName:           cfg.Fulfillment.CarrierName,
		TrackingURL:           cfg.Fulfillment.TrackingURL,
		EmptyCapabilityPolicy: domain.EmptyCapabilityPolicy(cfg.Fulfillment.EmptyCapabilityPolicy),
	})
	fulfillmentHdl := fulfillmenthandler.NewFulfillmentHandler(orchestrator)

	// Optional reference cache
	var referenceCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL, "shipment-relay:")
		if err != nil {
			l.Fatal("Redis init failed", zap.Error(err))
		}
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			l.Warn("Redis unreachable, references will be fetched until it recovers", zap.Error(err))
		}
		cancelPing()
		defer redisCache.Close()
		referenceCache = redisCache
	}

	// Initialize Tracking Service & Handler
	inpost := trackingadapter.NewInPostAdapter(cfg.InPost, inpostClient)
	trackingSvc := trackingservice.NewTrackingService(inpost, referenceCache, cfg.Cache.ReferenceTTL, cfg.InPost.ReadyStatusList())
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	// Initialize Webhook Dispatcher & Handler
	dispatcher := webhookservice.NewDispatcher(orchestrator, trackingSvc)
	webhookHdl := webhookhandler.NewWebhookHandler(dispatcher, cfg.Webhook.Secret)
	if cfg.Webhook.Secret == "" {
		l.Warn("WEBHOOK_SECRET not set, webhook requests are not authenticated")
	}

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/webhooks/inpost", webhookHdl.HandleInPost)
	srv.App.Get("/orders/:name/fulfillment", fulfillmentHdl.GetFulfillment)
	srv.App.Get("/tracking/:number", trackingHdl.GetTrackingHistory)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFlush()
	if err := shutdownTracing(flushCtx); err != nil {
		l.Warn("Tracing shutdown failed", zap.Error(err))
	}
}
