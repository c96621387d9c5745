package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Empty capability policies accepted by FULFILLMENT_EMPTY_CAPABILITY_POLICY.
const (
	EmptyCapabilityAttempt = "attempt"
	EmptyCapabilityAbort   = "abort"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// HTTPTimeout bounds every outbound request made by the API clients.
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT" default:"15s"`
	// TracingEnabled turns on OpenTelemetry span export to stdout.
	TracingEnabled bool `mapstructure:"TRACING_ENABLED"`

	Shopify     ShopifyConfig     `mapstructure:",squash"`
	Fulfillment FulfillmentConfig `mapstructure:",squash"`
	InPost      InPostConfig      `mapstructure:",squash"`
	Webhook     WebhookConfig     `mapstructure:",squash"`
	Cache       CacheConfig       `mapstructure:",squash"`
	Proxy       ProxyConfig       `mapstructure:",squash"`
}

// ShopifyConfig holds the credentials for the Shopify Admin REST API.
type ShopifyConfig struct {
	// ShopURL is the base URL of the shop, e.g. https://example.myshopify.com.
	ShopURL string `mapstructure:"SHOPIFY_SHOP_URL" required:"true"`
	// AccessToken is the Admin API access token.
	AccessToken string `mapstructure:"SHOPIFY_ACCESS_TOKEN" required:"true"`
	// APIVersion is the dated Admin API version.
	APIVersion string `mapstructure:"SHOPIFY_API_VERSION" default:"2024-04"`
	// HoldReason is the reason enum sent when placing a fulfillment order on hold.
	HoldReason string `mapstructure:"SHOPIFY_HOLD_REASON" default:"other"`
	// HoldNotes is the free text attached to the hold.
	HoldNotes string `mapstructure:"SHOPIFY_HOLD_NOTES" default:"Waiting for carrier pickup"`
}

// FulfillmentConfig tunes how fulfillments are recorded.
type FulfillmentConfig struct {
	// CarrierName is written as the tracking company on fulfillments.
	CarrierName string `mapstructure:"FULFILLMENT_CARRIER_NAME" default:"InPost"`
	// TrackingURL is a fmt template receiving the tracking number.
	TrackingURL string `mapstructure:"FULFILLMENT_TRACKING_URL" default:"https://inpost.pl/sledzenie-przesylek?number=%s"`
	// EmptyCapabilityPolicy decides what happens when a fulfillment order reports no supported actions.
	EmptyCapabilityPolicy string `mapstructure:"FULFILLMENT_EMPTY_CAPABILITY_POLICY" default:"attempt"`
}

// InPostConfig holds the ShipX API connection details.
type InPostConfig struct {
	// URL is the ShipX API base URL.
	URL string `mapstructure:"INPOST_API_URL" default:"https://api-shipx-pl.easypack24.net"`
	// Token is the ShipX bearer token.
	Token string `mapstructure:"INPOST_TOKEN" required:"true"`
	// ReadyStatuses is a comma separated list of statuses meaning the parcel entered the sorting network.
	ReadyStatuses string `mapstructure:"INPOST_READY_STATUSES" default:"adopted_at_sorting_center,sent_from_sorting_center,adopted_at_target_branch,out_for_delivery,ready_to_pickup,delivered"`
}

// WebhookConfig holds the inbound webhook settings.
type WebhookConfig struct {
	// Secret, when set, must be presented in the X-Webhook-Secret header.
	Secret string `mapstructure:"WEBHOOK_SECRET"`
}

// CacheConfig holds the optional Redis settings.
type CacheConfig struct {
	// RedisURL enables the shipment reference cache when non-empty.
	RedisURL string `mapstructure:"REDIS_URL"`
	// ReferenceTTL is how long a resolved shipment reference is kept.
	ReferenceTTL time.Duration `mapstructure:"REFERENCE_CACHE_TTL" default:"24h"`
}

// ProxyConfig holds the optional outbound proxy.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// ReadyStatusList splits ReadyStatuses into trimmed, lower-cased entries.
func (c InPostConfig) ReadyStatusList() []string {
	var out []string
	for _, s := range strings.Split(c.ReadyStatuses, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	config.Fulfillment.EmptyCapabilityPolicy = strings.ToLower(strings.TrimSpace(config.Fulfillment.EmptyCapabilityPolicy))
	if err := validatePolicy(config.Fulfillment.EmptyCapabilityPolicy); err != nil {
		return nil, err
	}

	return &config, nil
}

func validatePolicy(policy string) error {
	switch policy {
	case EmptyCapabilityAttempt, EmptyCapabilityAbort:
		return nil
	default:
		return fmt.Errorf("invalid FULFILLMENT_EMPTY_CAPABILITY_POLICY %q: want %q or %q",
			policy, EmptyCapabilityAttempt, EmptyCapabilityAbort)
	}
}

// processTags walks the struct fields, binds every key to the environment and registers defaults.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
