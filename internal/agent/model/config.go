package model

import "time"

// ================ Config ================
type SessionConfig struct {
	TTL   time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	Store string        `envconfig:"SESSION_STORE" default:"redis"`
}

type FallbackModelConfig struct {
	Model       string        `envconfig:"FALLBACK_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int           `envconfig:"FALLBACK_MAX_TOKENS" default:"200"`
	Temperature float32       `envconfig:"FALLBACK_TEMPERATURE" default:"0.7"`
	Timeout     time.Duration `envconfig:"FALLBACK_TIMEOUT" default:"15s"`
}

type PromptConfig struct {
	BusinessType string `envconfig:"PROMPT_BUSINESS_TYPE" default:"restaurant"`
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"FoodBot"`
}

type CatalogConfig struct {
	Source   string        `envconfig:"CATALOG_SOURCE" default:"sheet"`
	SheetURL string        `envconfig:"CATALOG_SHEET_URL"`
	Timeout  time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}

type NotifyConfig struct {
	Driver         string        `envconfig:"NOTIFY_DRIVER" default:"webhook"`
	WebhookURL     string        `envconfig:"NOTIFY_WEBHOOK_URL"`
	Timeout        time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	DefaultStation string        `envconfig:"STATION_DEFAULT" default:"General Chef"`
}
