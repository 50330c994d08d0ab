package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/foodbook/orderbot/internal/agent/model"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

// ChatModelConfig holds the configuration for the fallback chat model.
type ChatModelConfig struct {
	APIKey   string
	BaseURL  string
	Fallback model.FallbackModelConfig
}

// NewFallbackChatModel creates the Gemini chat model used for unclassified utterances.
func NewFallbackChatModel(ctx context.Context, config ChatModelConfig) (einomodel.BaseChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := config.Fallback.Temperature
	maxTokens := config.Fallback.MaxTokens
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Fallback.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", config.Fallback.Model).Msg("Error creating fallback model")
		return nil, fmt.Errorf("error creating fallback model: %w", err)
	}
	return cm, nil
}
