package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/foodbook/orderbot/internal/agent/model"
)

var (
	//go:embed template/fallback_system.txt
	fallbackSystemPrompt string

	//go:embed template/fallback_user.txt
	fallbackUserPrompt string
)

// FallbackInput is what the fallback prompt knows about the turn.
type FallbackInput struct {
	CustomerName string
	Message      string
	Categories   []string
}

// RenderFallback builds the system and user messages for the fallback model.
// Rendering goes through the eino prompt component so prompt callbacks fire.
func RenderFallback(ctx context.Context, config model.PromptConfig, in FallbackInput) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(fallbackSystemPrompt),
		schema.UserMessage(fallbackUserPrompt),
	)

	categories := "pizza, burger, bbq, drinks"
	if len(in.Categories) > 0 {
		categories = strings.Join(in.Categories, ", ")
	}
	vars := map[string]any{
		"BusinessType": config.BusinessType,
		"BusinessName": config.BusinessName,
		"CustomerName": in.CustomerName,
		"Message":      strings.TrimSpace(in.Message),
		"Categories":   categories,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("fallback prompt render: %w", err)
	}
	if len(msgs) != 2 {
		return nil, fmt.Errorf("fallback prompt render: expected 2 messages, got %d", len(msgs))
	}
	return msgs, nil
}
