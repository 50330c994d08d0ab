package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/graph/prompts"
	"github.com/foodbook/orderbot/internal/agent/model"
	"github.com/foodbook/orderbot/internal/agent/nlu"
	"github.com/foodbook/orderbot/internal/agent/routing"
	"github.com/foodbook/orderbot/internal/metrics"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

const (
	NodeClassify    = "Classify"
	NodeNameCapture = "NameCapture"
	NodeMenu        = "Menu"
	NodeOrder       = "Order"
	NodeStatus      = "Status"
	NodeFarewell    = "Farewell"
	NodeClarify     = "Clarify"
	NodeFallback    = "Fallback"
	NodePersist     = "Persist"
)

const defaultFallbackTimeout = 15 * time.Second

// intentNodes maps each intent to the node that answers it.
var intentNodes = map[model.Intent]string{
	model.IntentIntroduce: NodeNameCapture,
	model.IntentMenu:      NodeMenu,
	model.IntentOrder:     NodeOrder,
	model.IntentStatus:    NodeStatus,
	model.IntentFarewell:  NodeFarewell,
	model.IntentClarify:   NodeClarify,
	model.IntentFallback:  NodeFallback,
}

// IntentNodes returns the branch end nodes reachable from Classify.
func IntentNodes() map[string]bool {
	out := make(map[string]bool, len(intentNodes))
	for _, n := range intentNodes {
		out[n] = true
	}
	return out
}

// NewClassifyPreHandler resets the per-turn state.
func NewClassifyPreHandler() func(context.Context, *model.Turn, *model.TurnState) (*model.Turn, error) {
	return func(ctx context.Context, in *model.Turn, s *model.TurnState) (*model.Turn, error) {
		if in == nil || in.Session == nil {
			return nil, fmt.Errorf("turn has no session")
		}
		s.SessionID = in.Session.ID
		s.Intent = ""
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewClassifyNode runs the intent classifier against the session's menu snapshot.
func NewClassifyNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		turn.Classification = nlu.Classify(turn.Session.HasName(), turn.Input.Utterance, catalog.Menu(turn.Session.Menu))
		return turn, nil
	})
}

// NewClassifyPostHandler records the intent in state.
func NewClassifyPostHandler() func(context.Context, *model.Turn, *model.TurnState) (*model.Turn, error) {
	return func(ctx context.Context, out *model.Turn, s *model.TurnState) (*model.Turn, error) {
		s.Intent = out.Classification.Intent
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", string(s.Intent)).
			Str("category", out.Classification.Category).
			Int("items", len(out.Classification.Order.Items)).
			Msg("Utterance classified")
		return out, nil
	}
}

// NewIntentCondition routes a classified turn to its intent node.
func NewIntentCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, turn *model.Turn) (string, error) {
		node, ok := intentNodes[turn.Classification.Intent]
		if !ok {
			logx.Warn().Str("intent", string(turn.Classification.Intent)).Msg("Unknown intent, routing to fallback")
			return NodeFallback, nil
		}
		return node, nil
	}
}

// NewNameCaptureNode stores the cleaned display name. An empty name keeps the
// session awaiting a name and asks again.
func NewNameCaptureNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		name := nlu.CleanName(turn.Input.Utterance)
		if !turn.Session.SetName(name) {
			logx.Debug().Str("session_id", turn.Session.ID).Msg("Introduction produced no usable name")
			turn.Reply = renderNameRetry()
			return turn, nil
		}
		turn.Reply = renderNameAck(name, catalog.Menu(turn.Session.Menu))
		return turn, nil
	})
}

func NewMenuNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		text, _ := catalog.Menu(turn.Session.Menu).FormatMenu(turn.Classification.Category)
		turn.Reply = text
		return turn, nil
	})
}

// NewOrderNode records the order and saves the session before fanning the
// items out to the kitchen stations, so no station hears about an order the
// session lost. Station failures only show up as warning lines.
func NewOrderNode(sessions model.SessionRepository, router *routing.Router, now func() time.Time) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		s := turn.Session
		ext := turn.Classification.Order
		first := len(s.Orders) == 0

		order := s.RecordOrder(ext.Items, ext.Total, now())
		if err := sessions.Save(ctx, s); err != nil {
			s.Orders = s.Orders[:len(s.Orders)-1]
			return nil, fmt.Errorf("save order: %w", err)
		}
		report := router.Route(ctx, ext.Items, s.DisplayName)

		metrics.OrdersTotal.Inc()
		metrics.OrderValueTotal.Add(float64(order.Total))
		logx.Info().
			Str("session_id", s.ID).
			Int("items", len(order.Items)).
			Int("total", order.Total).
			Int("grand_total", s.GrandTotal()).
			Msg("Order recorded")

		turn.Reply = renderOrder(s.DisplayName, order, s.GrandTotal(), first, report.String())
		return turn, nil
	})
}

func NewStatusNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		turn.Reply = renderStatus(turn.Session)
		return turn, nil
	})
}

// NewFarewellNode summarises the session and forwards the exchange.
func NewFarewellNode(router *routing.Router) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		turn.Reply = renderFarewell(turn.Session.DisplayName, turn.Session.GrandTotal())
		router.Forward(ctx, model.ExchangePayload{
			UserName: turn.Session.DisplayName,
			Message:  turn.Input.Utterance,
			BotReply: turn.Reply,
			Type:     model.NotifyFarewell,
		})
		return turn, nil
	})
}

func NewClarifyNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		turn.Reply = renderClarify(turn.Session.DisplayName, turn.Classification.Category, catalog.Menu(turn.Session.Menu))
		return turn, nil
	})
}

// FallbackConfig configures the language-model fallback.
type FallbackConfig struct {
	Model  model.FallbackModelConfig
	Prompt model.PromptConfig
}

// NewFallbackNode asks the chat model for a reply and forwards the exchange.
// A model failure or timeout yields FallbackUnavailableReply; the turn never fails here.
func NewFallbackNode(cm einomodel.BaseChatModel, cfg FallbackConfig, router *routing.Router) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (*model.Turn, error) {
		turn.Reply = generateFallback(ctx, cm, cfg, turn)
		router.Forward(ctx, model.ExchangePayload{
			UserName: turn.Session.DisplayName,
			Message:  turn.Input.Utterance,
			BotReply: turn.Reply,
			Type:     model.NotifyFallback,
		})
		return turn, nil
	})
}

func generateFallback(ctx context.Context, cm einomodel.BaseChatModel, cfg FallbackConfig, turn *model.Turn) string {
	log := logx.Session(turn.Session.ID)
	if cm == nil {
		log.Warn().Msg("No fallback model configured")
		return FallbackUnavailableReply
	}

	msgs, err := prompts.RenderFallback(ctx, cfg.Prompt, prompts.FallbackInput{
		CustomerName: turn.Session.DisplayName,
		Message:      turn.Input.Utterance,
		Categories:   catalog.Menu(turn.Session.Menu).Categories(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render fallback prompt")
		return FallbackUnavailableReply
	}

	timeout := cfg.Model.Timeout
	if timeout <= 0 {
		timeout = defaultFallbackTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := cm.Generate(callCtx, msgs)
	metrics.FallbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).Str("model", cfg.Model.Model).Msg("Fallback model call failed")
		return FallbackUnavailableReply
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		log.Warn().Str("model", cfg.Model.Model).Msg("Fallback model returned an empty reply")
		return FallbackUnavailableReply
	}

	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		usage := out.ResponseMeta.Usage
		inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(cfg.Model.Model))
		log.Debug().
			Str("node", NodeFallback).
			Str("model", cfg.Model.Model).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("input_cost_usd", inC).
			Float64("output_cost_usd", outC).
			Float64("total_cost_usd", totalC).
			Msg("LLM usage")
		_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.TotalCostUSD += totalC
			return nil
		})
	}
	return strings.TrimSpace(out.Content)
}

// NewPersistNode saves the session and emits the reply.
func NewPersistNode(sessions model.SessionRepository) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *model.Turn) (string, error) {
		if err := sessions.Save(ctx, turn.Session); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
		return turn.Reply, nil
	})
}

// NewPersistPostHandler counts the completed turn.
func NewPersistPostHandler() func(context.Context, string, *model.TurnState) (string, error) {
	return func(ctx context.Context, out string, s *model.TurnState) (string, error) {
		metrics.TurnsTotal.WithLabelValues(string(s.Intent)).Inc()
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", string(s.Intent)).
			Float64("total_cost_usd", s.TotalCostUSD).
			Msg("Turn completed")
		return out, nil
	}
}
