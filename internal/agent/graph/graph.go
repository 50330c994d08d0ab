package graph

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	"github.com/foodbook/orderbot/internal/agent/graph/nodes"
	"github.com/foodbook/orderbot/internal/agent/graph/observers"
	"github.com/foodbook/orderbot/internal/agent/model"
	"github.com/foodbook/orderbot/internal/agent/routing"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

// maxRunSteps bounds one turn: classify, one intent node, persist.
const maxRunSteps = 10

// Runner executes one conversation turn against an already loaded session.
// The session is mutated in place and persisted before Invoke returns.
type Runner interface {
	Invoke(ctx context.Context, session *model.Session, utterance string) (string, error)
}

// Config holds everything needed to build the conversation graph.
type Config struct {
	Sessions model.SessionRepository
	Router   *routing.Router
	// Fallback may be nil; unclassified utterances then get a canned reply.
	Fallback einomodel.BaseChatModel
	Model    model.FallbackModelConfig
	Prompt   model.PromptConfig
	Now      func() time.Time
}

// GraphBuilder handles the construction of the conversation graph
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[*model.Turn, string]
}

type graphRunner struct {
	runnable compose.Runnable[*model.Turn, string]
}

func (r *graphRunner) Invoke(ctx context.Context, session *model.Session, utterance string) (string, error) {
	turn := &model.Turn{
		Input:   model.TurnInput{SessionID: session.ID, Utterance: utterance},
		Session: session,
	}
	return r.runnable.Invoke(ctx, turn, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildConversationGraph validates the config, builds and compiles the graph.
func BuildConversationGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session repo is nil")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("station router is nil")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	builder := &GraphBuilder{
		config: &cfg,
		graph: compose.NewGraph[*model.Turn, string](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}
	logx.Debug().Msg("Conversation graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// addNodes adds the classifier, one node per intent and the persist node
func (b *GraphBuilder) addNodes() error {
	cfg := b.config
	intentNodes := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{nodes.NodeNameCapture, nodes.NewNameCaptureNode()},
		{nodes.NodeMenu, nodes.NewMenuNode()},
		{nodes.NodeOrder, nodes.NewOrderNode(cfg.Sessions, cfg.Router, cfg.Now)},
		{nodes.NodeStatus, nodes.NewStatusNode()},
		{nodes.NodeFarewell, nodes.NewFarewellNode(cfg.Router)},
		{nodes.NodeClarify, nodes.NewClarifyNode()},
		{nodes.NodeFallback, nodes.NewFallbackNode(cfg.Fallback, nodes.FallbackConfig{Model: cfg.Model, Prompt: cfg.Prompt}, cfg.Router)},
	}

	if err := b.graph.AddLambdaNode(nodes.NodeClassify,
		nodes.NewClassifyNode(),
		compose.WithStatePreHandler(nodes.NewClassifyPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifyPostHandler()),
	); err != nil {
		return fmt.Errorf("add %s node: %w", nodes.NodeClassify, err)
	}

	for _, n := range intentNodes {
		if err := b.graph.AddLambdaNode(n.key, n.lambda); err != nil {
			return fmt.Errorf("add %s node: %w", n.key, err)
		}
	}

	if err := b.graph.AddLambdaNode(nodes.NodePersist,
		nodes.NewPersistNode(cfg.Sessions),
		compose.WithStatePostHandler(nodes.NewPersistPostHandler()),
	); err != nil {
		return fmt.Errorf("add %s node: %w", nodes.NodePersist, err)
	}
	return nil
}

// addEdges connects START, every intent node and END
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeClassify},
		{nodes.NodePersist, compose.END},
	}
	for n := range nodes.IntentNodes() {
		edges = append(edges, [2]string{n, nodes.NodePersist})
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes the classified turn to exactly one intent node
func (b *GraphBuilder) addBranches() error {
	intentBranch := compose.NewGraphBranch(nodes.NewIntentCondition(), nodes.IntentNodes())
	if err := b.graph.AddBranch(nodes.NodeClassify, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.Turn, string], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("conversation"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
