package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/graph"
	"github.com/foodbook/orderbot/internal/agent/graph/nodes"
	"github.com/foodbook/orderbot/internal/agent/model"
	errx "github.com/foodbook/orderbot/internal/core/error"
	"github.com/foodbook/orderbot/internal/metrics"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

const (
	defaultCatalogTimeout = 10 * time.Second
	lockStripes           = 64
)

// ErrEmptyUtterance is returned for blank messages; nothing is processed.
var ErrEmptyUtterance error = errx.New(nil, http.StatusBadRequest, "utterance is empty")

// ServiceConfig wires the service to its collaborators.
type ServiceConfig struct {
	Catalog        catalog.Source
	CatalogTimeout time.Duration
	Sessions       model.SessionRepository
	Runner         graph.Runner
	Prompt         model.PromptConfig
}

// Service owns the session lifecycle: it starts sessions and runs one turn at
// a time per session through the conversation graph.
type Service struct {
	catalog        catalog.Source
	catalogTimeout time.Duration
	sessions       model.SessionRepository
	runner         graph.Runner
	prompt         model.PromptConfig

	now   func() time.Time
	newID func() string
	locks [lockStripes]sync.Mutex
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog source is nil")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session repo is nil")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("conversation runner is nil")
	}
	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = defaultCatalogTimeout
	}
	return &Service{
		catalog:        cfg.Catalog,
		catalogTimeout: cfg.CatalogTimeout,
		sessions:       cfg.Sessions,
		runner:         cfg.Runner,
		prompt:         cfg.Prompt,
		now:            time.Now,
		newID:          uuid.NewString,
	}, nil
}

// Start loads the menu, creates a session awaiting the customer's name and
// returns its id with the welcome message. A catalog failure aborts the start.
func (s *Service) Start(ctx context.Context) (string, string, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
	defer cancel()

	menu, err := catalog.LoadAvailable(loadCtx, s.catalog)
	if err != nil {
		return "", "", errx.WrapCatalog(err)
	}

	session := model.NewSession(s.newID(), menu, s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", "", err
	}

	metrics.SessionsStarted.Inc()
	logx.Info().Str("session_id", session.ID).Int("menu_items", len(menu)).Msg("Session started")
	return session.ID, nodes.WelcomeReply(s.prompt.BusinessName), nil
}

// Reply runs one utterance through the conversation. Turns for the same
// session never overlap.
func (s *Service) Reply(ctx context.Context, sessionID, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", ErrEmptyUtterance
	}

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	reply, err := s.runner.Invoke(ctx, session, utterance)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Conversation turn failed")
		return "", err
	}
	return reply, nil
}

// Orders returns the recorded orders and the grand total.
func (s *Service) Orders(ctx context.Context, sessionID string) ([]model.Order, int, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]model.Order, 0, len(session.Orders))
	for _, o := range session.ListOrders() {
		orders = append(orders, o)
	}
	return orders, session.GrandTotal(), nil
}

func (s *Service) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}
