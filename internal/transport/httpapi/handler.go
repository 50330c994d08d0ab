package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodbook/orderbot/internal/agent/model"
	errx "github.com/foodbook/orderbot/internal/core/error"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

// Conversations is the session API the transport serves.
type Conversations interface {
	Start(ctx context.Context) (sessionID, reply string, err error)
	Reply(ctx context.Context, sessionID, utterance string) (string, error)
	Orders(ctx context.Context, sessionID string) ([]model.Order, int, error)
}

type Handler struct {
	conversations Conversations
}

func NewHandler(conversations Conversations) *Handler {
	return &Handler{conversations: conversations}
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

type replyResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type ordersResponse struct {
	SessionID  string        `json:"session_id"`
	Orders     []model.Order `json:"orders"`
	GrandTotal int           `json:"grand_total"`
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/sessions", h.StartSession())
	v1.POST("/sessions/:id/messages", h.PostMessage())
	v1.GET("/sessions/:id/orders", h.ListOrders())
	return r
}

// POST /v1/sessions
func (h *Handler) StartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, reply, err := h.conversations.Start(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, replyResponse{SessionID: id, Reply: reply})
	}
}

// POST /v1/sessions/:id/messages
func (h *Handler) PostMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req messageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		id := c.Param("id")
		reply, err := h.conversations.Reply(c.Request.Context(), id, req.Message)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, replyResponse{SessionID: id, Reply: reply})
	}
}

// GET /v1/sessions/:id/orders
func (h *Handler) ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		orders, total, err := h.conversations.Orders(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ordersResponse{SessionID: id, Orders: orders, GrandTotal: total})
	}
}

func abortWithError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errx.MessageOf(err)})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logx.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
