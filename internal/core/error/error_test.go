package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	op := RedisOp{Cmd: "GET", Key: "session:abc"}
	assert.NoError(t, WrapRedis(op, nil))

	err := WrapRedis(op, redis.Nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, RedisNotFoundMessage, MessageOf(err))
	assert.ErrorIs(t, err, redis.Nil)

	boom := errors.New("connection refused")
	err = WrapRedis(op, boom)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, RedisErrorMessage, MessageOf(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "redis operation failed: redis GET session:abc: connection refused", err.Error())
}

func TestWrapRedis_MissingSentinel(t *testing.T) {
	gone := errors.New("cart gone")
	op := RedisOp{Cmd: "GET", Key: "cart:7", Missing: gone, MissingMessage: "cart not found"}

	err := WrapRedis(op, redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, "cart not found", MessageOf(err))
	assert.ErrorIs(t, err, gone)
	assert.NotErrorIs(t, err, redis.Nil)

	// the sentinel only replaces a missing key
	err = WrapRedis(op, errors.New("READONLY"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.NotErrorIs(t, err, gone)
}

func TestWrapRedis_Classifies(t *testing.T) {
	op := RedisOp{Cmd: "SET", Key: "session:abc"}
	cases := map[string]struct {
		err     error
		status  int
		message string
	}{
		"deadline":         {context.DeadlineExceeded, http.StatusGatewayTimeout, RedisTimeoutMessage},
		"wrapped deadline": {fmt.Errorf("dial: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, RedisTimeoutMessage},
		"closed client":    {redis.ErrClosed, http.StatusServiceUnavailable, RedisClosedMessage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := WrapRedis(op, tc.err)
			assert.Equal(t, tc.status, StatusOf(err))
			assert.Equal(t, tc.message, MessageOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestWrapCatalog(t *testing.T) {
	assert.NoError(t, WrapCatalog(nil))

	cause := errors.New("sheet unreachable")
	err := WrapCatalog(cause)
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(err))
	assert.Equal(t, "menu catalog unavailable: sheet unreachable", err.Error())

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CatalogUnavailableMessage, appErr.Message)
}

func TestStatusOf_PlainError(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, SystemErrorMessage, MessageOf(err))
}
