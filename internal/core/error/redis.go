package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// RedisOp names the command and key a Redis failure came from.
type RedisOp struct {
	Cmd string
	Key string
	// Missing replaces redis.Nil when set, so callers match their own
	// not-found sentinel instead of the driver's.
	Missing        error
	MissingMessage string
}

// WrapRedis classifies err from op as an AppError. A missing key is a 404,
// an exhausted deadline a 504, a closed client a 503 and anything else a 502.
func WrapRedis(op RedisOp, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, redis.Nil):
		if op.Missing != nil {
			return New(fmt.Errorf("%w: %s", op.Missing, op.Key), http.StatusNotFound, op.MissingMessage)
		}
		return New(op.annotate(err), http.StatusNotFound, RedisNotFoundMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return New(op.annotate(err), http.StatusGatewayTimeout, RedisTimeoutMessage)
	case errors.Is(err, redis.ErrClosed):
		return New(op.annotate(err), http.StatusServiceUnavailable, RedisClosedMessage)
	}
	return New(op.annotate(err), http.StatusBadGateway, RedisErrorMessage)
}

func (op RedisOp) annotate(err error) error {
	return fmt.Errorf("redis %s %s: %w", op.Cmd, op.Key, err)
}
