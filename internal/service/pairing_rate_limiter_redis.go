package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Devuelve 1 si el intento entra en la ventana, 0 si la clave agotó sus intentos.
// ARGV[1] = ventana en ms, ARGV[2] = intentos permitidos.
const redisPairingAttemptScript = `
local attempts = redis.call("INCR", KEYS[1])
if attempts == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if attempts > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const (
	pairingAttemptsKeyPrefix = "ggd:pairing:attempts:"
	redisLimiterTimeout      = 500 * time.Millisecond
)

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisPairingRateLimiter struct {
	client  redisEvaler
	logger  *zap.Logger
	window  time.Duration
	max     int
	timeout time.Duration
}

// NewRedisPairingRateLimiter comparte el contador de intentos de emparejamiento
// entre réplicas de la API.
func NewRedisPairingRateLimiter(client *redis.Client, logger *zap.Logger, window time.Duration, max int) PairingRateLimiter {
	if client == nil {
		return nil
	}
	return newRedisPairingRateLimiter(client, logger, window, max)
}

func newRedisPairingRateLimiter(client redisEvaler, logger *zap.Logger, window time.Duration, max int) *redisPairingRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisPairingRateLimiter{
		client:  client,
		logger:  logger,
		window:  window,
		max:     max,
		timeout: redisLimiterTimeout,
	}
}

// Allow falla abierto si Redis no responde; el error queda en el log.
func (l *redisPairingRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	clientKey := normalizeLimiterKey(key)
	if clientKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	allowed, err := l.client.Eval(ctx, redisPairingAttemptScript,
		[]string{pairingAttemptsKeyPrefix + clientKey},
		l.window.Milliseconds(), l.max,
	).Int()
	if err != nil {
		l.logger.Warn("pairing limiter unavailable, allowing attempt", zap.String("client", clientKey), zap.Error(err))
		return true
	}
	if allowed == 0 {
		l.logger.Info("pairing attempts exhausted", zap.String("client", clientKey))
		return false
	}
	return true
}
