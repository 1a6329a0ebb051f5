// internal/app/auth.go
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"
)

const passwordField = "password"

// Auth holds the single shared secret that gates mutating requests.
// The secret comes from the config as plain text or a bcrypt hash, or is
// read from a redis hash on every check so it can be rotated without a restart.
type Auth struct {
	secret      string
	hash        []byte
	redis       *redis.Client
	passwordKey string
}

func NewAuth(config *Config) (*Auth, error) {
	if config.Auth.RedisURL == "" {
		return &Auth{
			secret: config.Auth.Password,
			hash:   []byte(config.Auth.PasswordHash),
		}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		redis:       client,
		passwordKey: config.Auth.PasswordKey,
	}, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// Verify reports whether password matches the configured secret, case-sensitively.
func (a *Auth) Verify(ctx context.Context, password string) (bool, error) {
	if a.redis != nil {
		secret, err := a.redis.HGet(ctx, a.passwordKey, passwordField).Result()
		if errors.Is(err, redis.Nil) {
			return false, fmt.Errorf("no secret stored under %s", a.passwordKey)
		}
		if err != nil {
			return false, fmt.Errorf("redis error: %w", err)
		}
		return constantTimeEqual(password, secret), nil
	}

	if len(a.hash) > 0 {
		if password == "" {
			return false, nil
		}
		err := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			logger.Debug.Printf("bcrypt compare failed: %v", err)
			return false, fmt.Errorf("invalid password hash: %w", err)
		}
		return true, nil
	}

	return constantTimeEqual(password, a.secret), nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
