// Package session persists who is logged in to hubctl between invocations.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/sensai-ai/hubkit/internal/auth"
	"go.uber.org/zap"
)

// KeyPrefix namespaces session keys in Redis.
const KeyPrefix = "hubctl:session:"

// DefaultTTL applies when the token carries no expiry.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrNoSession      = errors.New("no stored session")
	ErrInvalidProfile = errors.New("session profile must not be empty")
)

// Session is the stored viewer identity.
type Session struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// User returns the session as an auth user.
func (s Session) User() auth.User {
	return auth.User{ID: s.UserID, Email: s.Email}
}

// Store keeps sessions in Redis, one per profile.
type Store struct {
	redis  rueidis.Client
	logger *zap.Logger
}

// NewStore creates a Store on the given client.
func NewStore(client rueidis.Client, logger *zap.Logger) *Store {
	return &Store{
		redis:  client,
		logger: logger.Named("session"),
	}
}

// Save stores the session until it expires.
func (s *Store) Save(ctx context.Context, profile string, sess Session, now time.Time) error {
	if profile == "" {
		return ErrInvalidProfile
	}

	ttl := DefaultTTL
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(now)
		if ttl <= 0 {
			return auth.ErrTokenExpired
		}
	} else {
		sess.ExpiresAt = now.Add(ttl)
	}

	data, err := sonic.MarshalString(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.redis.Do(ctx,
		s.redis.B().Set().Key(KeyPrefix+profile).Value(data).Ex(ttl).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug("Stored session",
		zap.String("profile", profile),
		zap.Int64("userID", sess.UserID),
		zap.Duration("ttl", ttl))

	return nil
}

// Load returns the stored session or ErrNoSession.
func (s *Store) Load(ctx context.Context, profile string) (*Session, error) {
	if profile == "" {
		return nil, ErrInvalidProfile
	}

	data, err := s.redis.Do(ctx, s.redis.B().Get().Key(KeyPrefix+profile).Build()).ToString()
	if rueidis.IsRedisNil(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := sonic.UnmarshalString(data, &sess); err != nil {
		s.logger.Warn("Dropping unreadable session", zap.String("profile", profile), zap.Error(err))
		_ = s.Delete(ctx, profile)
		return nil, ErrNoSession
	}

	return &sess, nil
}

// Delete removes the stored session.
func (s *Store) Delete(ctx context.Context, profile string) error {
	if profile == "" {
		return ErrInvalidProfile
	}

	if err := s.redis.Do(ctx, s.redis.B().Del().Key(KeyPrefix+profile).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Login parses a session token and stores the viewer it names.
func (s *Store) Login(ctx context.Context, profile, token string, secret []byte, now time.Time) (*Session, error) {
	claims, err := auth.ParseToken(token, secret, now)
	if err != nil {
		return nil, err
	}

	sess := Session{
		UserID:    claims.User.ID,
		Email:     claims.User.Email,
		ExpiresAt: claims.ExpiresAt,
	}
	if err := s.Save(ctx, profile, sess, now); err != nil {
		return nil, err
	}

	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = now.Add(DefaultTTL)
	}
	return &sess, nil
}
