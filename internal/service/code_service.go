// Package service holds the board's business rules between the HTTP layer
// and the repositories.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"mmorpgboard/internal/config"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/observability"
	"mmorpgboard/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// CodeService issues and checks one-time login codes.
type CodeService struct {
	codes      repository.CodeRepository
	length     int
	defaultTTL int
	hashCost   int
	now        func() time.Time
}

// NewCodeService returns a CodeService using the code length and TTL from cfg.
func NewCodeService(codes repository.CodeRepository, cfg *config.Config) *CodeService {
	length := cfg.CodeLength
	if length <= 0 {
		length = 5
	}
	ttl := cfg.CodeTTLSeconds
	if ttl <= 0 {
		ttl = 120
	}
	return &CodeService{
		codes:      codes,
		length:     length,
		defaultTTL: ttl,
		hashCost:   bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Now is the service clock.
func (s *CodeService) Now() time.Time {
	return s.now()
}

// DefaultTTL is the lifetime in seconds given to codes issued without an explicit TTL.
func (s *CodeService) DefaultTTL() int {
	return s.defaultTTL
}

// Issue creates a fresh code for userID. A ttlSeconds of zero or less uses
// the configured default. The returned code carries the plain digits in Code.
func (s *CodeService) Issue(ctx context.Context, userID uint, ttlSeconds int) (*models.OneTimeCode, error) {
	if ttlSeconds <= 0 {
		ttlSeconds = s.defaultTTL
	}

	digits, err := randomDigits(s.length)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("generate code: %w", err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(digits), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("hash code: %w", err))
	}

	code := &models.OneTimeCode{
		UserID:     userID,
		CodeHash:   string(hash),
		CreatedAt:  s.now(),
		TTLSeconds: ttlSeconds,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}
	code.Code = digits
	observability.CodesIssued.Inc()
	return code, nil
}

// Verify checks submitted against the most recent code of userID at now and
// consumes it on success.
func (s *CodeService) Verify(ctx context.Context, userID uint, submitted string, now time.Time) (_ *models.OneTimeCode, err error) {
	ctx, span := observability.StartSpan(ctx, "CodeService", "Verify", attribute.Int64("user.id", int64(userID)))
	defer func() { observability.EndSpan(span, err) }()

	code, err := s.codes.Latest(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			observability.CodeVerifications.WithLabelValues(observability.ResultNotFound).Inc()
			return nil, models.ErrCodeNotFound
		}
		return nil, err
	}

	switch {
	case code.IsConsumed():
		observability.CodeVerifications.WithLabelValues(observability.ResultNotFound).Inc()
		return nil, models.ErrCodeNotFound
	case code.IsExpired(now):
		observability.CodeVerifications.WithLabelValues(observability.ResultExpired).Inc()
		return nil, models.ErrCodeExpired
	}

	submitted = strings.TrimSpace(submitted)
	if err := bcrypt.CompareHashAndPassword([]byte(code.CodeHash), []byte(submitted)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewInternalError(err)
		}
		observability.CodeVerifications.WithLabelValues(observability.ResultMismatch).Inc()
		return nil, models.ErrCodeMismatch
	}

	consumed, err := s.codes.MarkConsumed(ctx, code.ID, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		observability.CodeVerifications.WithLabelValues(observability.ResultNotFound).Inc()
		return nil, models.ErrCodeNotFound
	}
	code.ConsumedAt = &now
	observability.CodeVerifications.WithLabelValues(observability.ResultOK).Inc()
	return code, nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
