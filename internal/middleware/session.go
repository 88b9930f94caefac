package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mmorpgboard/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie is the name of the cookie carrying the signed session.
	SessionCookie = "board_session"

	sessionIssuer   = "mmorpg-board"
	sessionAudience = "board-web"
)

var errInvalidSession = errors.New("invalid session")

// Revoker remembers logged-out session ids until they would have expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionClaims are the claims of a session token.
type SessionClaims struct {
	UserID uint
	ID     string
	Expiry time.Time
}

// SessionManager issues and checks the signed session cookie.
type SessionManager struct {
	secret  []byte
	ttl     time.Duration
	secure  bool
	revoker Revoker
	now     func() time.Time
}

// NewSessionManager builds a SessionManager from the config. revoker may be nil.
func NewSessionManager(cfg *config.Config, revoker Revoker) *SessionManager {
	return &SessionManager{
		secret:  []byte(cfg.SessionSecret),
		ttl:     time.Duration(cfg.SessionTTLHours) * time.Hour,
		secure:  cfg.CookieSecure,
		revoker: revoker,
		now:     time.Now,
	}
}

// Issue signs a new session token for userID.
func (m *SessionManager) Issue(userID uint) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    sessionIssuer,
		Audience:  jwt.ClaimStrings{sessionAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Parse validates a session token and returns its claims.
func (m *SessionManager) Parse(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidSession
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, errInvalidSession
	}

	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			Logger.WarnContext(ctx, "session revocation lookup failed", "error", err)
		} else if revoked {
			return nil, errInvalidSession
		}
	}

	out := &SessionClaims{UserID: uint(userID), ID: claims.ID}
	if claims.ExpiresAt != nil {
		out.Expiry = claims.ExpiresAt.Time
	}
	return out, nil
}

// Start sets the session cookie for userID on the response.
func (m *SessionManager) Start(c *fiber.Ctx, userID uint) error {
	token, expires, err := m.Issue(userID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// End revokes the current session, if any, and clears the cookie.
func (m *SessionManager) End(c *fiber.Ctx) {
	if raw := c.Cookies(SessionCookie); raw != "" {
		if claims, err := m.Parse(c.UserContext(), raw); err == nil && m.revoker != nil {
			ttl := claims.Expiry.Sub(m.now())
			if ttl > 0 {
				if err := m.revoker.Revoke(c.UserContext(), claims.ID, ttl); err != nil {
					Logger.WarnContext(c.UserContext(), "failed to revoke session", "error", err)
				}
			}
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// AuthRequired is a middleware that enforces a valid session for protected routes.
func (m *SessionManager) AuthRequired(c *fiber.Ctx) error {
	raw := c.Cookies(SessionCookie)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Login required",
			"code":  "SESSION_REQUIRED",
		})
	}

	claims, err := m.Parse(c.UserContext(), raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
			"code":  "SESSION_REQUIRED",
		})
	}

	c.Locals("userID", claims.UserID)
	c.SetUserContext(WithUserID(c.UserContext(), claims.UserID))

	return c.Next()
}
