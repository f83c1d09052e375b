// Package middleware carries the participant session. Joining a board
// issues a signed cookie binding the participant id to the board slug;
// every mutating endpoint requires it.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/logger"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

const SessionCookie = "session"

// Session is the decoded cookie payload.
type Session struct {
	ParticipantId domain.ParticipantId
	BoardSlug     domain.BoardSlug
}

type key int

const sessionKey key = 0

type Sessions struct {
	secretKey string
	ttl       time.Duration
	secure    bool
}

func NewSessions(secretKey string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secretKey, ttl, secure}
}

// Issue signs a session for the participant and sets the cookie.
func (s *Sessions) Issue(w http.ResponseWriter, slug domain.BoardSlug, participantId domain.ParticipantId) error {
	claims := jwt.MapClaims{
		"pid":   participantId,
		"board": slug,
		"exp":   time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return fmt.Errorf("can't create session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Sessions) decode(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Please join the board first", StatusCode: http.StatusUnauthorized}
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session claims", StatusCode: http.StatusUnauthorized}
	}
	pid, ok := claims["pid"].(float64)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session claims", StatusCode: http.StatusUnauthorized}
	}
	slug, ok := claims["board"].(string)
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid session claims", StatusCode: http.StatusUnauthorized}
	}

	return &Session{ParticipantId: domain.ParticipantId(pid), BoardSlug: slug}, nil
}

// Require rejects requests without a valid session.
func (s *Sessions) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.decode(r)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

// Optional attaches the session when present and continues anonymously
// otherwise. Used on the board view so joined participants see their
// own hidden cards.
func (s *Sessions) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, err := s.decode(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey, session))
		}
		next(w, r)
	}
}

func FromContext(r *http.Request) *Session {
	session, ok := r.Context().Value(sessionKey).(*Session)
	if !ok {
		return nil
	}
	return session
}
