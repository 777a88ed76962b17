package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	owguides "github.com/creamtown0420/ow-guides"
	"github.com/creamtown0420/ow-guides/internal/domain"
)

var tracer = otel.Tracer("auth")

const linkTokenLifetime = 15 * time.Minute

// UserResolver resolves verified e-mail addresses to accounts.
type UserResolver interface {
	FindOrCreateByEmail(ctx context.Context, email string) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
}

// SessionStore persists opaque session tokens.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Mailer delivers sign-in links.
type Mailer interface {
	SendLoginLink(ctx context.Context, email, link string) error
}

// AuthService implements passwordless e-mail link sign-in: a short-lived
// signed link token is mailed out, and redeeming it mints a server
// session.
type AuthService struct {
	config   domain.Config
	users    UserResolver
	sessions SessionStore
	mailer   Mailer
	signal   *SignalService
}

func NewAuthService(
	config domain.Config,
	users UserResolver,
	sessions SessionStore,
	mailer Mailer,
	signal *SignalService,
) *AuthService {
	return &AuthService{
		config:   config,
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		signal:   signal,
	}
}

// RequestLink mails a one-time sign-in link for the address.
func (s *AuthService) RequestLink(ctx context.Context, email string) error {
	ctx, span := tracer.Start(ctx, "Auth.Service.RequestLink")
	defer span.End()

	if !owguides.IsValidEmail(email) {
		return domain.InvalidError{Reason: "invalid email address"}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"aud": "login",
		"iss": s.config.FQDN,
		"iat": now.Unix(),
		"exp": now.Add(linkTokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.LinkSecret))
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to sign link token")
	}

	link := fmt.Sprintf("%s?token=%s", s.config.LinkBaseURL, token)
	if err := s.mailer.SendLoginLink(ctx, email, link); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to send login link")
	}
	return nil
}

// Redeem exchanges a link token for a session, creating the account on
// first sign-in.
func (s *AuthService) Redeem(ctx context.Context, token string) (owguides.SessionResponse, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Redeem")
	defer span.End()

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.LinkSecret), nil
	}, jwt.WithAudience("login"), jwt.WithIssuer(s.config.FQDN), jwt.WithExpirationRequired())
	if err != nil {
		span.RecordError(err)
		return owguides.SessionResponse{}, domain.InvalidError{Reason: "invalid or expired link"}
	}

	email, err := parsed.Claims.GetSubject()
	if err != nil || email == "" {
		return owguides.SessionResponse{}, domain.InvalidError{Reason: "invalid or expired link"}
	}

	user, err := s.users.FindOrCreateByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return owguides.SessionResponse{}, errors.Wrap(err, "failed to resolve user")
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		return owguides.SessionResponse{}, errors.Wrap(err, "failed to create session")
	}

	s.notifySessionChange(ctx, user.ID)

	return owguides.SessionResponse{
		Session: session,
		UserID:  user.ID,
		Email:   user.Email,
	}, nil
}

// SignOut revokes a session token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "Auth.Service.SignOut")
	defer span.End()

	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		// Already gone; nothing to revoke.
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to delete session")
	}

	s.notifySessionChange(ctx, userID)
	return nil
}

// Authenticate maps a bearer session token to its user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Authenticate")
	defer span.End()

	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		span.RecordError(err)
		return "", domain.ErrSignInRequired
	}
	return userID, nil
}

// User looks up the account behind a requester id.
func (s *AuthService) User(ctx context.Context, id string) (domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *AuthService) notifySessionChange(ctx context.Context, userID string) {
	if s.signal == nil {
		return
	}
	// Session-change events are best-effort; Publish logs its own failures.
	s.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventSessionChanged,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
}
