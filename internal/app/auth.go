package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tourism_booking/internal/domain"
	"tourism_booking/internal/security"
)

// LoginResult is returned to the admin UI; the hash is never included.
type LoginResult struct {
	Admin     domain.AdminUser `json:"admin"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type NewAdminInput struct {
	Email    string           `json:"email" validate:"required,email,max=255"`
	Password string           `json:"password" validate:"required,min=8,max=72"`
	FullName string           `json:"full_name" validate:"max=255"`
	Role     domain.AdminRole `json:"role" validate:"required,oneof=super_admin admin manager"`
}

type AuthService struct {
	admins   domain.AdminRepository
	tokens   *security.TokenManager
	sessions domain.SessionStore
	now      func() time.Time
}

func NewAuthService(a domain.AdminRepository, t *security.TokenManager, s domain.SessionStore) *AuthService {
	return &AuthService{admins: a, tokens: t, sessions: s, now: time.Now}
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Login is the only way to obtain an admin session. Inactive accounts are
// refused before the password is looked at.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, domain.Invalid("", "email and password are required")
	}
	a, err := s.admins.GetAdminByEmail(ctx, email)
	if isNotFound(err) {
		return LoginResult{}, domain.ErrUnauthorized
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !a.Active {
		return LoginResult{}, domain.ErrInactive
	}
	if !security.CheckPassword(a.PasswordHash, password) {
		return LoginResult{}, domain.ErrUnauthorized
	}

	now := s.now().UTC()
	if err := s.admins.TouchLastLogin(ctx, a.ID, now); err != nil {
		log.Warn().Err(err).Int64("admin_id", a.ID).Msg("last_login_at not updated")
	}
	token, jti, exp, err := s.tokens.Issue(a.ID, a.Email, string(a.Role))
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.sessions.Put(ctx, jti, a.ID, s.tokens.TTL()); err != nil {
		return LoginResult{}, err
	}
	a.PasswordHash = ""
	a.LastLoginAt = &now
	return LoginResult{Admin: a, Token: token, ExpiresAt: exp}, nil
}

// Authenticate checks the token, the live session behind it and the admin's
// current state. It runs on every admin request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.AdminUser, error) {
	if token == "" {
		return domain.AdminUser{}, domain.ErrUnauthorized
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return domain.AdminUser{}, domain.ErrUnauthorized
	}
	id, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return domain.AdminUser{}, err // ErrUnauthorized when the session is gone
	}
	if id != claims.AdminID {
		return domain.AdminUser{}, domain.ErrUnauthorized
	}
	a, err := s.admins.GetAdminByID(ctx, id)
	if isNotFound(err) {
		return domain.AdminUser{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.AdminUser{}, err
	}
	if !a.Active {
		_ = s.sessions.Delete(ctx, claims.ID)
		return domain.AdminUser{}, domain.ErrInactive
	}
	a.PasswordHash = ""
	return a, nil
}

// Logout ends the session. Unknown or expired tokens are already logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// CreateAdmin is reserved to super admins.
func (s *AuthService) CreateAdmin(ctx context.Context, actor domain.AdminUser, in NewAdminInput) (domain.AdminUser, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return domain.AdminUser{}, domain.ErrForbidden
	}
	return s.Bootstrap(ctx, in)
}

// Bootstrap creates an admin without an acting session (CLI use).
func (s *AuthService) Bootstrap(ctx context.Context, in NewAdminInput) (domain.AdminUser, error) {
	in.Email = normEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := check(in); err != nil {
		return domain.AdminUser{}, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return domain.AdminUser{}, err
	}
	a := domain.AdminUser{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		Active:       true,
	}
	id, err := s.admins.CreateAdmin(ctx, a)
	if err != nil {
		return domain.AdminUser{}, err
	}
	a.ID = id
	a.PasswordHash = ""
	a.CreatedAt = s.now().UTC()
	return a, nil
}

// TestPassword reports whether password matches the stored hash without
// opening a session.
func (s *AuthService) TestPassword(ctx context.Context, actor domain.AdminUser, email, password string) (bool, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return false, domain.ErrForbidden
	}
	a, err := s.admins.GetAdminByEmail(ctx, normEmail(email))
	if err != nil {
		return false, err
	}
	return security.CheckPassword(a.PasswordHash, password), nil
}
