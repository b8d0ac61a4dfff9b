package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// PermissionResolver resolves the permission set of a loaded user.
type PermissionResolver interface {
	ResolveSubject(ctx context.Context, subject rbac.Subject) (rbac.PermissionSet, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	resolver PermissionResolver
	cost     int
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, resolver PermissionResolver) *Service {
	return &Service{repo: repo, tokens: tokens, resolver: resolver, cost: bcrypt.DefaultCost}
}

// Register creates an active user without a role and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return Session{}, fmt.Errorf("user already exists: %w", shared.ErrDuplicate)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Session{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Session{}, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(in.Name), email, string(hash))
	if err != nil {
		return Session{}, err
	}
	return s.session(ctx, user, TokenAccess, TokenRefresh)
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues an access/refresh pair.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	user, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return Session{}, err
	}
	return s.session(ctx, user, TokenAccess, TokenRefresh)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", rbac.ErrUnauthenticated, err)
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return Session{}, err
	}
	return s.session(ctx, user, TokenAccess)
}

// Me returns the caller with its resolved permissions.
func (s *Service) Me(ctx context.Context, userID int64) (Session, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Session{}, rbac.ErrUnauthenticated
		}
		return Session{}, err
	}
	return s.session(ctx, user)
}

// Principal verifies an access token and loads the active user behind it.
func (s *Service) Principal(ctx context.Context, accessToken string) (shared.Principal, error) {
	claims, err := s.tokens.Verify(accessToken, TokenAccess)
	if err != nil {
		return shared.Principal{}, fmt.Errorf("%w: %v", rbac.ErrUnauthenticated, err)
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return shared.Principal{}, err
	}
	return shared.Principal{UserID: user.ID, Email: user.Email}, nil
}

func (s *Service) activeUser(ctx context.Context, claims Claims) (*User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rbac.ErrUnauthenticated, err)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, rbac.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, rbac.ErrUnauthenticated
	}
	return user, nil
}

func (s *Service) session(ctx context.Context, user *User, issue ...TokenType) (Session, error) {
	set, err := s.resolver.ResolveSubject(ctx, rbac.Subject{
		UserID:              user.ID,
		RoleID:              user.RoleID,
		PermissionsOverride: user.PermissionsOverride,
		IsSuperAdmin:        user.IsSuperAdmin,
		IsActive:            user.IsActive,
	})
	if err != nil {
		return Session{}, err
	}
	out := Session{User: *user, Permissions: set.List()}
	for _, typ := range issue {
		token, err := s.tokens.Issue(user.ID, typ)
		if err != nil {
			return Session{}, err
		}
		switch typ {
		case TokenAccess:
			out.AccessToken = token
		case TokenRefresh:
			out.RefreshToken = token
		}
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
