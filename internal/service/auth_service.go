package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/authctx"
	"backoffice/internal/config"
	"backoffice/internal/model"
	"backoffice/internal/obs"
	"backoffice/internal/repository"
	"backoffice/internal/sanitize"
	"backoffice/internal/session"
	"backoffice/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid email or password"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string      `json:"-"`
	ExpiresAt time.Time   `json:"expires_at"`
	Me        *MeResponse `json:"me"`
}

// MeResponse describes the signed-in account.
type MeResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	Permissions []string   `json:"permissions"`
}

type CreateSuperuserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"first_name" validate:"max=30"`
	LastName  string `json:"last_name" validate:"max=150"`
}

func (r CreateSuperuserRequest) normalize() CreateSuperuserRequest {
	r.Email = model.NormalizeEmail(r.Email)
	r.FirstName = sanitize.Text(r.FirstName)
	r.LastName = sanitize.Text(r.LastName)
	return r
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// Authenticate resolves a token to the caller, checking the server-side session.
	Authenticate(ctx context.Context, token string) (*authctx.Identity, error)
	Me(ctx context.Context, id *authctx.Identity) (*MeResponse, error)
	CreateSuperuser(ctx context.Context, req CreateSuperuserRequest) (*MeResponse, error)
}

type authService struct {
	workflow
	accounts repository.AccountRepository
	sessions session.Store
	cfg      config.AuthConfig
	now      func() time.Time
}

func NewAuthService(repos *repository.Repositories, sessions session.Store, cfg config.AuthConfig, metrics *obs.Metrics) AuthService {
	return &authService{
		workflow: newWorkflow(repos, metrics),
		accounts: repos.Accounts,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if repository.IsNotFound(err) {
		return nil, apperr.NewUnauthorizedError(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil || !account.IsActive {
		return nil, apperr.NewUnauthorizedError(msgInvalidCredentials)
	}

	ttl := s.cfg.SessionTTL()
	sid, err := s.sessions.Create(ctx, account.ID, ttl)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	token, err := s.sign(account.ID, sid, now, expiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.LastLogin = &now

	me, err := s.me(ctx, account)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Me: me}, nil
}

func (s *authService) sign(accountID, sid uuid.UUID, now, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		ID:        sid.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Revoke(ctx, sessionID)
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*authctx.Identity, error) {
	unauthorized := apperr.NewUnauthorizedError("Authentication required")

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, unauthorized
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, unauthorized
	}
	sid, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, unauthorized
	}

	owner, err := s.sessions.Lookup(ctx, sid)
	if errors.Is(err, session.ErrNotFound) || (err == nil && owner != accountID) {
		return nil, unauthorized
	}
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if repository.IsNotFound(err) || (err == nil && !account.IsActive) {
		return nil, unauthorized
	}
	if err != nil {
		return nil, err
	}

	codes, err := s.accounts.EffectiveCodenames(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	perms := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		perms[c] = struct{}{}
	}

	return &authctx.Identity{
		AccountID:   account.ID,
		SessionID:   sid,
		Email:       account.Email,
		IsSuperuser: account.IsSuperuser,
		Permissions: perms,
	}, nil
}

func (s *authService) Me(ctx context.Context, id *authctx.Identity) (*MeResponse, error) {
	if id == nil {
		return nil, apperr.NewUnauthorizedError("Authentication required")
	}
	account, err := s.accounts.FindByID(ctx, id.AccountID)
	if err != nil {
		return nil, notFound(err, "Account")
	}
	return s.me(ctx, account)
}

func (s *authService) me(ctx context.Context, account *model.Account) (*MeResponse, error) {
	codes, err := s.accounts.EffectiveCodenames(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	sort.Strings(codes)
	if codes == nil {
		codes = []string{}
	}
	return &MeResponse{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		FullName:    account.FullName(),
		IsSuperuser: account.IsSuperuser,
		LastLogin:   account.LastLogin,
		Permissions: codes,
	}, nil
}

// CreateSuperuser creates an account that passes every permission check. It has
// no employee profile.
func (s *authService) CreateSuperuser(ctx context.Context, req CreateSuperuserRequest) (*MeResponse, error) {
	req = req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	var account *model.Account
	err := s.run(ctx, "superuser.create", func(txCtx context.Context) error {
		email := req.Email
		taken, err := s.accounts.EmailTaken(txCtx, email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return apperr.FieldError("email", msgEmailTaken)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		account = &model.Account{
			Email:       email,
			Password:    string(hash),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			IsActive:    true,
			IsStaff:     true,
			IsSuperuser: true,
		}
		if err := s.accounts.Create(txCtx, account); err != nil {
			return uniqueField(err, "accounts", "email", "email", msgEmailTaken)
		}
		return s.record(txCtx, model.ActionCreateSuperuser, account.ID, account.Email, map[string]any{"email": account.Email})
	})
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		FullName:    account.FullName(),
		IsSuperuser: true,
		Permissions: []string{},
	}, nil
}
