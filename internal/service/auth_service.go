package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/store"
)

// Auth errors surfaced to the HTTP layer.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrValidation         = errors.New("validation failed")
)

// Principal is the resolved caller identity. It travels in the request
// context; there is no ambient session singleton anywhere.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// AuthService covers sign-up, sign-in, sign-out and account updates.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	// Logout denylists the token until its natural expiry.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to a Principal.
	Authenticate(ctx context.Context, token string) (*Principal, error)
	UpdateEmail(ctx context.Context, userID, newEmail string) error
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      string
}

type LoginRequest struct {
	Email    string
	Password string
}

type SessionResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	profiles repository.ProfilesRepository
	denylist store.KV
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(profiles repository.ProfilesRepository, denylist store.KV, secret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		profiles: profiles,
		denylist: denylist,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if req.Role != domain.RoleLandlord && req.Role != domain.RoleTenant {
		return nil, fmt.Errorf("%w: role must be landlord or tenant", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &domain.Profile{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        nullString(strings.TrimSpace(req.Phone)),
		Role:         req.Role,
	}
	id, err := s.profiles.CreateProfile(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		s.logger.Error("sign-up failed", zap.Error(err))
		return nil, err
	}
	p.ProfileID = id

	s.logger.Info("profile registered",
		zap.String("user_id", id),
		zap.String("role", req.Role),
	)
	return s.issueSession(p)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.profiles.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("login failed: unknown email", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(req.Password)); err != nil {
		s.logger.Warn("login failed: bad password", zap.String("user_id", p.ProfileID))
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(p)
}

func (s *authService) issueSession(p *domain.Profile) (*SessionResponse, error) {
	now := time.Now()
	claims := &sessionClaims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ProfileID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &SessionResponse{
		AccessToken: signed,
		UserID:      p.ProfileID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
	}, nil
}

func (s *authService) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func denylistKey(jti string) string { return "auth:denylist:" + jti }

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		// A dead token is as signed out as it gets.
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Set(ctx, denylistKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	if _, err := s.denylist.Get(ctx, denylistKey(claims.ID)); err == nil {
		return nil, ErrInvalidToken
	} else if !errors.Is(err, store.ErrMiss) {
		return nil, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (s *authService) UpdateEmail(ctx context.Context, userID, newEmail string) error {
	newEmail = strings.TrimSpace(strings.ToLower(newEmail))
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	err := s.profiles.UpdateEmail(ctx, userID, newEmail)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return fmt.Errorf("%w: email already registered", ErrValidation)
	}
	return err
}

func (s *authService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.profiles.UpdatePasswordHash(ctx, userID, hash)
}
