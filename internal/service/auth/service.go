package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/truewood-ems/ems-backend-go/internal/domain/auth"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	adminEmail        string
	adminPasswordHash string
	jwt.Service
}

func NewAuthService(adminEmail string, adminPasswordHash string, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		adminEmail:        strings.ToLower(strings.TrimSpace(adminEmail)),
		adminPasswordHash: adminPasswordHash,
		Service:           jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if a.adminEmail == "" || a.adminPasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrLoginDisabled
	}
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	// compare the password even on an email mismatch so both paths cost the same
	passwordErr := bcrypt.CompareHashAndPassword([]byte(a.adminPasswordHash), []byte(req.Password))
	if req.Email != a.adminEmail || passwordErr != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(a.adminEmail, jwt.RoleAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		TokenType:            "Bearer",
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	tok, _, err := jwtauth.FromContext(ctx)
	if err != nil || tok == nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, tok.Expiration().Unix())
	return nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" {
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}

	return auth.ProfileResponse{Email: email, Role: role}, nil
}
