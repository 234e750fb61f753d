package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/timvest/intake-server-go/internal/errors"
	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/repository"
	"github.com/timvest/intake-server-go/internal/util"
)

// timingPadHash is compared against when the email is unknown so both failure
// paths pay for a bcrypt comparison. CalibrateTimingPad replaces it with one
// matching the seed account's cost.
const timingPadHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

// TokenClaims is the signed payload: {id, email, role} plus expiry.
type TokenClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AdminUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

type AuthService struct {
	adminRepo repository.AdminRepository
	secret    []byte
	tokenTTL  time.Duration
	padHash   string
	now       func() time.Time
}

func NewAuthService(adminRepo repository.AdminRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		padHash:   timingPadHash,
		now:       time.Now,
	}
}

// CalibrateTimingPad regenerates the pad hash at the bcrypt cost of
// referenceHash, so an unknown email costs as much as a wrong password.
func (s *AuthService) CalibrateTimingPad(referenceHash string) error {
	cost, err := util.HashCost(referenceHash)
	if err != nil {
		return fmt.Errorf("read bcrypt cost: %w", err)
	}
	pad, err := util.HashPassword("timing-pad", cost)
	if err != nil {
		return fmt.Errorf("build timing pad: %w", err)
	}
	s.padHash = pad
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil {
		util.CheckPasswordHash(password, s.padHash)
		return nil, apperrors.InvalidCredentials()
	}
	if !util.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	token, err := s.IssueToken(model.Principal{
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: AdminUser{
			ID:    account.ID,
			Email: account.Email,
			Name:  account.Name,
			Role:  account.Role,
		},
	}, nil
}

func (s *AuthService) IssueToken(principal model.Principal) (string, error) {
	now := s.now()
	claims := TokenClaims{
		ID:    principal.ID,
		Email: principal.Email,
		Role:  principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token").WithCause(fmt.Errorf("sign token: %w", err))
	}
	return token, nil
}

// Authenticate verifies signature and expiry. Nothing is looked up server-side.
func (s *AuthService) Authenticate(token string) (*model.Principal, error) {
	if token == "" {
		return nil, apperrors.MissingToken()
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperrors.TokenExpired()
	}
	if err != nil || !parsed.Valid {
		return nil, apperrors.InvalidToken("Invalid token").WithCause(err)
	}

	return &model.Principal{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// Authorize fails with AccessDenied unless the principal holds role.
func Authorize(principal *model.Principal, role string) error {
	if principal == nil || principal.Role != role {
		return apperrors.AccessDenied()
	}
	return nil
}
