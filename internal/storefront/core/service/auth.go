package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

const tokenIssuer = "surreal-sabor"

type AdminClaims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and checks HS256 bearer tokens for the admin area.
type AuthService struct {
	admins ports.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(admins ports.AdminRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{admins: admins, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// HashPassword is used when provisioning admin accounts.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login checks the credentials and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, *entity.Admin, error) {
	if username == "" || password == "" {
		return "", nil, entity.Validationf("username and password are required")
	}

	admin, err := a.admins.GetAdminByUsername(ctx, username)
	if errors.Is(err, entity.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: invalid credentials", entity.ErrAuth)
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", entity.ErrAuth)
	}

	now := a.now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, admin, nil
}

// Verify parses a token and returns the admin it was issued to.
func (a *AuthService) Verify(ctx context.Context, token string) (*entity.Admin, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", entity.ErrAuth)
	}

	var claims AdminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrAuth, err)
	}

	admin, err := a.admins.GetAdmin(ctx, claims.AdminID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: admin no longer exists", entity.ErrAuth)
	}
	return admin, err
}
