package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pasar/internal/errs"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by LoginUser for an unknown user or a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.StandardClaims
}

// Actor returns the identity the claims were issued to.
func (c *Claims) Actor() models.Actor {
	return models.Actor{ID: c.UserID, Role: c.Role}
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// RegisterUser registers a new buyer or seller. The role defaults to buyer;
// admin accounts cannot be self-registered.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	if user.Role == models.RoleAdmin {
		return errs.Forbidden("admin accounts cannot be self-registered")
	}
	return s.ProvisionUser(ctx, user)
}

// ProvisionUser creates a user with any role. It backs RegisterUser and
// trusted callers such as the seed loader.
func (s *AuthService) ProvisionUser(ctx context.Context, user *models.User) error {
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return errs.Validation("role", err)
	}

	// Check if username or email already exists
	if _, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil {
		return errs.Conflict("username '%s' already taken", user.Username)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return errs.Conflict("email '%s' already registered", user.Email)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a signed JWT.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenDurat).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// CurrentUser loads the account behind an actor.
func (s *AuthService) CurrentUser(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.userRepo.GetByID(ctx, actor.ID)
}
