package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tasker/internal/models"
	"tasker/internal/repositories"
	"tasker/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the token and hashing settings of AuthService.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration // zero issues tokens without expiry
	BcryptCost int
}

// RegisterRequest is the payload of a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Age      *int   `json:"age" validate:"omitempty,gte=0"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,excludes=password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles credentials, bearer tokens and sessions.
type AuthService struct {
	userRepo   repositories.UserRepository
	validate   *validation.Validator
	events     Events
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig, events Events) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		validate:   validation.New(),
		events:     events,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cost,
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the salted bcrypt hash of raw.
func (s *AuthService) HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether raw matches hash.
func (s *AuthService) VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// Register validates and stores a new user, then issues their first token.
func (s *AuthService) Register(req RegisterRequest) (*models.User, string, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if err := s.validate.Struct(req); err != nil {
		return nil, "", err
	}

	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
	} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: hashed,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, "", fmt.Errorf("%w: %s", ErrEmailTaken, req.Email)
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	s.events.emit(EventUserRegistered, map[string]interface{}{"userID": user.ID, "email": user.Email})
	return user, token, nil
}

// Login checks credentials and issues an additional token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.VerifyPassword(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a token for userID and appends it to the user's active tokens.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
	}
	if s.tokenTTL > 0 {
		claims["exp"] = now.Add(s.tokenTTL).Unix()
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.userRepo.AddToken(userID, tokenString); err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns the user ID it binds.
// It does not consult the revocation list; see Authenticate.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}
	return userID, nil
}

// Authenticate resolves a bearer token to its user. The token must still be
// in the user's active list.
func (s *AuthService) Authenticate(tokenString string) (*models.User, error) {
	userID, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	active, err := s.userRepo.HasToken(userID, tokenString)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes a single token of the user.
func (s *AuthService) Logout(userID, tokenString string) error {
	if err := s.userRepo.RemoveToken(userID, tokenString); err != nil {
		log.Printf("Error revoking token of user %s: %v", userID, err)
		return err
	}
	return nil
}

// LogoutAll revokes every token of the user.
func (s *AuthService) LogoutAll(userID string) error {
	if err := s.userRepo.ClearTokens(userID); err != nil {
		log.Printf("Error clearing tokens of user %s: %v", userID, err)
		return err
	}
	return nil
}
