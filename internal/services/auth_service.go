package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/config"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrNoSession          = errors.New("no active session")
	ErrIdentityNotFound   = errors.New("identity not found")
)

// AuthService is the credential provider. It owns identities and refresh
// tokens only; application user rows are provisioned by AccountService.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) SignUp(email, password, name string) (*models.Identity, *TokenPair, error) {
	if len(email) == 0 || len(password) < 8 {
		return nil, nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.Identity
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	identity := models.Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}

	if err := s.db.Create(&identity).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create identity: %w", err)
	}

	pair, err := s.generateTokenPair(&identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, pair, nil
}

func (s *AuthService) SignIn(email, password string) (*models.Identity, *TokenPair, error) {
	var identity models.Identity
	if err := s.db.Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(&identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, pair, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued, so each token is single use.
func (s *AuthService) Refresh(refreshToken string) (*models.Identity, *TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var identity models.Identity
	if err := s.db.First(&identity, "id = ?", stored.IdentityID).Error; err != nil {
		return nil, nil, fmt.Errorf("identity not found: %w", err)
	}

	pair, err := s.generateTokenPair(&identity)
	if err != nil {
		return nil, nil, err
	}
	return &identity, pair, nil
}

func (s *AuthService) SignOut(refreshToken string) error {
	tokenHash := hashToken(refreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// GetIdentity looks up an identity by its opaque id.
func (s *AuthService) GetIdentity(id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	if err := s.db.First(&identity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return &identity, nil
}

func (s *AuthService) VerifyPassword(id uuid.UUID, password string) error {
	identity, err := s.GetIdentity(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) UpdateProfile(id uuid.UUID, name, email string) error {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if email != "" {
		updates["email"] = email
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&models.Identity{}).Where("id = ?", id).Updates(updates).Error
}

func (s *AuthService) UpdatePassword(id uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.Model(&models.Identity{}).Where("id = ?", id).
		Update("password_hash", string(hash)).Error
}

func (s *AuthService) generateTokenPair(identity *models.Identity) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) generateAccessToken(identity *models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID.String(),
		"email": identity.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(identity *models.Identity) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:         uuid.New(),
		IdentityID: identity.ID,
		TokenHash:  tokenHash,
		ExpiresAt:  time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
