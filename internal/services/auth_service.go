package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/models"
	"github.com/campuseats/backend/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountBanned      = errors.New("account suspended")
	// ErrIdentityConflict means the asserted email already belongs to a
	// password account. Accounts are never auto-linked.
	ErrIdentityConflict = errors.New("email in use by another account")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := req.Name
	if name == "" {
		name = strings.Split(req.Email, "@")[0]
	}

	hashStr := string(hash)
	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    req.Email,
		Password: &hashStr,
		Role:     models.RoleStudent,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(&user, s.cfg.JWTLoginExpiry)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	// OAuth-originated accounts have no password hash to compare.
	if user.Password == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	return s.authResponse(&user, s.cfg.JWTLoginExpiry)
}

// GoogleSignIn completes an OAuth login for a verified provider profile:
// resolve the user by external identity id, creating the account on first
// login. Concurrent first logins race on the insert; the uniqueness
// constraint is the correctness guard and the loser re-fetches the winner's
// row instead of failing the login.
func (s *AuthService) GoogleSignIn(profile *GoogleProfile) (*dto.AuthResponse, error) {
	if profile.Sub == "" {
		return nil, errors.New("provider profile missing subject id")
	}

	var user models.User
	err := s.db.Where("google_id = ?", profile.Sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, cerr := s.createGoogleUser(profile)
		if cerr != nil {
			return nil, cerr
		}
		user = *created
	} else if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	return s.authResponse(&user, s.cfg.JWTOAuthExpiry)
}

func (s *AuthService) createGoogleUser(profile *GoogleProfile) (*models.User, error) {
	name := profile.Name
	if name == "" {
		name = strings.Split(profile.Email, "@")[0]
	}

	sub := profile.Sub
	user := models.User{
		ID:         uuid.New(),
		GoogleID:   &sub,
		Name:       name,
		Email:      profile.Email,
		Role:       models.RoleStudent,
		IsVerified: profile.EmailVerified,
	}

	err := s.db.Create(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Either a concurrent callback for the same identity won the insert,
	// or the email belongs to a password account.
	var existing models.User
	if ferr := s.db.Where("google_id = ?", profile.Sub).First(&existing).Error; ferr == nil {
		return &existing, nil
	}
	return nil, ErrIdentityConflict
}

// Me returns the public view of a user.
func (s *AuthService) Me(user *models.User) dto.UserResponse {
	return userResponse(user)
}

func (s *AuthService) authResponse(user *models.User, ttl time.Duration) (*dto.AuthResponse, error) {
	signed, err := token.Issue([]byte(s.cfg.JWTSecret), token.Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
	}, ttl)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: signed,
		User:  userResponse(user),
	}, nil
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}
}
