package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"sweetshop/internal/domain"
	"sweetshop/internal/repos"
)

var (
	ErrBadCreds = errors.New("invalid email or password")
	ErrTaken    = errors.New("email or username already registered")
	ErrBadToken = errors.New("invalid or expired token")
)

type AuthService struct {
	Users    *repos.UserRepo
	Secret   []byte
	TokenTTL time.Duration
}

type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(email, username, password string) (*domain.User, error) {
	taken, err := s.Users.Taken(email, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	return s.Users.Create(email, username, string(h))
}

// Login verifies credentials and issues a signed bearer token.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}

	now := time.Now()
	claims := Claims{
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, u, nil
}

// CurrentUser resolves a bearer token to its user. The user is re-read from
// the store so tokens for deleted accounts stop working immediately.
func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}
	u, err := s.Users.ByID(claims.Subject)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}
