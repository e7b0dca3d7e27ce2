package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ggd-contact/internal/domain"
)

const (
	tokenTypeStaff = "staff"
	tokenTypeCase  = "case"
)

// TokenService emite y valida tokens JWT para personal y para apps emparejadas.
type TokenService struct {
	secret   []byte
	staffTTL time.Duration
	caseTTL  time.Duration
	issuer   string
	now      func() time.Time
}

type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims cubre ambos tipos de token; Subject es el id del staff o del caso.
type Claims struct {
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewTokenService(secret string, staffTTL, caseTTL time.Duration) *TokenService {
	if staffTTL <= 0 {
		staffTTL = time.Hour
	}
	if caseTTL <= 0 {
		caseTTL = 14 * 24 * time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		staffTTL: staffTTL,
		caseTTL:  caseTTL,
		issuer:   "ggd-contact",
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *TokenService) IssueStaffToken(staff domain.Staff) (IssuedToken, error) {
	return s.sign(staff.ID, staff.Email, tokenTypeStaff, s.staffTTL)
}

func (s *TokenService) IssueCaseToken(c domain.Case) (IssuedToken, error) {
	return s.sign(c.ID, "", tokenTypeCase, s.caseTTL)
}

func (s *TokenService) ParseStaffToken(token string) (Claims, error) {
	return s.parseTyped(token, tokenTypeStaff)
}

func (s *TokenService) ParseCaseToken(token string) (Claims, error) {
	return s.parseTyped(token, tokenTypeCase)
}

func (s *TokenService) sign(subject, email, tokenType string, ttl time.Duration) (IssuedToken, error) {
	if len(s.secret) == 0 || strings.TrimSpace(subject) == "" {
		return IssuedToken{}, ErrTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{
		Token:     signed,
		ExpiresIn: int64(ttl.Seconds()),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *TokenService) parseTyped(tokenString, tokenType string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenType {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.Issuer != s.issuer {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
