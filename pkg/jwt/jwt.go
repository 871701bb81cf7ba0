package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrWrongPurpose     = errors.New("token issued for a different purpose")
)

// Purpose distinguishes the two token kinds the board issues. It rides in the
// audience claim so an email-verification token can never be replayed as an
// access token.
type Purpose string

const (
	PurposeAccess      Purpose = "access"
	PurposeVerifyEmail Purpose = "verify-email"
)

// Claims carries the registered claims plus the board's custom ones.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// Service signs and validates HS256 tokens. Access and email-verification
// tokens use separate secrets.
type Service struct {
	accessSecret []byte
	emailSecret  []byte
	issuer       string
	expiration   time.Duration
}

// Config holds JWT service configuration
type Config struct {
	AccessSecret   string
	EmailSecret    string
	Issuer         string
	ExpirationMins int
}

// NewService creates a new JWT service. Empty secrets are replaced with
// random generated ones so development servers can run without a .env;
// tokens then stop verifying across restarts, which production config
// validation rules out.
func NewService(cfg Config) (*Service, error) {
	access := cfg.AccessSecret
	if access == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate access secret: %w", err)
		}
		access = generated
	}

	email := cfg.EmailSecret
	if email == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate email secret: %w", err)
		}
		email = generated
	}

	return &Service{
		accessSecret: []byte(access),
		emailSecret:  []byte(email),
		issuer:       cfg.Issuer,
		expiration:   time.Duration(cfg.ExpirationMins) * time.Minute,
	}, nil
}

// Sign creates a signed access token for the given user.
func (s *Service) Sign(userID, email string) (string, error) {
	return s.sign(userID, email, PurposeAccess, s.expiration, s.accessSecret)
}

// SignEmailVerification creates a token for the email verification link.
// Verification links stay valid longer than access tokens.
func (s *Service) SignEmailVerification(userID, email string) (string, error) {
	return s.sign(userID, email, PurposeVerifyEmail, 48*time.Hour, s.emailSecret)
}

func (s *Service) sign(userID, email string, purpose Purpose, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			Audience:  jwtlib.ClaimStrings{string(purpose)},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			NotBefore: jwtlib.NewNumericDate(now),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate validates an access token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeAccess, s.accessSecret)
}

// ValidateEmailVerification validates an email verification token.
func (s *Service) ValidateEmailVerification(tokenString string) (*Claims, error) {
	return s.validate(tokenString, PurposeVerifyEmail, s.emailSecret)
}

func (s *Service) validate(tokenString string, purpose Purpose, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if !hasAudience(claims.Audience, string(purpose)) {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}

// GetExpiration returns the access token expiration duration
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

func hasAudience(aud jwtlib.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
