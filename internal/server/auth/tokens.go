package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the purpose a token was minted for.
type Kind string

const (
	KindAccess       Kind = "access_token"
	KindRefresh      Kind = "refresh_token"
	KindEmailConfirm Kind = "email_token"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultEmailTTL   = 24 * time.Hour
)

// Claims are the registered JWT claims plus the kind discriminator.
type Claims struct {
	jwt.RegisteredClaims
	Scope Kind `json:"scope"`
}

// TokenConfig holds signing parameters. It is copied into the service at
// construction and never changes afterwards.
type TokenConfig struct {
	Secret     []byte
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	EmailTTL   time.Duration
}

// TokenService mints and decodes signed tokens.
type TokenService struct {
	method jwt.SigningMethod
	secret []byte
	ttl    map[Kind]time.Duration
	now    func() time.Time
}

// NewTokenService validates cfg and returns a ready service. Zero TTLs take the
// package defaults and an empty algorithm means HS256.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	var method jwt.SigningMethod
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenService{
		method: method,
		secret: secret,
		ttl: map[Kind]time.Duration{
			KindAccess:       orDefault(cfg.AccessTTL, DefaultAccessTTL),
			KindRefresh:      orDefault(cfg.RefreshTTL, DefaultRefreshTTL),
			KindEmailConfirm: orDefault(cfg.EmailTTL, DefaultEmailTTL),
		},
		now: time.Now,
	}, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.issue(subject, KindAccess)
}

func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.issue(subject, KindRefresh)
}

func (s *TokenService) IssueEmailConfirm(subject string) (string, error) {
	return s.issue(subject, KindEmailConfirm)
}

func (s *TokenService) issue(subject string, kind Kind) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", common.ErrValidation)
	}
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl[kind])),
			ID:        uuid.NewString(),
		},
		Scope: kind,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its subject. Structurally broken input
// yields common.ErrMalformedToken; every other rejection (signature, algorithm,
// expiry, kind) yields common.ErrInvalidToken.
func (s *TokenService) Decode(token string, expected Kind) (string, error) {
	if token == "" {
		return "", common.ErrMalformedToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return "", common.ErrMalformedToken
		}
		return "", common.ErrInvalidToken
	}
	if !parsed.Valid || claims.Scope != expected || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

// HashRefreshToken is the form in which refresh tokens are kept at rest.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
