package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubjectClaims is what a bearer token says about its holder.
type SubjectClaims struct {
	UserID string
	Email  string
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenIssuer interface {
	Issue(claims SubjectClaims) (string, error)
	TTL() time.Duration
}

type TokenVerifier interface {
	Verify(token string) (SubjectClaims, error)
}

// JWTTokenService signs HS256 tokens with a secret read once at startup.
type JWTTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService uses internal.DefaultAccessTokenDuration when ttl is not positive.
func NewJWTTokenService(secret, issuer string, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = internal.DefaultAccessTokenDuration
	}
	return &JWTTokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	s.now = now
	return s
}

func (s *JWTTokenService) TTL() time.Duration {
	return s.ttl
}

func (s *JWTTokenService) Issue(claims SubjectClaims) (string, error) {
	return s.IssueWithTTL(claims, s.ttl)
}

// IssueWithTTL signs a token that expires exactly ttl from now. A zero ttl
// yields a token that is already expired.
func (s *JWTTokenService) IssueWithTTL(claims SubjectClaims, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", internal.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

func (s *JWTTokenService) Verify(token string) (SubjectClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SubjectClaims{}, internal.ErrTokenExpired
		}
		return SubjectClaims{}, internal.ErrInvalidToken.Wrap(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return SubjectClaims{}, internal.ErrInvalidToken
	}
	return SubjectClaims{UserID: claims.UserID, Email: claims.Email}, nil
}
