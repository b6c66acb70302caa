package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Role     Role  `json:"role"`
	MemberID int64 `json:"member_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// RandomSecret is used in dev mode when no secret is configured.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (i *Issuer) Issue(s Session) (string, time.Time, error) {
	if s.Anonymous() {
		return "", time.Time{}, errors.New("role is required")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	c := claims{
		Role:     s.Role,
		MemberID: s.MemberID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject(s),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, exp, nil
}

func (i *Issuer) Parse(tokenStr string) (Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		// Pin the algorithm so alg=none and friends are rejected.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || token == nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if _, ok := capabilities[c.Role]; !ok {
		return Session{}, ErrInvalidToken
	}
	return Session{Role: c.Role, MemberID: c.MemberID}, nil
}

func subject(s Session) string {
	if s.Role == RoleMember && s.MemberID > 0 {
		return fmt.Sprintf("member:%d", s.MemberID)
	}
	return string(s.Role)
}
