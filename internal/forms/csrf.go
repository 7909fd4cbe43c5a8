package forms

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CSRFField is the hidden input every protected form posts.
const CSRFField = "csrf_token"

// DefaultCSRFTTL bounds how long a rendered form stays submittable.
const DefaultCSRFTTL = 2 * time.Hour

var (
	// ErrCSRFMissing reports a post without a token.
	ErrCSRFMissing = errors.New("csrf token missing")
	// ErrCSRFInvalid reports a forged, expired or foreign token.
	ErrCSRFInvalid = errors.New("csrf token invalid")
)

// CSRFCheck verifies a posted token. A nil CSRFCheck accepts anything.
type CSRFCheck func(token string) error

// Protected is embedded by every form that carries a CSRF token.
type Protected struct {
	CSRFToken string `schema:"csrf_token" validate:"-"`
}

func (p Protected) checkCSRF(check CSRFCheck, errs *Errors) {
	if check == nil {
		return
	}
	switch err := check(p.CSRFToken); {
	case err == nil:
	case errors.Is(err, ErrCSRFMissing):
		errs.Add(CSRFField, "The CSRF token is missing.")
	default:
		errs.Add(CSRFField, "The CSRF token is invalid.")
	}
}

type csrfClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// CSRFGuard issues and verifies HS256 tokens bound to a per-browser nonce.
type CSRFGuard struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCSRFGuard signs tokens with secret. A zero ttl uses DefaultCSRFTTL.
func NewCSRFGuard(secret string, ttl time.Duration) *CSRFGuard {
	if ttl <= 0 {
		ttl = DefaultCSRFTTL
	}
	return &CSRFGuard{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token valid for nonce.
func (g *CSRFGuard) Issue(nonce string) (string, error) {
	now := g.now()
	claims := csrfClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.key)
	if err != nil {
		return "", fmt.Errorf("sign csrf token: %w", err)
	}
	return signed, nil
}

// Verify checks token was issued by g for nonce and has not expired.
func (g *CSRFGuard) Verify(token, nonce string) error {
	if token == "" {
		return ErrCSRFMissing
	}
	if nonce == "" {
		return ErrCSRFInvalid
	}

	var claims csrfClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return g.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid || claims.Nonce != nonce {
		return ErrCSRFInvalid
	}
	return nil
}

// Check binds the guard to nonce for a form's Validate call.
func (g *CSRFGuard) Check(nonce string) CSRFCheck {
	return func(token string) error {
		return g.Verify(token, nonce)
	}
}
