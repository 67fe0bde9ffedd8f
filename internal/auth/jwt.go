package auth

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// UserClaim is the user block embedded in every access token.
type UserClaim struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Claims is the full access token payload.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.Claims
}

// Signer mints and verifies HMAC-signed access tokens.
type Signer struct {
	signer   jose.Signer
	secret   []byte
	lifetime time.Duration
}

// NewSigner builds a Signer around the shared secret. lifetime bounds how
// long an access token stays valid. The configured secret is hashed into a
// fixed 256-bit signing key, so operator secrets of any length are accepted
// (HS256 itself rejects keys under 32 bytes).
func NewSigner(secret []byte, lifetime time.Duration) (*Signer, error) {
	key := sha256.Sum256(secret)
	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key[:]},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("building token signer: %w", err)
	}
	return &Signer{signer: sig, secret: key[:], lifetime: lifetime}, nil
}

// Sign mints an access token for the user. Every authenticated user carries
// the admin role.
func (s *Signer) Sign(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		User: UserClaim{Username: username, Role: "admin"},
		Claims: jwt.Claims{
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}
	token, err := jwt.Signed(s.signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Verify parses the token, checks its signature and expiry, and returns the
// claims.
func (s *Signer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, err
	}
	var claims Claims
	if err := parsed.Claims(s.secret, &claims); err != nil {
		return nil, err
	}
	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return nil, err
	}
	return &claims, nil
}
