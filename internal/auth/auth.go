// Package auth issues and checks the HMAC bearer tokens of the HTTP API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for malformed or badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSecret is returned when no signing secret is configured.
	ErrNoSecret = errors.New("token secret is not configured")
)

// Claims identify the holder of a token.
type Claims struct {
	Client   string
	IssuedAt time.Time
}

// Sign returns a token for client of the form payload.signature, where the
// payload is the base64 client name and issue time and the signature is the
// hex HMAC-SHA256 of the payload.
func Sign(secret, client string, issuedAt time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	client = strings.TrimSpace(client)
	if client == "" || strings.Contains(client, "|") {
		return "", errors.New("client name must be non-empty and must not contain '|'")
	}

	raw := client + "|" + strconv.FormatInt(issuedAt.Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(raw))
	return payload + "." + sign(secret, payload), nil
}

// Verify checks the signature of token and returns its claims.
func Verify(secret, token string) (Claims, error) {
	if secret == "" {
		return Claims{}, ErrNoSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return Claims{}, ErrInvalidToken
	}
	payload := parts[0]

	provided, err := hex.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	expected, _ := hex.DecodeString(sign(secret, payload))
	if !hmac.Equal(provided, expected) {
		return Claims{}, ErrInvalidToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	client, issued, ok := strings.Cut(string(decoded), "|")
	if !ok || client == "" {
		return Claims{}, ErrInvalidToken
	}
	unix, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{Client: client, IssuedAt: time.Unix(unix, 0).UTC()}, nil
}

// FromHeader extracts the token of an "Authorization: Bearer" header value.
func FromHeader(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
