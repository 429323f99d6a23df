package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	defaultKeyTTL = time.Hour
	// minKeyRefresh bounds how often an unknown kid can trigger a refetch.
	minKeyRefresh = time.Minute
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Identity is the verified caller behind an ID token.
type Identity struct {
	Subject string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// TokenVerifier turns a raw ID token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// KeySource resolves the RSA public key for a key id.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// StaticKeys is a fixed KeySource.
type StaticKeys map[string]*rsa.PublicKey

func (k StaticKeys) Key(_ context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := k[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("unknown key id %q", kid)
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleVerifier checks Google-issued ID tokens for this app's OAuth client.
type GoogleVerifier struct {
	ClientID string
	Keys     KeySource
	Now      func() time.Time
}

// NewGoogleVerifier builds a verifier backed by Google's published JWKS.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID, Keys: &JWKSSource{URL: googleJWKSURL}}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrTokenRequired
	}
	if v.ClientID == "" || v.Keys == nil {
		return nil, ErrVerifierNotConfigured
	}
	now := v.Now
	if now == nil {
		now = time.Now
	}

	var claims googleClaims
	_, err := jwt.ParseWithClaims(rawToken, &claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		return v.Keys.Key(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.ClientID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !googleIssuers[claims.Issuer] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return &Identity{
		Subject: claims.Subject,
		Email:   strings.ToLower(claims.Email),
		Name:    claims.Name,
	}, nil
}

// JWKSSource fetches RSA keys from a JWKS endpoint and caches them for TTL. An
// unknown kid refetches the set at most once per MinRefresh.
type JWKSSource struct {
	URL        string
	Client     *http.Client
	TTL        time.Duration
	MinRefresh time.Duration

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

type jwks struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (s *JWKSSource) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := s.TTL
	if ttl == 0 {
		ttl = defaultKeyTTL
	}
	minRefresh := s.MinRefresh
	if minRefresh == 0 {
		minRefresh = minKeyRefresh
	}
	age := time.Since(s.fetched)
	if s.keys != nil && age < ttl {
		if key, ok := s.keys[kid]; ok {
			return key, nil
		}
		if age < minRefresh {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
	}
	keys, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.keys, s.fetched = keys, time.Now()
	if key, ok := keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("unknown key id %q", kid)
}

func (s *JWKSSource) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks fetch failed: status %d", resp.StatusCode)
	}
	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, err
	}
	out := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		key, err := rsaKey(k.N, k.E)
		if err != nil {
			continue
		}
		out[k.Kid] = key
	}
	if len(out) == 0 {
		return nil, errors.New("jwks contains no usable RSA keys")
	}
	return out, nil
}

func rsaKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}
