package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/credsvc/domain"
)

const googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleVerifierImpl implements domain.IdentityVerifier against Google's
// published signing keys. Keys are cached until the certs endpoint's
// max-age elapses.
type GoogleVerifierImpl struct {
	httpClient *http.Client
	certsURL   string

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	refresh time.Time
}

// NewGoogleVerifier creates a new Google ID token verifier
func NewGoogleVerifier() domain.IdentityVerifier {
	return &GoogleVerifierImpl{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		certsURL:   googleCertsURL,
	}
}

// NewGoogleVerifierWithCerts creates a verifier against a custom certs
// endpoint (for testing).
func NewGoogleVerifierWithCerts(certsURL string, client *http.Client) domain.IdentityVerifier {
	return &GoogleVerifierImpl{httpClient: client, certsURL: certsURL}
}

// Verify implements domain.IdentityVerifier
func (g *GoogleVerifierImpl) Verify(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error) {
	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no key id")
		}
		return g.keyFor(ctx, kid)
	},
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIdentityToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrIdentityToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrIdentityToken
	}

	issuer, _ := claims.GetIssuer()
	if !validGoogleIssuer(issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrIdentityToken, issuer)
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if subject == "" || email == "" {
		return nil, fmt.Errorf("%w: missing subject or email claim", domain.ErrIdentityToken)
	}

	return &domain.IdentityClaims{
		Subject:       subject,
		Email:         email,
		EmailVerified: verifiedClaim(claims["email_verified"]),
	}, nil
}

// email_verified arrives as a bool or the string "true" depending on the
// token variant.
func verifiedClaim(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}

func validGoogleIssuer(issuer string) bool {
	for _, iss := range googleIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}

func (g *GoogleVerifierImpl) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if key, ok := g.keys[kid]; ok && time.Now().Before(g.refresh) {
		return key, nil
	}

	if err := g.fetchKeysLocked(ctx); err != nil {
		return nil, err
	}

	key, ok := g.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no signing key with id %q", kid)
	}
	return key, nil
}

type jwksDocument struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (g *GoogleVerifierImpl) fetchKeysLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.certsURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signing key endpoint returned %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		key, err := parseRSAKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = key
	}
	if len(keys) == 0 {
		return fmt.Errorf("signing key endpoint returned no usable keys")
	}

	g.keys = keys
	g.refresh = time.Now().Add(cacheWindow(resp.Header.Get("Cache-Control")))
	return nil
}

func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

func cacheWindow(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if strings.HasPrefix(directive, "max-age=") {
			if secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age=")); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return time.Hour
}
