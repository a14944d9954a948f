// AngelaMos | 2026
// google.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/storefront/internal/core"
)

const DefaultGoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// GoogleIdentity is the subset of a Google ID token used to find or
// create an account.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Picture       string
}

type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type keySetSource interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

// GoogleVerifier validates Google ID tokens against Google's published
// signing keys, refreshed in the background by a jwk cache.
type GoogleVerifier struct {
	keys     keySetSource
	certsURL string
	clientID string
}

func NewGoogleVerifier(
	ctx context.Context,
	clientID, certsURL string,
) (*GoogleVerifier, error) {
	if certsURL == "" {
		certsURL = DefaultGoogleCertsURL
	}

	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("create jwk cache: %w", err)
	}

	if err := cache.Register(
		ctx,
		certsURL,
		jwk.WithMinInterval(15*time.Minute),
	); err != nil {
		return nil, fmt.Errorf("register google certs: %w", err)
	}

	return &GoogleVerifier{
		keys:     cache,
		certsURL: certsURL,
		clientID: clientID,
	}, nil
}

func (v *GoogleVerifier) VerifyIDToken(
	ctx context.Context,
	idToken string,
) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("google login disabled: %w", core.ErrUnauthorized)
	}

	set, err := v.keys.Lookup(ctx, v.certsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google certs: %w", err)
	}

	return parseGoogleToken(idToken, set, v.clientID)
}

func parseGoogleToken(
	idToken string,
	set jwk.Set,
	clientID string,
) (*GoogleIdentity, error) {
	token, err := jwt.Parse(
		[]byte(idToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithAudience(clientID),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("google token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("google token: %w", core.ErrTokenInvalid)
	}

	issuer, _ := token.Issuer()
	if _, ok := googleIssuers[issuer]; !ok {
		return nil, fmt.Errorf(
			"google token: unexpected issuer %q: %w",
			issuer,
			core.ErrTokenInvalid,
		)
	}

	identity := &GoogleIdentity{}
	identity.Subject, _ = token.Subject()

	if err := token.Get("email", &identity.Email); err != nil || identity.Email == "" {
		return nil, fmt.Errorf(
			"google token: missing email: %w",
			core.ErrTokenInvalid,
		)
	}

	//nolint:errcheck // optional profile claims
	_ = token.Get("email_verified", &identity.EmailVerified)
	//nolint:errcheck // optional profile claims
	_ = token.Get("given_name", &identity.GivenName)
	//nolint:errcheck // optional profile claims
	_ = token.Get("family_name", &identity.FamilyName)
	//nolint:errcheck // optional profile claims
	_ = token.Get("picture", &identity.Picture)

	if !identity.EmailVerified {
		return nil, fmt.Errorf(
			"google token: email not verified: %w",
			core.ErrUnauthorized,
		)
	}

	return identity, nil
}
