package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier validates bearer tokens against an OIDC issuer and checks
// realm role membership (Keycloak-style realm_access claim).
type OIDCVerifier struct {
	verifier  *oidc.IDTokenVerifier
	adminRole string
}

// NewOIDCVerifier performs issuer discovery and prepares a token verifier.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID, audience, adminRole string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery failed for %s: %w", issuerURL, err)
	}

	cfg := &oidc.Config{ClientID: clientID}
	if audience != "" {
		cfg = &oidc.Config{ClientID: audience}
	}
	if cfg.ClientID == "" {
		cfg.SkipClientIDCheck = true
	}

	return &OIDCVerifier{
		verifier:  provider.Verifier(cfg),
		adminRole: adminRole,
	}, nil
}

// VerifyToken checks signature, issuer, audience, and expiry.
func (v *OIDCVerifier) VerifyToken(ctx context.Context, rawToken string) (*oidc.IDToken, error) {
	return v.verifier.Verify(ctx, rawToken)
}

// HasRole reports whether the token's realm_access.roles claim contains role.
// An empty role requirement always passes.
func (v *OIDCVerifier) HasRole(token *oidc.IDToken, role string) (bool, error) {
	if role == "" {
		return true, nil
	}

	var claims struct {
		RealmAccess struct {
			Roles []string `json:"roles"`
		} `json:"realm_access"`
	}
	if err := token.Claims(&claims); err != nil {
		return false, fmt.Errorf("parse token claims: %w", err)
	}

	for _, r := range claims.RealmAccess.Roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}
