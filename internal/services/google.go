package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuseats/backend/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProfile is the identity assertion extracted from a verified Google
// ID token. Sub is the stable external identity id; name and email are
// best-effort.
type GoogleProfile struct {
	Sub           string
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleAuthenticator abstracts the provider round-trip so handlers can be
// tested without Google.
type GoogleAuthenticator interface {
	// LoginURL builds the consent-screen redirect carrying the CSRF state.
	LoginURL(state string) string
	// Authenticate exchanges the callback code and verifies the resulting
	// ID token, returning the asserted profile.
	Authenticate(ctx context.Context, code string) (*GoogleProfile, error)
}

type googleAuthenticator struct {
	oauth *oauth2.Config
	jwks  *GoogleJWKSClient
}

func NewGoogleAuthenticator(cfg *config.Config) GoogleAuthenticator {
	return &googleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		jwks: NewGoogleJWKSClient(),
	}
}

func (g *googleAuthenticator) LoginURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

func (g *googleAuthenticator) Authenticate(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("token response missing id_token")
	}

	claims, err := g.jwks.VerifyIDToken(idToken, g.oauth.ClientID)
	if err != nil {
		return nil, fmt.Errorf("id token verification failed: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return &GoogleProfile{
		Sub:           claims.Sub,
		Email:         claims.Email,
		Name:          name,
		EmailVerified: claims.EmailVerified,
	}, nil
}
