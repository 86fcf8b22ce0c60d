package credentials

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuthConfig configures an OAuth token provider using the client
// credentials grant.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// OAuth exchanges client credentials for bearer tokens. One token source
// is cached per (scopes, audiences) pair, so repeated requests for the
// same pair reuse the cached token until it expires.
type OAuth struct {
	config OAuthConfig

	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

// NewOAuth creates an OAuth token provider.
func NewOAuth(config OAuthConfig) *OAuth {
	return &OAuth{
		config:  config,
		sources: make(map[string]oauth2.TokenSource),
	}
}

// Token returns a bearer token valid for the given scopes and audiences.
func (o *OAuth) Token(ctx context.Context, scopes, audiences []string) (string, error) {
	tok, err := o.source(ctx, scopes, audiences).Token()
	if err != nil {
		return "", fmt.Errorf("fetching oauth token: %w", err)
	}
	return tok.AccessToken, nil
}

// source returns the cached token source for the pair, creating it on
// first use. oauth2.ReuseTokenSource inside clientcredentials handles
// expiry-driven refresh.
func (o *OAuth) source(ctx context.Context, scopes, audiences []string) oauth2.TokenSource {
	key := cacheKey(scopes, audiences)

	o.mu.Lock()
	defer o.mu.Unlock()

	if src, ok := o.sources[key]; ok {
		return src
	}

	cfg := &clientcredentials.Config{
		ClientID:     o.config.ClientID,
		ClientSecret: o.config.ClientSecret,
		TokenURL:     o.config.TokenURL,
		Scopes:       scopes,
	}
	if len(audiences) > 0 {
		cfg.EndpointParams = url.Values{"audience": audiences}
	}

	src := cfg.TokenSource(ctx)
	o.sources[key] = src
	return src
}

func cacheKey(scopes, audiences []string) string {
	s := append([]string(nil), scopes...)
	a := append([]string(nil), audiences...)
	sort.Strings(s)
	sort.Strings(a)
	return strings.Join(s, " ") + "|" + strings.Join(a, " ")
}
