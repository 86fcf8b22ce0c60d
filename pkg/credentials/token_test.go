package credentials_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/credentials"
)

var _ = Describe("Static", func() {
	var (
		tmpDir string
		mgr    *credentials.Manager
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "token-test-*")
		Expect(err).NotTo(HaveOccurred())

		mgr, err = credentials.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("serves the stored API key as the token", func() {
		Expect(mgr.SetKey("openai", "sk-stored")).To(Succeed())

		tp := credentials.NewStatic(mgr, "openai")
		tok, err := tp.Token(ctx, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tok).To(Equal("sk-stored"))
	})

	It("ignores scopes and audiences", func() {
		Expect(mgr.SetKey("openai", "sk-stored")).To(Succeed())

		tp := credentials.NewStatic(mgr, "openai")
		tok, err := tp.Token(ctx, []string{"read"}, []string{"https://api.example.com"})
		Expect(err).NotTo(HaveOccurred())
		Expect(tok).To(Equal("sk-stored"))
	})

	It("errors when no key is stored", func() {
		tp := credentials.NewStatic(mgr, "anthropic")
		_, err := tp.Token(ctx, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("OAuth", func() {
	var (
		exchanges atomic.Int64
		server    *httptest.Server
		ctx       context.Context
	)

	BeforeEach(func() {
		exchanges.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.ParseForm()).To(Succeed())
			n := exchanges.Add(1)

			w.Header().Set("Content-Type", "application/json")
			Expect(json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-" + r.Form.Get("scope") + "-" + string(rune('0'+n)),
				"token_type":   "bearer",
				"expires_in":   3600,
			})).To(Succeed())
		}))
		DeferCleanup(server.Close)

		ctx = context.Background()
	})

	newProvider := func() *credentials.OAuth {
		return credentials.NewOAuth(credentials.OAuthConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			TokenURL:     server.URL + "/oauth/token",
		})
	}

	It("exchanges client credentials for a token", func() {
		tp := newProvider()

		tok, err := tp.Token(ctx, []string{"read"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tok).To(HavePrefix("tok-read"))
		Expect(exchanges.Load()).To(Equal(int64(1)))
	})

	It("reuses the cached token for the same scopes and audiences", func() {
		tp := newProvider()

		first, err := tp.Token(ctx, []string{"read"}, []string{"aud-a"})
		Expect(err).NotTo(HaveOccurred())

		second, err := tp.Token(ctx, []string{"read"}, []string{"aud-a"})
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(exchanges.Load()).To(Equal(int64(1)))
	})

	It("fetches separate tokens for distinct pairs", func() {
		tp := newProvider()

		_, err := tp.Token(ctx, []string{"read"}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = tp.Token(ctx, []string{"write"}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(exchanges.Load()).To(Equal(int64(2)))
	})

	It("surfaces endpoint failures", func() {
		tp := credentials.NewOAuth(credentials.OAuthConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			TokenURL:     "http://127.0.0.1:1/oauth/token",
		})

		_, err := tp.Token(ctx, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
