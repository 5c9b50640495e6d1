package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/g3lasio/owlfenc/catalog"
	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/ledger"
	"github.com/g3lasio/owlfenc/middleware"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			TokenExpireHours: 24,
		},
		Users: []config.User{
			{Username: "gil", Password: "fence", ContractorID: "owl"},
			{Username: "eve", Password: "hedge", ContractorID: "other"},
		},
		Profiles: []model.ContractorProfile{
			{ContractorID: "owl", CompanyName: "Owl Fence Co", OwnerName: "Gil Lasio"},
		},
	}
}

type stubEnhancer struct {
	out string
	err error
}

func (s stubEnhancer) Enhance(context.Context, string, string) (string, error) {
	return s.out, s.err
}

type testServer struct {
	cfg    *config.Config
	router *gin.Engine
}

func newTestServer(t *testing.T, enhancer service.Enhancer) *testServer {
	t.Helper()
	cfg := testConfig()

	c, err := catalog.Builtin()
	require.NoError(t, err)
	sel, err := catalog.NewSelector(c, catalog.TieBreakFirstDeclared, 16)
	require.NoError(t, err)
	drafts := service.NewMemoryDraftStore(100)
	svc := service.NewContractService(service.Options{
		Selector: sel,
		Drafts:   drafts,
		Ledger:   ledger.New(ledger.NewMemoryStore(), drafts),
		Profiles: service.NewStaticProfiles(cfg.Profiles),
		Enhancer: enhancer,
		Now:      func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	Register(router.Group("/api"), Handlers{
		Auth:      NewAuthHandler(cfg),
		Drafts:    NewDraftHandler(svc),
		Signature: NewSignatureHandler(svc),
		Enhance:   NewEnhanceHandler(svc),
	}, middleware.AuthMiddleware(&cfg.Auth), middleware.RateLimit("signatures", 1000, time.Minute))

	return &testServer{cfg: cfg, router: router}
}

func (s *testServer) token(t *testing.T, username string) string {
	t.Helper()
	user := s.cfg.FindUser(username)
	require.NotNil(t, user)
	tok, _, err := middleware.GenerateToken(user.Username, user.ContractorID, &s.cfg.Auth)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// draftBody is the subset of a draft response the tests read.
type draftBody struct {
	Draft struct {
		ID        string         `json:"id"`
		Step      int            `json:"step"`
		Finalized bool           `json:"finalized"`
		Values    map[string]any `json:"values"`
	} `json:"draft"`
	Template struct {
		ID string `json:"id"`
	} `json:"template"`
	CurrentStep string         `json:"current_step"`
	Validation  validationBody `json:"validation"`
}

type validationBody struct {
	IsValid bool `json:"is_valid"`
	Errors  []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"errors"`
}

type errorBody struct {
	Error      string         `json:"error"`
	Kind       string         `json:"kind"`
	Validation validationBody `json:"validation"`
}
