package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/localstore"
	"github.com/creamtown0420/ow-guides/internal/present/rest/middleware"
	"github.com/creamtown0420/ow-guides/internal/service"
	"github.com/creamtown0420/ow-guides/internal/usecase"
)

// --- mocks ---

type mockCodeRepo struct {
	codes   []domain.Code
	created *domain.Code
}

func (m *mockCodeRepo) List(ctx context.Context) ([]domain.Code, error) { return m.codes, nil }
func (m *mockCodeRepo) Get(ctx context.Context, id string) (domain.Code, error) {
	for _, c := range m.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Code{}, domain.NotFoundError{Resource: "code"}
}
func (m *mockCodeRepo) Create(ctx context.Context, code domain.Code) error {
	m.created = &code
	m.codes = append(m.codes, code)
	return nil
}
func (m *mockCodeRepo) Update(ctx context.Context, code domain.Code) error { return nil }
func (m *mockCodeRepo) Delete(ctx context.Context, id string) error        { return nil }

type mockLikeRepo struct {
	rows map[[2]string]bool
}

func (m *mockLikeRepo) Create(ctx context.Context, userID, codeID string) error {
	key := [2]string{userID, codeID}
	if m.rows[key] {
		return domain.ConflictError{Resource: "like"}
	}
	m.rows[key] = true
	return nil
}
func (m *mockLikeRepo) Delete(ctx context.Context, userID, codeID string) error {
	delete(m.rows, [2]string{userID, codeID})
	return nil
}
func (m *mockLikeRepo) Counts(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for key := range m.rows {
		out[key[1]]++
	}
	return out, nil
}
func (m *mockLikeRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for key := range m.rows {
		if key[0] == userID {
			out = append(out, key[1])
		}
	}
	return out, nil
}

type mockProfileRepo struct {
	profiles map[string]domain.Profile
}

func (m *mockProfileRepo) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
}
func (m *mockProfileRepo) Upsert(ctx context.Context, profile domain.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

type mockUsers struct{}

func (mockUsers) FindOrCreateByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{ID: "user1", Email: email}, nil
}
func (mockUsers) Get(ctx context.Context, id string) (domain.User, error) {
	return domain.User{ID: id, Email: "tracer@example.com"}, nil
}

type mockSessions struct {
	tokens map[string]string
}

func (m *mockSessions) Create(ctx context.Context, userID string) (string, error) {
	token := "tok-" + userID
	m.tokens[token] = userID
	return token, nil
}
func (m *mockSessions) Resolve(ctx context.Context, token string) (string, error) {
	if userID, ok := m.tokens[token]; ok {
		return userID, nil
	}
	return "", domain.NotFoundError{Resource: "session"}
}
func (m *mockSessions) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

type mockMailer struct{}

func (mockMailer) SendLoginLink(ctx context.Context, email, link string) error { return nil }

// --- helpers ---

func seededRepo() *mockCodeRepo {
	return &mockCodeRepo{codes: []domain.Code{
		{ID: "a", Code: "ABCD12", Title: "Tracer blink drill", Role: domain.RoleDPS, Mode: domain.ModeAim, Updated: "2025-05-01"},
		{ID: "b", Code: "Z9Y8X7", Title: "Rein shield dance", Role: domain.RoleTank, Mode: domain.ModeMovement, Updated: "2025-06-10"},
	}}
}

func newTestServer(t *testing.T, repo *mockCodeRepo, likeRepo *mockLikeRepo, remote bool) (*echo.Echo, *mockSessions) {
	t.Helper()

	store, err := localstore.NewEngagementStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create engagement store: %v", err)
	}

	cfg := domain.Config{FQDN: "guides.example.com", LinkBaseURL: "https://guides.example.com/login", LinkSecret: "secret"}
	sessions := &mockSessions{tokens: map[string]string{"tok-user1": "user1"}}
	signal := service.NewSignalService(nil)
	auth := service.NewAuthService(cfg, mockUsers{}, sessions, mockMailer{}, signal)

	h := NewHandler(
		cfg,
		usecase.NewCodeUsecase(repo),
		usecase.NewLikeUsecase(likeRepo, repo),
		usecase.NewProfileUsecase(&mockProfileRepo{profiles: map[string]domain.Profile{}}),
		auth,
		signal,
		store,
		remote,
	)

	e := echo.New()
	e.Use(middleware.NewAuthMiddleware(auth).IdentifyIdentity)
	h.RegisterRoutes(e)
	return e, sessions
}

func doJSON(e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

// --- tests ---

func TestBrowseReturnsVisibleItems(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodGet, "/api/v1/codes?role=DPS", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var result usecase.BrowseResult
	if err := json.Unmarshal(res.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "a" {
		t.Fatalf("expected only the DPS entry, got %+v", result.Items)
	}
}

func TestBrowseFallsBackToRelated(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	// Strict query with a filter that excludes everything; the fallback
	// relaxes to any-term matching without the filters.
	res := doJSON(e, http.MethodGet, "/api/v1/codes?q=tracer&mode=Scrim", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var result usecase.BrowseResult
	if err := json.Unmarshal(res.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected no strict matches, got %+v", result.Items)
	}
	if len(result.Related) != 1 || result.Related[0].ID != "a" {
		t.Fatalf("expected tracer entry as related, got %+v", result.Related)
	}
}

func TestBrowseRejectsUnknownRole(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodGet, "/api/v1/codes?role=Flanker", "", nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.Code)
	}
}

func TestCreateRequiresSignIn(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPost, "/api/v1/codes", "", map[string]any{
		"code": "NEWC12", "title": "Fresh drill",
	})
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
}

func TestCreateWithSession(t *testing.T) {
	repo := seededRepo()
	e, _ := newTestServer(t, repo, &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPost, "/api/v1/codes", "tok-user1", map[string]any{
		"code":  "newc12",
		"title": "Fresh drill",
		"mode":  "Aim",
	})
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}
	if repo.created == nil {
		t.Fatalf("expected create to reach the repository")
	}
	if repo.created.Code != "NEWC12" {
		t.Fatalf("expected code to be normalized, got %q", repo.created.Code)
	}
	if repo.created.Author != "tracer@example.com" {
		t.Fatalf("expected author fallback to e-mail, got %q", repo.created.Author)
	}
	if repo.created.OwnerID == nil || *repo.created.OwnerID != "user1" {
		t.Fatalf("expected owner to be the requester")
	}
}

func TestMutationsForbiddenInLocalMode(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, false)

	res := doJSON(e, http.MethodPost, "/api/v1/codes", "tok-user1", map[string]any{
		"code": "NEWC12", "title": "Fresh drill",
	})
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", res.Code)
	}
}

func TestLikeTwiceConflicts(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPut, "/api/v1/codes/a/like", "tok-user1", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	res = doJSON(e, http.MethodPut, "/api/v1/codes/a/like", "tok-user1", nil)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", res.Code)
	}
}

func TestCopyCounterAccumulates(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	doJSON(e, http.MethodPost, "/api/v1/codes/a/copy", "", nil)
	res := doJSON(e, http.MethodPost, "/api/v1/codes/a/copy", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var out map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out["copies"].(float64) != 2 {
		t.Fatalf("expected 2 copies, got %v", out["copies"])
	}
}

func TestCopyUnknownCode(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPost, "/api/v1/codes/missing/copy", "", nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestLocalLikeToggles(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, false)

	res := doJSON(e, http.MethodPost, "/api/v1/codes/a/like/local", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var out map[string]any
	json.Unmarshal(res.Body.Bytes(), &out)
	if out["liked"] != true {
		t.Fatalf("expected liked=true, got %v", out["liked"])
	}

	res = doJSON(e, http.MethodPost, "/api/v1/codes/a/like/local", "", nil)
	json.Unmarshal(res.Body.Bytes(), &out)
	if out["liked"] != false {
		t.Fatalf("expected liked=false after toggle, got %v", out["liked"])
	}
}

func TestProfileRoundTrip(t *testing.T) {
	e, _ := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPut, "/api/v1/profile", "tok-user1", map[string]any{
		"displayName": "BlinkMain",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}

	res = doJSON(e, http.MethodGet, "/api/v1/profile", "tok-user1", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var profile domain.Profile
	if err := json.Unmarshal(res.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile.DisplayName != "BlinkMain" {
		t.Fatalf("expected stored display name, got %q", profile.DisplayName)
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	e, sessions := newTestServer(t, seededRepo(), &mockLikeRepo{rows: map[[2]string]bool{}}, true)

	res := doJSON(e, http.MethodPost, "/api/v1/auth/signout", "tok-user1", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if _, ok := sessions.tokens["tok-user1"]; ok {
		t.Fatalf("expected session to be revoked")
	}

	res = doJSON(e, http.MethodGet, "/api/v1/likes/mine", "tok-user1", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after signout, got %d", res.Code)
	}
}
