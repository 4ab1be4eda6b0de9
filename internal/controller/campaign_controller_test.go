package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unclebandit/campaign-studio/internal/auth"
	"github.com/unclebandit/campaign-studio/internal/controller"
	"github.com/unclebandit/campaign-studio/internal/generation"
	"github.com/unclebandit/campaign-studio/internal/localstore"
	"github.com/unclebandit/campaign-studio/internal/model"
	"github.com/unclebandit/campaign-studio/internal/service"
)

// --- Mock Generator ---

type MockGenerator struct {
	fail     string
	enhanced string
}

func (m *MockGenerator) GenerateContent(ctx context.Context, c model.Campaign) generation.ContentResult {
	if m.fail != "" {
		return generation.ContentResult{Error: m.fail}
	}
	return generation.ContentResult{Success: true, Data: &generation.Content{
		Caption: "Generated for " + c.Brand,
		Image:   "https://img.example/gen.png",
	}}
}

func (m *MockGenerator) EnhanceCaption(ctx context.Context, caption string) generation.EnhanceResult {
	if m.fail != "" {
		return generation.EnhanceResult{Error: m.fail}
	}
	m.enhanced = caption
	return generation.EnhanceResult{Success: true, Enhanced: caption + " (enhanced)"}
}

type testApp struct {
	handler http.Handler
	store   *localstore.Store
	gen     *MockGenerator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := localstore.New(localstore.NewMemoryStorage())
	gen := &MockGenerator{}
	app := &controller.App{
		Campaigns: &service.CampaignService{Local: store},
		Tones:     &service.ToneService{Local: store},
		Auth:      auth.NewHolder(store, &service.UserService{Local: store}),
		Generator: gen,
	}
	return &testApp{handler: app.Router(), store: store, gen: gen}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login", `{"username":"administrator1x","password":"1xpassword"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
}

// --- Tests ---

func TestGuardedRoutes_Anonymous(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard", "/create", "/campaign/1"} {
		rec := app.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Errorf("%s: expected redirect to /login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}

	rec := app.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("/: got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if rec := app.do(t, http.MethodGet, "/login", ""); rec.Code != http.StatusOK {
		t.Errorf("/login should be open to guests, got %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/login", `{"username":"administrator1x","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var res auth.LoginResult
	decode(t, rec, &res)
	if res.Success || res.Error != auth.MsgInvalidCredentials {
		t.Errorf("unexpected result %+v", res)
	}

	app.login(t)

	rec = app.do(t, http.MethodGet, "/login", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("guest page should bounce a logged in user, got %d", rec.Code)
	}

	rec = app.do(t, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rec.Code)
	}
	var dash struct {
		User      model.SessionUser `json:"user"`
		Campaigns []model.Campaign  `json:"campaigns"`
		Tones     []model.Tone      `json:"tones"`
	}
	decode(t, rec, &dash)
	if dash.User.Username != "administrator1x" || len(dash.Campaigns) != 3 || len(dash.Tones) != 5 {
		t.Errorf("unexpected dashboard %+v", dash)
	}

	if rec := app.do(t, http.MethodPost, "/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/dashboard", ""); rec.Code != http.StatusFound {
		t.Errorf("dashboard after logout: %d", rec.Code)
	}
}

func TestCreateCampaign(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	rec := app.do(t, http.MethodPost, "/create", `{"brand":"Acme","campaignName":"Launch","tone":"modern","generate":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Campaign          model.Campaign `json:"campaign"`
		PersistedRemotely bool           `json:"persistedRemotely"`
	}
	decode(t, rec, &resp)
	if resp.PersistedRemotely {
		t.Error("local-only app reported a remote write")
	}
	if resp.Campaign.ID != "4" || resp.Campaign.Caption != "Generated for Acme" {
		t.Errorf("unexpected campaign %+v", resp.Campaign)
	}

	app.gen.fail = "Rate limit reached"
	rec = app.do(t, http.MethodPost, "/create", `{"brand":"Nope","generate":true}`)
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Rate limit reached") {
		t.Errorf("generation failure: %d %s", rec.Code, rec.Body.String())
	}
	list, _ := app.store.ListCampaigns(context.Background())
	if len(list) != 4 {
		t.Errorf("failed generation must not create a campaign, have %d", len(list))
	}
}

func TestCampaignCRUD(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	if rec := app.do(t, http.MethodGet, "/campaign/2", ""); rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/campaign/999", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing campaign: %d", rec.Code)
	}

	rec := app.do(t, http.MethodPut, "/campaign/2", `{"caption":"Updated"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	c, _ := app.store.GetCampaign(context.Background(), "2")
	if c.Caption != "Updated" {
		t.Errorf("update not stored: %q", c.Caption)
	}

	if rec := app.do(t, http.MethodPut, "/campaign/%20", `{"caption":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank id should be a validation error, got %d", rec.Code)
	}

	if rec := app.do(t, http.MethodDelete, "/campaign/2", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/campaign/2", ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted campaign still served: %d", rec.Code)
	}
}

func TestGenerateAndEnhance(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	rec := app.do(t, http.MethodPost, "/campaign/1/generate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body.String())
	}
	c, _ := app.store.GetCampaign(context.Background(), "1")
	if c.Caption != "Generated for EcoWear" || c.Image != "https://img.example/gen.png" {
		t.Errorf("generated content not stored: %+v", c)
	}

	rec = app.do(t, http.MethodPost, "/campaign/1/enhance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("enhance: %d %s", rec.Code, rec.Body.String())
	}
	if app.gen.enhanced != "Generated for EcoWear" {
		t.Errorf("enhance should default to the stored caption, got %q", app.gen.enhanced)
	}

	rec = app.do(t, http.MethodPost, "/campaign/1/enhance", `{"caption":"Custom"}`)
	if rec.Code != http.StatusOK || app.gen.enhanced != "Custom" {
		t.Errorf("enhance with body: %d %q", rec.Code, app.gen.enhanced)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	if rec := app.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: %d", rec.Code)
	}
}

func TestCreateCampaign_InvalidStatusSkipsGeneration(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.gen.fail = "generation must not run"

	rec := app.do(t, http.MethodPost, "/create", `{"brand":"Acme","status":"bogus","generate":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "generation must not run") {
		t.Error("content generation ran for an invalid campaign")
	}
}
