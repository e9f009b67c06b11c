package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"film_catalog_backend/internal/auth"
	userrepo "film_catalog_backend/internal/auth/repository"
	"film_catalog_backend/internal/auth/token"
	"film_catalog_backend/internal/events"
	"film_catalog_backend/internal/films"
	filmrepo "film_catalog_backend/internal/films/repository"
	apphttp "film_catalog_backend/internal/http"
	"film_catalog_backend/platform/db"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string      { return ":0" }
func (testConfig) GetCORSAllowAll() bool    { return true }
func (testConfig) GetCORSOrigins() []string { return nil }
func (testConfig) GetCORSAllowCreds() bool  { return false }
func (testConfig) GetJWTSecret() string     { return "test-secret" }
func (testConfig) GetJWTTTL() time.Duration { return time.Hour }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewWithWriter("test", io.Discard)
	val := validator.New()
	tokens := token.NewManager(testConfig{})

	authModule, err := auth.NewModule(userrepo.NewMemory(), tokens, val, log)
	if err != nil {
		t.Fatalf("auth module: %v", err)
	}
	filmsModule := films.NewModule(filmrepo.NewMemory(), authModule.OwnerDirectory(), events.NewInMemoryBus(log), nil, val, log)

	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  log,
		Health:  db.StaticHealth{},
		Tokens:  tokens,
		Modules: []apphttp.Module{authModule, filmsModule},
	})
}

func do(t *testing.T, engine *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type loginResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string   `json:"id"`
		Films []string `json:"films"`
	} `json:"user"`
}

func registerAndLogin(t *testing.T, engine *gin.Engine, name string) loginResult {
	t.Helper()
	rec := do(t, engine, http.MethodPost, "/user/register", "", map[string]string{
		"userName": name,
		"email":    name + "@example.com",
		"password": name + "Password",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", name, rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodPost, "/user/login", "", map[string]string{
		"user":     name,
		"password": name + "Password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", name, rec.Code, rec.Body.String())
	}
	var result loginResult
	decode(t, rec, &result)
	if result.Token == "" {
		t.Fatalf("login %s: empty token", name)
	}
	return result
}

func TestFilmLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	admin := registerAndLogin(t, engine, "admin")

	rec := do(t, engine, http.MethodPost, "/film", admin.Token, map[string]any{
		"title":    "Inception",
		"director": "Christopher Nolan",
		"year":     2010,
		"genre":    "Sci-Fi",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var film struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Owner string `json:"owner"`
	}
	decode(t, rec, &film)
	if film.Title != "Inception" || film.Owner != admin.User.ID {
		t.Fatalf("unexpected film %+v", film)
	}

	rec = do(t, engine, http.MethodGet, "/film", admin.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var page struct {
		Items    []json.RawMessage `json:"items"`
		Count    int64             `json:"count"`
		Next     *string           `json:"next"`
		Previous *string           `json:"previous"`
	}
	decode(t, rec, &page)
	if page.Items == nil || len(page.Items) != 1 || page.Count != 1 || page.Next != nil || page.Previous != nil {
		t.Fatalf("unexpected page %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodGet, "/film/"+film.ID, admin.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/user/"+admin.User.ID, admin.Token, nil)
	var user struct {
		Films []string `json:"films"`
	}
	decode(t, rec, &user)
	if len(user.Films) != 1 || user.Films[0] != film.ID {
		t.Fatalf("expected user to own %s, got %v", film.ID, user.Films)
	}

	rec = do(t, engine, http.MethodDelete, "/film/"+film.ID, admin.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodDelete, "/film/"+film.ID, admin.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/user/"+admin.User.ID, admin.Token, nil)
	decode(t, rec, &user)
	if len(user.Films) != 0 {
		t.Fatalf("expected film reference to be removed, got %v", user.Films)
	}
}

func TestAuthGuardResponses(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name   string
		header string
		status int
		errMsg string
	}{
		{"missing header", "", http.StatusUnauthorized, "Not Authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Not Bearer in Authorization header"},
		{"bad token", "Bearer not-a-token", 498, "Invalid token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/film", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body struct {
				Status int    `json:"status"`
				Error  string `json:"error"`
			}
			decode(t, rec, &body)
			if body.Status != tc.status || body.Error != tc.errMsg {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}
		})
	}
}

func TestOwnerOnlyRoutes(t *testing.T) {
	engine := newTestEngine(t)
	admin := registerAndLogin(t, engine, "admin")
	guest := registerAndLogin(t, engine, "guest")

	rec := do(t, engine, http.MethodPost, "/film", admin.Token, map[string]any{"title": "Inception", "genre": "Sci-Fi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var film struct {
		ID string `json:"id"`
	}
	decode(t, rec, &film)

	rec = do(t, engine, http.MethodDelete, "/film/"+film.ID, guest.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("guest delete: expected 401, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPatch, "/film/"+film.ID, guest.Token, map[string]any{"title": "Stolen"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("guest update: expected 401, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/film/"+film.ID+"/comment", guest.Token, map[string]any{"comment": "great"})
	if rec.Code != http.StatusOK {
		t.Fatalf("guest comment: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodPatch, "/film/"+film.ID, admin.Token, map[string]any{"year": 2010})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Year     int `json:"year"`
		Comments []struct {
			Comment string `json:"comment"`
			Owner   struct {
				UserName string `json:"userName"`
			} `json:"owner"`
		} `json:"comments"`
	}
	decode(t, rec, &updated)
	if updated.Year != 2010 || len(updated.Comments) != 1 || updated.Comments[0].Owner.UserName != "guest" {
		t.Fatalf("unexpected updated film %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodDelete, "/film/64b7f0c2a1b2c3d4e5f607ff", admin.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing film: expected 404, got %d", rec.Code)
	}
}

func TestValidationAndDuplicates(t *testing.T) {
	engine := newTestEngine(t)
	admin := registerAndLogin(t, engine, "admin")

	rec := do(t, engine, http.MethodPost, "/user/register", "", map[string]string{
		"userName": "admin", "email": "other@example.com", "password": "secret",
	})
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("duplicate register: expected 406, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/film", admin.Token, map[string]any{"director": "Nobody"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title: expected 400, got %d", rec.Code)
	}
	var body struct {
		Details map[string]string `json:"details"`
	}
	decode(t, rec, &body)
	if body.Details["title"] != "required" {
		t.Fatalf("expected title detail, got %s", rec.Body.String())
	}

	rec = do(t, engine, http.MethodPost, "/user/login", "", map[string]string{"user": "admin", "password": "wrong"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad login: expected 400, got %d", rec.Code)
	}
}

func TestListBeyondLastPage(t *testing.T) {
	engine := newTestEngine(t)
	admin := registerAndLogin(t, engine, "admin")

	rec := do(t, engine, http.MethodPost, "/film", admin.Token, map[string]any{"title": "Inception"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, engine, http.MethodGet, "/film?page=9223372036854775807", admin.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Items    []json.RawMessage `json:"items"`
		Count    int64             `json:"count"`
		Next     *string           `json:"next"`
		Previous *string           `json:"previous"`
	}
	decode(t, rec, &page)
	if page.Items == nil || len(page.Items) != 0 || page.Count != 1 {
		t.Fatalf("expected empty items with count 1, got %s", rec.Body.String())
	}
	if page.Next != nil || page.Previous == nil {
		t.Fatalf("unexpected links: %s", rec.Body.String())
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	engine := newTestEngine(t)
	engine.GET("/boom", func(*gin.Context) { panic("secret detail") })

	rec := do(t, engine, http.MethodGet, "/boom", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Label string `json:"label"`
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	if body.Label != "Internal Server Error" || body.Error != "internal server error" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("secret detail")) {
		t.Fatalf("panic value leaked into the response")
	}
}

func TestHealthAndNoRoute(t *testing.T) {
	engine := newTestEngine(t)

	rec := do(t, engine, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/nowhere", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
}
