package httpkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type stubVerifier struct {
	payload TokenPayload
	err     error
	seen    string
}

func (s *stubVerifier) Verify(raw string) (TokenPayload, error) {
	s.seen = raw
	if s.err != nil {
		return TokenPayload{}, s.err
	}
	return s.payload, nil
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandler(logger.NewWithWriter("test", io.Discard)))
	engine.GET("/films/:id", handlers...)
	return engine
}

func serve(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/films/42", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func okHandler(c *gin.Context) {
	payload, _ := GetTokenPayload(c)
	c.JSON(http.StatusOK, payload)
}

func TestLoggedRejectsMissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	rec := serve(newTestRouter(Logged(verifier), okHandler), "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != "Not Authorization header" || body.Label != "Not Authorized" {
		t.Fatalf("unexpected body %+v", body)
	}
	if verifier.seen != "" {
		t.Fatalf("verifier must not run without a header")
	}
}

func TestLoggedRejectsNonBearerHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "bearer abc", "Bearer ", "Bearer    "} {
		rec := serve(newTestRouter(Logged(&stubVerifier{}), okHandler), header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
		if body := decodeError(t, rec); body.Error != "Not Bearer in Authorization header" {
			t.Fatalf("%q: unexpected body %+v", header, body)
		}
	}
}

func TestLoggedPropagatesVerifyError(t *testing.T) {
	verifier := &stubVerifier{err: apperr.InvalidToken("Invalid token")}
	rec := serve(newTestRouter(Logged(verifier), okHandler), "Bearer abc.def.ghi")

	if rec.Code != 498 {
		t.Fatalf("expected 498, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Label != "Invalid Token" {
		t.Fatalf("unexpected body %+v", body)
	}
	if verifier.seen != "abc.def.ghi" {
		t.Fatalf("expected raw token to be passed to verifier, got %q", verifier.seen)
	}
}

func TestLoggedStoresPayload(t *testing.T) {
	verifier := &stubVerifier{payload: TokenPayload{ID: "u1", UserName: "admin"}}
	rec := serve(newTestRouter(Logged(verifier), okHandler), "Bearer good")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got TokenPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != verifier.payload {
		t.Fatalf("expected %+v, got %+v", verifier.payload, got)
	}
}

func TestOwnerOnly(t *testing.T) {
	setPayload := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if id != "" {
				SetTokenPayload(c, TokenPayload{ID: id, UserName: "someone"})
			}
			c.Next()
		}
	}

	var lookedUp string
	lookup := OwnerLookupFunc(func(_ context.Context, id string) (string, error) {
		lookedUp = id
		if id == "missing" {
			return "", apperr.NotFound("film not found")
		}
		return "owner-1", nil
	})

	cases := []struct {
		name   string
		actor  string
		status int
	}{
		{"owner passes", "owner-1", http.StatusOK},
		{"other user rejected", "owner-2", http.StatusUnauthorized},
		{"no payload", "", 498},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newTestRouter(setPayload(tc.actor), OwnerOnly(lookup, "id"), okHandler), "")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}

	if lookedUp != "42" {
		t.Fatalf("expected lookup of route param, got %q", lookedUp)
	}
}

func TestOwnerOnlyRejectionBody(t *testing.T) {
	lookup := OwnerLookupFunc(func(context.Context, string) (string, error) { return "owner-1", nil })
	withPayload := func(c *gin.Context) {
		SetTokenPayload(c, TokenPayload{ID: "intruder"})
		c.Next()
	}

	rec := serve(newTestRouter(withPayload, OwnerOnly(lookup, "id"), okHandler), "")
	body := decodeError(t, rec)
	if body.Status != http.StatusUnauthorized || body.Label != "Not authorized" || body.Error != "Not authorized" {
		t.Fatalf("unexpected body %+v", body)
	}

	rec = serve(newTestRouter(OwnerOnly(lookup, "id"), okHandler), "")
	body = decodeError(t, rec)
	if body.Error != "Token not found in Authorized interceptor" || body.Label != "Token not found" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestOwnerOnlyPropagatesLookupError(t *testing.T) {
	lookup := OwnerLookupFunc(func(context.Context, string) (string, error) {
		return "", apperr.NotFound("film not found")
	})
	withPayload := func(c *gin.Context) {
		SetTokenPayload(c, TokenPayload{ID: "owner-1"})
		c.Next()
	}

	rec := serve(newTestRouter(withPayload, OwnerOnly(lookup, "id"), okHandler), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		label  string
	}{
		{"not acceptable", apperr.NotAcceptable("userName already exists"), http.StatusNotAcceptable, "Not Acceptable"},
		{"wrapped not found", errors.Join(errors.New("ctx"), apperr.NotFound("film not found")), http.StatusNotFound, "Not Found"},
		{"duplicate key", fmt.Errorf("create user: %w", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}), http.StatusNotAcceptable, "Not Acceptable"},
		{"server rejection", fmt.Errorf("query films: %w", mongo.CommandError{Code: 2, Message: "BadValue"}), http.StatusNotAcceptable, "Not Acceptable"},
		{"no documents", fmt.Errorf("find film: %w", mongo.ErrNoDocuments), http.StatusNotFound, "Not Found"},
		{"internal", apperr.Internal("internal server error"), http.StatusInternalServerError, "Internal Server Error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Translate(tc.err)
			if status != tc.status || body.Label != tc.label {
				t.Fatalf("expected %d/%q, got %d/%q", tc.status, tc.label, status, body.Label)
			}
		})
	}

	_, body := Translate(errors.New("boom"))
	if body.Error != "boom" {
		t.Fatalf("expected raw message for unknown errors, got %q", body.Error)
	}
}

func TestTranslateValidationErrors(t *testing.T) {
	input := struct {
		Title string `json:"title" validate:"required"`
		Year  int    `json:"year" validate:"omitempty,filmyear"`
	}{Year: 1700}

	err := validator.New().Struct(input)
	if err == nil {
		t.Fatalf("expected validation to fail")
	}

	status, body := Translate(fmt.Errorf("create film: %w", err))
	if status != http.StatusBadRequest || body.Label != "Bad Request" {
		t.Fatalf("expected 400/Bad Request, got %d/%q", status, body.Label)
	}
	fields, ok := body.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", body.Details)
	}
	if fields["title"] != "required" || fields["year"] != "filmyear" {
		t.Fatalf("unexpected field details %v", fields)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", c.Request.Context().Value(logger.RequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "req-123" || rec.Body.String() != "req-123" {
		t.Fatalf("expected request id to round trip, got header %q body %q", rec.Header().Get(HeaderRequestID), rec.Body.String())
	}
}
