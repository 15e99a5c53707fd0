package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/topcornerhq/topcorner/internal/domain/user"
)

type stubVerifier struct {
	principal user.Principal
	err       error
	gotToken  string
}

func (s *stubVerifier) VerifyToken(token string) (user.Principal, error) {
	s.gotToken = token
	if s.err != nil {
		return user.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireAuth_PassesPrincipalToNext(t *testing.T) {
	verifier := &stubVerifier{principal: user.Principal{UserID: "usr-1", Username: "ada"}}

	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatalf("expected principal in request context")
		}
		seen = principal
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if verifier.gotToken != "token-abc" {
		t.Fatalf("expected verifier to receive token-abc, got %q", verifier.gotToken)
	}
	if seen.UserID != "usr-1" {
		t.Fatalf("expected principal usr-1, got %q", seen.UserID)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler should not run without credentials")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	verifier := &stubVerifier{}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler should not run with a malformed header")
	})

	for _, header := range []string{"token-abc", "Basic dXNlcg==", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAuth_RejectedToken(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("token is expired")}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler should not run with a rejected token")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/calc-points", nil)
		req.Header.Set("X-Internal-Job-Token", "job-secret")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("job-secret", next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/calc-points", nil)
		req.Header.Set("X-Internal-Job-Token", "guess")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("job-secret", next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("unconfigured token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/calc-points", nil)
		req.Header.Set("X-Internal-Job-Token", "anything")
		rec := httptest.NewRecorder()

		RequireInternalJobToken("", next).ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}
	})
}
