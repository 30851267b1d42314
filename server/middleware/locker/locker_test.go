package locker

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
)

func TestCheckPassesThroughWhenUnlocked(t *testing.T) {
	l := New()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	req := httptest.NewRequest(http.MethodGet, "/pixel-center", nil)
	rec := httptest.NewRecorder()
	l.Check(next).ServeHTTP(rec, req)
	if !called {
		t.Error("expected the wrapped handler to run while unlocked")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("unexpected status %d", rec.Code)
	}
}

func TestCheckBlocksProtectedPathWhenLocked(t *testing.T) {
	l := New()
	l.Lock()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	rec := httptest.NewRecorder()
	l.Check(next).ServeHTTP(rec, req)
	if called {
		t.Error("expected the wrapped handler not to run while locked")
	}
	if rec.Code != http.StatusLocked {
		t.Errorf("expected 423, got %d", rec.Code)
	}
}

func TestCheckAllowsDoNotProtectPathsWhenLocked(t *testing.T) {
	l := New()
	l.DoNotProtect = append(l.DoNotProtect, "state")
	l.Lock()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	rec := httptest.NewRecorder()
	l.Check(next).ServeHTTP(rec, req)
	if !called {
		t.Error("expected an exempted path to pass through even while locked")
	}
}

func TestHTTPSetLocksAndUnlocks(t *testing.T) {
	l := New()
	req := httptest.NewRequest(http.MethodPost, "/lock", bytes.NewBufferString(`{"bool":true}`))
	rec := httptest.NewRecorder()
	l.HTTPSet(rec, req)
	if !l.Locked() {
		t.Error("expected HTTPSet with bool:true to lock")
	}

	req = httptest.NewRequest(http.MethodPost, "/lock", bytes.NewBufferString(`{"bool":false}`))
	rec = httptest.NewRecorder()
	l.HTTPSet(rec, req)
	if l.Locked() {
		t.Error("expected HTTPSet with bool:false to unlock")
	}
}

func TestHTTPGetReportsLockedState(t *testing.T) {
	l := New()
	l.Lock()
	req := httptest.NewRequest(http.MethodGet, "/lock", nil)
	rec := httptest.NewRecorder()
	l.HTTPGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	if !bytes.Contains([]byte(body), []byte(`"bool":true`)) {
		t.Errorf("expected locked=true in response, got %s", body)
	}
}

func TestBindRoutesRegistersLockEndpoint(t *testing.T) {
	l := New()
	r := chi.NewRouter()
	BindRoutes(r, l)
	req := httptest.NewRequest(http.MethodGet, "/lock", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unexpected status %d", rec.Code)
	}
}
