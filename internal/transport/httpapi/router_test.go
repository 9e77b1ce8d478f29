package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xtding233/prizewheel/internal/engine"
)

type fakeAdmin struct {
	mode    int
	flushed int
}

func (f *fakeAdmin) Status() engine.Status {
	return engine.Status{Date: "2025-01-01", Mode: f.mode, Initialized: true}
}

func (f *fakeAdmin) SetMode(m int) error {
	if m < 1 || m > 3 {
		return engine.ErrInvalidMode
	}
	f.mode = m
	return nil
}

func (f *fakeAdmin) Flush(context.Context) { f.flushed++ }

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	a := &fakeAdmin{mode: 3}
	r := NewHandler(a, nil).Router()

	if rec := serve(t, r, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}

	rec := serve(t, r, http.MethodGet, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st engine.Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Date != "2025-01-01" || st.Mode != 3 {
		t.Fatalf("status body = %+v", st)
	}

	if rec := serve(t, r, http.MethodPut, "/mode/2"); rec.Code != http.StatusOK || a.mode != 2 {
		t.Fatalf("set mode = %d (mode %d)", rec.Code, a.mode)
	}
	for _, bad := range []string{"/mode/9", "/mode/abc"} {
		if rec := serve(t, r, http.MethodPut, bad); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s = %d", bad, rec.Code)
		}
	}
	if a.mode != 2 {
		t.Fatalf("bad requests changed mode to %d", a.mode)
	}

	if rec := serve(t, r, http.MethodPost, "/flush"); rec.Code != http.StatusNoContent || a.flushed != 1 {
		t.Fatalf("flush = %d (flushed %d)", rec.Code, a.flushed)
	}
	if rec := serve(t, r, http.MethodPost, "/status"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /status = %d", rec.Code)
	}
}
