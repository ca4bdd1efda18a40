package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticPages(t *testing.T) {
	sm := testSessionManager(t)
	h := NewPageHandler(testRenderer(t, sm))

	tests := []struct {
		path    string
		handler http.HandlerFunc
		want    string
	}{
		{"/about", h.About, "about"},
		{"/contact", h.Contact, "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, tt.path, nil))
			rr := httptest.NewRecorder()
			tt.handler(rr, req)

			assertStatus(t, rr.Code, http.StatusOK)
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("body %q missing %q", rr.Body.String(), tt.want)
			}
		})
	}
}
