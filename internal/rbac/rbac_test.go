package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyWildcards(t *testing.T) {
	p := NewPolicy(nil)
	assert.True(t, p.Allows("admin", PermPacksWrite))
	assert.True(t, p.Allows("editor", PermPacksWrite))
	assert.True(t, p.Allows("editor", PermPacksView))
	assert.False(t, p.Allows("editor", PermAttemptsView))
	assert.False(t, p.Allows("viewer", PermPacksWrite))
	assert.False(t, p.Allows("nobody", PermStatsView))
	assert.True(t, p.AllowsAll("viewer", PermAttemptsView, PermStatsView))
	assert.True(t, p.AllowsAny("viewer", PermPacksWrite, PermStatsView))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PermPacksWrite)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/", nil).WithContext(WithRole(context.Background(), "viewer"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/", nil).WithContext(WithRole(context.Background(), "admin"))
	rec = httptest.NewRecorder()
	RequireAny(PermStatsView, PermPacksWrite)(h).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
