package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/auth"
	authmw "github.com/mind-engage/certprep/internal/auth/middleware"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/db"
	_ "github.com/mind-engage/certprep/internal/formats/comptia"
	_ "github.com/mind-engage/certprep/internal/formats/lpi"
	"github.com/mind-engage/certprep/internal/storage"
	syncx "github.com/mind-engage/certprep/internal/sync"
)

type harness struct {
	srv *httptest.Server
	reg *bank.Registry
	db  *sql.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	base, err := bank.Builtin()
	require.NoError(t, err)
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	reg := bank.NewRegistry(base, bs)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	events := syncx.NewEventRepo(conn)
	svc := attempt.NewService(attempt.NewSQLStore(conn), attempt.WithEvents(events))
	srv := httptest.NewServer(NewRouter(Deps{
		Registry:  reg,
		Attempts:  svc,
		Events:    events,
		Sessions:  auth.NewSessions(svc, auth.CookieConfig{}),
		Auth:      authmw.NewAuthService("test"),
		Admin:     authmw.Admin{User: "admin", PassHash: string(hash)},
		LocalAuth: true,
		Blobs:     bs,
		Ready:     conn,
	}))
	t.Cleanup(srv.Close)
	return &harness{srv: srv, reg: reg, db: conn}
}

func (h *harness) do(t *testing.T, method, path, body string, hdr map[string]string, cookies ...*http.Cookie) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, h.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "certprep_session" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestRecordAttemptCreatesSessionLazily(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodGet, "/api/session/attempts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
	assert.Empty(t, resp.Cookies(), "reading never creates a session")

	resp, body = h.do(t, http.MethodPost, "/api/pbq-attempts",
		`{"pbqNumber":1,"pbqType":"firewall","userAnswer":["fw-a","fw-b"],"score":63,"isCorrect":false}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Success   bool   `json:"success"`
		AttemptID string `json:"attemptId"`
		Score     int    `json:"score"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.AttemptID)
	assert.Equal(t, 63, out.Score)
	c := sessionCookie(t, resp)
	assert.True(t, c.HttpOnly)

	// looser shape: no pbqNumber, no isCorrect
	resp, _ = h.do(t, http.MethodPost, "/api/pbq-attempts",
		`{"pbqType":"vpn","userAnswer":{"encryption":"AES-256"},"score":100}`, nil, c)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, c.Value, sessionCookie(t, resp).Value)

	resp, body = h.do(t, http.MethodGet, "/api/session/attempts", "", nil, c)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []attempt.Attempt
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{"firewall", "vpn"}, []string{list[0].PBQType, list[1].PBQType})
}

func TestRecordAttemptRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	for _, body := range []string{
		`not json`,
		`{"pbqType":"firewall","userAnswer":[],"score":101}`,
		`{"userAnswer":[],"score":10}`,
	} {
		resp, raw := h.do(t, http.MethodPost, "/api/pbq-attempts", body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Contains(t, string(raw), `"error"`)
		assert.Empty(t, resp.Cookies(), "rejected bodies never create a session")
	}

	var n int
	require.NoError(t, h.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n))
	assert.Zero(t, n)
}

func TestContentEndpoints(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodGet, "/api/tracks", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"security-plus"`)

	resp, body = h.do(t, http.MethodGet, "/api/tracks/security-plus/questions?n=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var qs []bank.Question
	require.NoError(t, json.Unmarshal(body, &qs))
	assert.Len(t, qs, 5)

	resp, _ = h.do(t, http.MethodGet, "/api/tracks/security-plus/questions?n=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/tracks/security-plus/exam", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ex struct {
		Scale     []int           `json:"scale"`
		Questions []bank.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(body, &ex))
	assert.Equal(t, []int{100, 900}, ex.Scale)
	assert.Len(t, ex.Questions, 16)

	resp, _ = h.do(t, http.MethodGet, "/api/tracks/nope/exam", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/acronyms/quiz?n=3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []struct {
		Options []string `json:"options"`
	}
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 3)
	assert.Len(t, items[0].Options, 4)
}

func TestPBQViewAndGrade(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodGet, "/api/pbqs", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sums []bank.PBQSummary
	require.NoError(t, json.Unmarshal(body, &sums))
	require.NotEmpty(t, sums)
	assert.Equal(t, 1, sums[0].Number)

	resp, body = h.do(t, http.MethodGet, "/api/pbqs/sequencing/pbq-firewall", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), `"correctOrder":[`)

	resp, body = h.do(t, http.MethodGet, "/api/pbqs/config/pbq-vpn-config", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), `"correct":{`)

	pbq, err := h.reg.Catalog().Sequencing("pbq-firewall")
	require.NoError(t, err)
	order, _ := json.Marshal(map[string]any{"order": pbq.CorrectOrder})
	resp, body = h.do(t, http.MethodPost, "/api/pbqs/sequencing/pbq-firewall/grade", string(order), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var g struct {
		Score     int  `json:"score"`
		IsCorrect bool `json:"isCorrect"`
	}
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, 100, g.Score)
	assert.True(t, g.IsCorrect)

	resp, _ = h.do(t, http.MethodPost, "/api/pbqs/sequencing/pbq-firewall/grade", `{"order":["fw-deny-all"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = h.do(t, http.MethodPost, "/api/pbqs/config/pbq-vpn-config/grade",
		`{"answers":{"encryption":"AES-256","hashing":"SHA-256","dhGroup":"Group 2","authentication":"Certificates"}}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &g))
	assert.Equal(t, 75, g.Score)

	resp, _ = h.do(t, http.MethodGet, "/api/pbqs/essay/x", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.do(t, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := h.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body, &tok))
	bearer := map[string]string{"Authorization": "Bearer " + tok.AccessToken}

	_, _ = h.do(t, http.MethodPost, "/api/pbq-attempts", `{"pbqType":"firewall","userAnswer":[],"score":50}`, nil)

	resp, body = h.do(t, http.MethodGet, "/api/admin/stats", "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st []attempt.Stats
	require.NoError(t, json.Unmarshal(body, &st))
	require.Len(t, st, 1)
	assert.Equal(t, 1, st[0].Attempts)

	resp, body = h.do(t, http.MethodGet, "/api/admin/attempts?pbq_type=firewall", "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"firewall"`)

	resp, body = h.do(t, http.MethodGet, "/api/admin/events?after=0", "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var evs []syncx.Event
	require.NoError(t, json.Unmarshal(body, &evs))
	require.Len(t, evs, 1)
	assert.Equal(t, syncx.TypeAttemptRecorded, evs[0].Type)

	resp, body = h.do(t, http.MethodGet, "/api/admin/events?after="+strconv.FormatInt(evs[0].Seq, 10), "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = h.do(t, http.MethodGet, "/api/admin/events?after=-1", "", bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	pack := `{"config":[{"id":"pbq-dns","number":42,"type":"dns","title":"DNS hardening",
		"fields":[{"name":"dnssec","options":["off","on"]}],"correct":{"dnssec":"on"}}]}`
	resp, body = h.do(t, http.MethodPut, "/api/admin/packs/dns", pack, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	_, err := h.reg.Catalog().Config("pbq-dns")
	assert.NoError(t, err)

	resp, _ = h.do(t, http.MethodPut, "/api/admin/packs/bad", `{"widgets":1}`, bearer)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/admin/packs/", "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["packs/dns.json"]`, string(body))

	resp, body = h.do(t, http.MethodGet, "/api/admin/packs/dns", "", bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pbq-dns")
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, _ := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = h.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
