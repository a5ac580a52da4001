package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacificdev/standup-intake/internal/config"
	"github.com/pacificdev/standup-intake/internal/database"
	"github.com/pacificdev/standup-intake/internal/handlers"
	"github.com/pacificdev/standup-intake/internal/routes"
)

const testJiraBase = "https://jira.cltbcanada.net"

// setupServer wires the full router against an in-process Redis, the same
// way main does at boot.
func setupServer(t *testing.T, webhookURL string) *chi.Mux {
	t.Helper()

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { database.RedisClient.Close() })

	cfg := &config.Config{
		StoreBackend:   "redis",
		JiraBaseURL:    testJiraBase,
		WebhookURL:     webhookURL,
		WebhookChannel: "#daily-standup",
		WebhookSender:  "Standup Bot",
		FeedbackTTL:    config.DefaultFeedbackTTL,
	}
	handlers.InitServices(cfg)
	require.NoError(t, handlers.Pages.Activate(context.Background()))

	r := chi.NewRouter()
	routes.SetupRoutes(r)
	return r
}

func submitForm(t *testing.T, r http.Handler, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":             {"Alex"},
		"yesterdays_tasks": {"Fixed WPDB-1200"},
		"todays_tasks":     {"Start WPDB-1201"},
		"blockers":         {""},
	}
}

func listEntries(t *testing.T, r http.Handler) []map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/feedback", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.GetFeedbacksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Feedbacks
}

func TestSubmitFormRedirectsAndPersists(t *testing.T) {
	r := setupServer(t, "")

	rec := submitForm(t, r, validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/feedback", rec.Header().Get("Location"))

	entries := listEntries(t, r)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alex", entries[0]["name"])
	assert.Equal(t, "Fixed WPDB-1200", entries[0]["yesterdays_tasks"])
	assert.Equal(t, "", entries[0]["blockers"])
}

func TestSubmitFormShowsFlashOnce(t *testing.T) {
	r := setupServer(t, "")

	rec := submitForm(t, r, validForm())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The next form render shows the message.
	req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	renderRec := httptest.NewRecorder()
	r.ServeHTTP(renderRec, req)
	require.Equal(t, http.StatusOK, renderRec.Code)
	assert.Contains(t, renderRec.Body.String(), "Feedback submitted successfully!")

	// A refresh does not.
	refreshRec := httptest.NewRecorder()
	r.ServeHTTP(refreshRec, req)
	assert.NotContains(t, refreshRec.Body.String(), "Feedback submitted successfully!")
}

func TestSubmitFormRejectsMissingTodaysTasks(t *testing.T) {
	r := setupServer(t, "")

	fields := validForm()
	fields.Set("todays_tasks", "  ")
	rec := submitForm(t, r, fields)

	// Form flow always redirects; the rejection arrives as a flash message
	// and nothing is persisted.
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, listEntries(t, r))
}

func TestSubmitFormIgnoresUnsafeReturnPath(t *testing.T) {
	r := setupServer(t, "")

	fields := validForm()
	fields.Set("return_to", "https://evil.example/phish")
	rec := submitForm(t, r, fields)
	assert.Equal(t, "/feedback", rec.Header().Get("Location"))

	fields.Set("return_to", "//evil.example")
	rec = submitForm(t, r, fields)
	assert.Equal(t, "/feedback", rec.Header().Get("Location"))
}

func TestSubmitAPIValidation(t *testing.T) {
	r := setupServer(t, "")

	body := `{"name":"Alex","yesterdays_tasks":"y","todays_tasks":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Empty(t, listEntries(t, r))
}

func TestSubmitAPICreated(t *testing.T) {
	r := setupServer(t, "")

	body := `{"name":"Alex","yesterdays_tasks":"Fixed WPDB-1200","todays_tasks":"Start WPDB-1201","blockers":"waiting on review"}`
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Key)

	entries := listEntries(t, r)
	require.Len(t, entries, 1)
	assert.Equal(t, "waiting on review", entries[0]["blockers"])
}

func TestSubmitSucceedsWhenWebhookFails(t *testing.T) {
	// A webhook endpoint that always refuses.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := setupServer(t, srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback",
		strings.NewReader(`{"name":"Alex","yesterdays_tasks":"y","todays_tasks":"t"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Warning)

	assert.Len(t, listEntries(t, r), 1)
}

func TestDeleteActionContract(t *testing.T) {
	r := setupServer(t, "")

	submitForm(t, r, validForm())
	entries := listEntries(t, r)
	require.Len(t, entries, 1)
	key := entries[0]["key"].(string)

	form := url.Values{"entry_key": {key}}
	req := httptest.NewRequest(http.MethodPost, "/admin/feedback/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())
	assert.Empty(t, listEntries(t, r))

	// Missing key is the error case the admin script alerts on.
	req = httptest.NewRequest(http.MethodPost, "/admin/feedback/delete", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "error", rec.Body.String())
}

func TestDeleteAPITwiceReturnsNotFound(t *testing.T) {
	r := setupServer(t, "")

	submitForm(t, r, validForm())
	entries := listEntries(t, r)
	require.Len(t, entries, 1)
	key := entries[0]["key"].(string)

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/feedback?key="+url.QueryEscape(key), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, del().Code)
	assert.Equal(t, http.StatusNotFound, del().Code)
}

func TestAdminPageLinkifiesTickets(t *testing.T) {
	r := setupServer(t, "")

	submitForm(t, r, validForm())

	req := httptest.NewRequest(http.MethodGet, "/admin/feedback", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="`+testJiraBase+`/browse/WPDB-1200">WPDB-1200</a>`)
	assert.Contains(t, body, `<a href="`+testJiraBase+`/browse/WPDB-1201">WPDB-1201</a>`)
	assert.Contains(t, body, "Alex")
}

func TestAdminPageEmptyStoreShowsNoData(t *testing.T) {
	r := setupServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/feedback", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data found.")
}

func TestUninstallSweepsStoreAndPage(t *testing.T) {
	r := setupServer(t, "")

	submitForm(t, r, validForm())
	require.Len(t, listEntries(t, r), 1)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/lifecycle/uninstall", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.LifecycleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Deleted)

	assert.Empty(t, listEntries(t, r))

	// The form page is gone too.
	formReq := httptest.NewRequest(http.MethodGet, "/feedback", nil)
	formRec := httptest.NewRecorder()
	r.ServeHTTP(formRec, formReq)
	assert.Equal(t, http.StatusNotFound, formRec.Code)
}

func TestDeactivateUnpublishesFormOnly(t *testing.T) {
	r := setupServer(t, "")

	submitForm(t, r, validForm())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/lifecycle/deactivate", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	formReq := httptest.NewRequest(http.MethodGet, "/feedback", nil)
	formRec := httptest.NewRecorder()
	r.ServeHTTP(formRec, formReq)
	assert.Equal(t, http.StatusNotFound, formRec.Code)

	// Stored submissions survive deactivation.
	assert.Len(t, listEntries(t, r), 1)
}

func TestSubmitRateLimited(t *testing.T) {
	r := setupServer(t, "")

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = submitForm(t, r, validForm())
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}
