package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fire-server/src/categories"
	"fire-server/src/db/local"
	"fire-server/src/middleware"
	"fire-server/src/models"
	"fire-server/src/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type fixedRates struct{ usd float64 }

func (f fixedRates) Fetch(context.Context) models.Rates {
	return models.Rates{EUR: 1, USD: f.usd, Source: models.RateSourceAPI}
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (m *memUsers) CreateUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return models.ErrUserExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) UpdateLastLogin(context.Context, string) error { return nil }

func newSessions(t *testing.T) *store.Sessions {
	t.Helper()
	db, err := local.Open(filepath.Join(t.TempDir(), "fire.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions := store.NewSessions(store.NewFacade(nil, db, nil), store.Options{
		Debounce:      time.Hour,
		DefaultLocale: categories.Spanish,
		Now:           clock,
	})
	t.Cleanup(sessions.FlushAll)
	return sessions
}

func testRouter(sessions *store.Sessions) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), "user-1")))
		})
	})
	r.Get("/api/months", GetMonths(sessions))
	r.Put("/api/months/{month_id}/collaborates-in-debt", SetCollaboratesInDebt(sessions))
	r.Put("/api/months/{month_id}/{type}/{category}", UpdateMonthValue(sessions))
	r.Post("/api/months/previous", AddPreviousMonth(sessions))
	r.Delete("/api/months/oldest", RemoveOldestMonth(sessions))
	r.Post("/api/months/{month_id}/allocate", AllocateFunds(sessions))
	r.Get("/api/config", GetConfig(sessions))
	r.Put("/api/config", UpdateConfig(sessions))
	r.Put("/api/locale", SetLocale(sessions))
	r.Get("/api/stats", GetStats(sessions, fixedRates{usd: 1.1}, clock))
	r.Get("/api/stats/series", GetSeries(sessions))
	r.Get("/api/stats/categories/{type}", GetCategoryStats(sessions))
	r.Get("/api/projection", GetProjection(sessions, clock))
	r.Get("/api/export", ExportMonths(sessions, clock))
	r.Post("/api/import", ImportMonths(sessions))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMonths(t *testing.T, rec *httptest.ResponseRecorder) monthsResponse {
	t.Helper()
	var resp monthsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	users := &memUsers{users: map[string]models.User{}}
	r := chi.NewRouter()
	r.Post("/api/register", Register(users, "secret"))
	r.Post("/api/login", Login(users, "secret"))

	rec := do(t, r, http.MethodPost, "/api/register", `{"username":"Maria","password":"abcd","displayName":"María"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "María", registered.User.DisplayName)

	rec = do(t, r, http.MethodPost, "/api/register", `{"username":"maria","password":"abcd"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/login", `{"username":"MARIA","password":"abcd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var loggedIn models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	rec = do(t, r, http.MethodPost, "/api/login", `{"username":"maria","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	users := &memUsers{users: map[string]models.User{}}
	h := Register(users, "secret")

	for _, body := range []string{
		`{"username":"ab","password":"abcd"}`,
		`{"username":"maria","password":"abc"}`,
		`not json`,
	} {
		rec := do(t, h, http.MethodPost, "/api/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetMonthsEnsuresCurrent(t *testing.T) {
	h := testRouter(newSessions(t))
	rec := do(t, h, http.MethodGet, "/api/months", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeMonths(t, rec)
	require.Len(t, resp.Months, 1)
	assert.Equal(t, "2024-03", resp.Months[0].ID.String())
	assert.Equal(t, categories.Spanish, resp.Locale)
}

func TestUpdateMonthValue(t *testing.T) {
	h := testRouter(newSessions(t))

	rec := do(t, h, http.MethodPut, "/api/months/2024-03/income/Bonus", `{"value":"1500"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMonths(t, rec)
	assert.Equal(t, 1500.0, resp.Months[0].Income.Get("Bonus"))

	rec = do(t, h, http.MethodPut, "/api/months/2024-03/salary/Bonus", `{"value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/months/2019-01/income/Bonus", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/months/march/income/Bonus", `{"value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollaboratesInDebt(t *testing.T) {
	h := testRouter(newSessions(t))
	rec := do(t, h, http.MethodPut, "/api/months/2024-03/collaborates-in-debt", `{"value":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeMonths(t, rec).Months[0].CollaboratesInDebt)
}

func TestAddAndRemoveMonths(t *testing.T) {
	h := testRouter(newSessions(t))

	rec := do(t, h, http.MethodDelete, "/api/months/oldest", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/months/previous", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMonths(t, rec)
	require.Len(t, resp.Months, 2)
	assert.Equal(t, "2024-02", resp.Months[0].ID.String())

	rec = do(t, h, http.MethodDelete, "/api/months/oldest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMonths(t, rec).Months, 1)
}

func TestAllocateFunds(t *testing.T) {
	h := testRouter(newSessions(t))

	rec := do(t, h, http.MethodPost, "/api/months/2024-03/allocate", `{"category":"Cripto"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	do(t, h, http.MethodPut, "/api/months/2024-03/income/Bonus", `{"value":2000}`)
	rec = do(t, h, http.MethodPost, "/api/months/2024-03/allocate", `{"category":"Banco"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/months/2024-03/allocate", `{"category":"Cripto"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Allocated float64              `json:"allocated"`
		Months    []models.MonthRecord `json:"months"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2000.0, resp.Allocated)
	assert.Equal(t, 2000.0, resp.Months[0].Assets.Get("Cripto"))
}

func TestConfigRoundTrip(t *testing.T) {
	h := testRouter(newSessions(t))

	rec := do(t, h, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg models.UserConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, 1000000.0, cfg.TargetInvestment)

	rec = do(t, h, http.MethodPut, "/api/config", `{"targetInvestment":750000,"targetYear":2040,"expectedReturn":5,"investmentRate":20}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/config", `{"targetInvestment":-1,"targetYear":2040}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/config", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, 750000.0, cfg.TargetInvestment)
	assert.Equal(t, "es", cfg.Locale)
}

func TestSetLocaleMigrates(t *testing.T) {
	h := testRouter(newSessions(t))
	do(t, h, http.MethodPut, "/api/months/2024-03/assets/Cripto", `{"value":300}`)

	rec := do(t, h, http.MethodPut, "/api/locale", `{"locale":"en-US"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMonths(t, rec)
	assert.Equal(t, categories.English, resp.Locale)
	assert.Equal(t, 300.0, resp.Months[0].Assets.Get("Crypto"))
	assert.NotContains(t, resp.Months[0].Assets, "Cripto")
}

func TestStatsDisplayUsesLocale(t *testing.T) {
	h := testRouter(newSessions(t))
	do(t, h, http.MethodPut, "/api/months/2024-03/assets/Fondos%20Indexados", `{"value":100000}`)

	rec := do(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Dashboard)
	assert.Equal(t, 100000.0, resp.Dashboard.InvestmentAssets)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Nil(t, resp.Rates)
	assert.Equal(t, "100.000\u00a0€", resp.Display["investmentAssets"])

	do(t, h, http.MethodPut, "/api/locale", `{"locale":"en"}`)
	rec = do(t, h, http.MethodGet, "/api/stats", "")
	resp = statsResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "USD", resp.Currency)
	require.NotNil(t, resp.Rates)
	assert.Equal(t, "$110,000", resp.Display["investmentAssets"])
}

func TestSeriesAndCategoryStats(t *testing.T) {
	h := testRouter(newSessions(t))
	do(t, h, http.MethodPut, "/api/months/2024-03/expenses/Ocio", `{"value":120}`)

	rec := do(t, h, http.MethodGet, "/api/stats/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var series map[string][]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&series))
	assert.Len(t, series["netWorth"], 1)

	rec = do(t, h, http.MethodGet, "/api/stats/categories/expenses?window=6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats struct {
		Averages map[string]float64 `json:"averages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cats))
	assert.Equal(t, 120.0, cats.Averages["Ocio"])

	rec = do(t, h, http.MethodGet, "/api/stats/categories/expenses?window=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjection(t *testing.T) {
	h := testRouter(newSessions(t))
	rec := do(t, h, http.MethodGet, "/api/projection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plan struct {
		Series []json.RawMessage `json:"series"`
		Target float64           `json:"target"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.NotEmpty(t, plan.Series)
	assert.Equal(t, 1000000.0, plan.Target)
}

func TestExportImport(t *testing.T) {
	h := testRouter(newSessions(t))
	do(t, h, http.MethodPut, "/api/months/2024-03/income/Bonus", `{"value":10}`)

	rec := do(t, h, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fire-data-2024-03-15.json")
	exported := rec.Body.String()

	rec = do(t, h, http.MethodPost, "/api/import", `{"broken":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/import", `[{"id":"2024-01"},{"id":"2024-01"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/months", "")
	assert.Equal(t, 10.0, decodeMonths(t, rec).Months[0].Income.Get("Bonus"))

	rec = do(t, h, http.MethodPost, "/api/import", `[{"id":"2024-02","income":{"Bonus":"5"},"assets":{"Banco":1}}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeMonths(t, rec)
	require.Len(t, resp.Months, 2)
	assert.Equal(t, 5.0, resp.Months[0].Income.Get("Bonus"))

	rec = do(t, h, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeMonths(t, rec).Months, 1)
}

func TestGetCategories(t *testing.T) {
	rec := do(t, GetCategories(), http.MethodGet, "/api/categories?locale=en", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var schema categories.Schema
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&schema))
	assert.Equal(t, "Bank", schema.Cash)
	assert.Equal(t, categories.English, schema.Locale)
}
