//go:build integration

package app_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bissquit/taskboard/internal/app"
	"github.com/bissquit/taskboard/internal/config"
	"github.com/bissquit/taskboard/internal/seed"
	"github.com/bissquit/taskboard/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testServer    *httptest.Server
	testValidator *testutil.OpenAPIValidator
	testDB        *pgxpool.Pool
	pgContainer   *testutil.PostgresContainer
)

func testConfig(dbURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			MetricsPort:     "0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    5,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 3,
		},
		Log:  config.LogConfig{Level: "error", Format: "text"},
		Seed: config.SeedConfig{Enabled: true},
	}
}

func newTestClient(t *testing.T) *testutil.Client {
	t.Helper()
	client := testutil.NewClientWithValidator(testServer.URL, testValidator)
	client.SetT(t)
	return client
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	pgContainer, err = testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}

	application, err := app.New(testConfig(pgContainer.ConnectionString))
	if err != nil {
		log.Fatalf("create app: %v", err)
	}

	testDB, err = pgxpool.New(ctx, pgContainer.ConnectionString)
	if err != nil {
		log.Fatalf("create test db pool: %v", err)
	}

	testValidator, err = testutil.LoadOpenAPIValidator()
	if err != nil {
		log.Fatalf("load OpenAPI validator: %v", err)
	}

	testServer = httptest.NewServer(application.Router())

	code := m.Run()

	testServer.Close()
	testDB.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown app: %v", err)
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("terminate postgres: %v", err)
	}

	os.Exit(code)
}

// newDatabase creates an empty database in the shared container and returns its URL.
func newDatabase(t *testing.T) string {
	t.Helper()
	name := "db_" + testutil.RandomSuffix()

	_, err := testDB.Exec(context.Background(), "CREATE DATABASE "+name)
	require.NoError(t, err)

	return strings.Replace(pgContainer.ConnectionString, "/taskboard?", "/"+name+"?", 1)
}

func startApp(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Router())
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	})
	return srv
}

func TestSeed_DefaultPayload(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET("/users/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]any
	testutil.DecodeJSON(t, resp, &users)
	assert.GreaterOrEqual(t, len(users), 5)

	resp, err = client.GET("/orders/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order map[string]any
	testutil.DecodeJSON(t, resp, &order)
	assert.EqualValues(t, 1, order["customer_id"])
	assert.Equal(t, "02/08/2013", order["start_date"])
	assert.Equal(t, "03/08/2013", order["end_date"])

	resp, err = client.GET("/offers/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var offer map[string]any
	testutil.DecodeJSON(t, resp, &offer)
	assert.EqualValues(t, 1, offer["order_id"])
	assert.EqualValues(t, 2, offer["executor_id"])
}

func TestSeed_CustomPayloadReplacesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [{"id": 1, "first_name": "Ann", "last_name": "Lee", "age": 30,
			"email": "ann@example.com", "role": "customer", "phone": "1"}],
		"orders": [],
		"offers": []
	}`), 0o600))

	cfg := testConfig(newDatabase(t))
	cfg.Seed.Path = path

	// Starting twice must yield the same contents: every start resets the store.
	startApp(t, cfg)
	srv := startApp(t, cfg)
	client := testutil.NewClient(srv.URL)

	resp, err := client.GET("/users/")
	require.NoError(t, err)
	var users []map[string]any
	testutil.DecodeJSON(t, resp, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0]["first_name"])

	resp, err = client.GET("/orders/")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, testutil.ReadBody(t, resp))

	// The identity sequence continues after the seeded ids.
	resp, err = client.POST("/users/", map[string]any{"first_name": "Bob"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	testutil.DecodeJSON(t, resp, &created)
	assert.EqualValues(t, 2, created["id"])
}

func TestSeed_BrokenPayloadKeepsData(t *testing.T) {
	cfg := testConfig(newDatabase(t))
	srv := startApp(t, cfg)

	resp, err := testutil.NewClient(srv.URL).POST("/users/", map[string]any{"first_name": "Kept"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [{"nickname": "x"}]}`), 0o600))
	cfg.Seed.Path = path

	_, err = app.New(cfg)
	require.Error(t, err)

	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT count(*) FROM users WHERE first_name = 'Kept'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSeed_DisabledOnlyMigrates(t *testing.T) {
	cfg := testConfig(newDatabase(t))
	cfg.Seed.Enabled = false
	srv := startApp(t, cfg)

	for _, path := range []string{"/users/", "/orders/", "/offers/"} {
		resp, err := testutil.NewClient(srv.URL).GET(path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `[]`, testutil.ReadBody(t, resp), path)
	}
}

func TestUsers_Lifecycle(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	resp, err := client.POST("/users/", map[string]any{
		"first_name": testutil.RandomName("Ann"),
		"last_name":  "Lee",
		"age":        31,
		"email":      email,
		"role":       "customer",
		"phone":      "555",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	testutil.DecodeJSON(t, resp, &created)
	id := int64(created["id"].(float64))
	path := fmt.Sprintf("/users/%d", id)

	resp, err = client.PUT(path, map[string]any{"age": 32})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"success"`, testutil.ReadBody(t, resp))

	resp, err = client.GET(path)
	require.NoError(t, err)
	var fetched map[string]any
	testutil.DecodeJSON(t, resp, &fetched)
	assert.EqualValues(t, 32, fetched["age"])
	assert.Equal(t, email, fetched["email"])
	assert.Equal(t, "Lee", fetched["last_name"])

	resp, err = client.DELETE(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.GET(path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestOrders_DatesRoundTrip(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.POST("/orders/", map[string]any{
		"name":        testutil.RandomName("Order"),
		"start_date":  "12/31/2023",
		"end_date":    "01/02/2024",
		"price":       900,
		"customer_id": 1,
		"executor_id": nil,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	testutil.DecodeJSON(t, resp, &created)
	path := fmt.Sprintf("/orders/%d", int64(created["id"].(float64)))

	resp, err = client.PUT(path, map[string]any{"end_date": "02/29/2024", "executor_id": 2})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.GET(path)
	require.NoError(t, err)
	var order map[string]any
	testutil.DecodeJSON(t, resp, &order)
	assert.Equal(t, "12/31/2023", order["start_date"])
	assert.Equal(t, "02/29/2024", order["end_date"])
	assert.EqualValues(t, 2, order["executor_id"])
	assert.EqualValues(t, 900, order["price"])
}

func TestWrites_Rejected(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
		status int
	}{
		{"unknown column", http.MethodPost, "/users/", map[string]any{"nickname": "x"}, http.StatusBadRequest},
		{"invalid date", http.MethodPost, "/orders/", map[string]any{"start_date": "2024-01-01"}, http.StatusBadRequest},
		{"duplicate id", http.MethodPost, "/users/", map[string]any{"id": 1}, http.StatusConflict},
		{"change id", http.MethodPut, "/users/1", map[string]any{"id": 77}, http.StatusBadRequest},
		{"wrong type", http.MethodPut, "/orders/1", map[string]any{"price": "cheap"}, http.StatusBadRequest},
		{"impossible date", http.MethodPut, "/orders/1", map[string]any{"end_date": "02/30/2024"}, http.StatusBadRequest},
		{"missing row", http.MethodPut, "/users/999999", map[string]any{"age": 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				resp *http.Response
				err  error
			)
			if tt.method == http.MethodPost {
				resp, err = client.POST(tt.path, tt.body)
			} else {
				resp, err = client.PUT(tt.path, tt.body)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}

	resp, err := client.GET("/offers/1")
	require.NoError(t, err)
	var offer map[string]any
	testutil.DecodeJSON(t, resp, &offer)
	assert.EqualValues(t, 1, offer["order_id"])
}

func TestDelete_ReferencedLeavesDanglingIDs(t *testing.T) {
	srv := startApp(t, testConfig(newDatabase(t)))
	client := testutil.NewClient(srv.URL)

	// Seeded user 2 executes order 1 and offers 1 and 5; order 1 has offers 1 and 2.
	for _, path := range []string{"/users/2", "/orders/1"} {
		resp, err := client.DELETE(path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `"success"`, testutil.ReadBody(t, resp), path)

		resp, err = client.GET(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		_ = resp.Body.Close()
	}

	resp, err := client.GET("/offers/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 1, "order_id": 1, "executor_id": 2}`, testutil.ReadBody(t, resp))
}

func TestSeed_MissingReferenceAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [{"id": 1, "first_name": "Ann"}],
		"orders": [{"id": 1, "customer_id": 1}],
		"offers": [{"id": 1, "order_id": 2, "executor_id": 1}]
	}`), 0o600))

	cfg := testConfig(newDatabase(t))
	cfg.Seed.Path = path

	_, err := app.New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, seed.ErrMissingReference)

	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	require.NoError(t, err)
	defer pool.Close()

	// The load transaction was rolled back as a whole.
	var count int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT count(*) FROM users`).Scan(&count))
	assert.Zero(t, count)
}

func TestCollections_ReflectWrites(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		collection string
		body       map[string]any
	}{
		{collection: "/users/", body: map[string]any{"first_name": testutil.RandomName("Ann")}},
		{collection: "/orders/", body: map[string]any{"name": testutil.RandomName("Order"), "start_date": "03/04/2025"}},
		{collection: "/offers/", body: map[string]any{"order_id": 3, "executor_id": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			client.SetT(t)

			resp, err := client.POST(tt.collection, tt.body)
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			var created map[string]any
			testutil.DecodeJSON(t, resp, &created)

			assert.Contains(t, listCollection(t, client, tt.collection), created)

			resp, err = client.DELETE(fmt.Sprintf("%s%d", tt.collection, int64(created["id"].(float64))))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_ = resp.Body.Close()

			assert.NotContains(t, listCollection(t, client, tt.collection), created)
		})
	}
}

func TestCreate_ExplicitIDAdvancesSequence(t *testing.T) {
	srv := startApp(t, testConfig(newDatabase(t)))
	client := testutil.NewClient(srv.URL)

	// The default seed leaves the users sequence at 6.
	resp, err := client.POST("/users/", map[string]any{"id": 7, "first_name": "Explicit"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var ids []float64
	for range 2 {
		resp, err := client.POST("/users/", map[string]any{})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created map[string]any
		testutil.DecodeJSON(t, resp, &created)
		ids = append(ids, created["id"].(float64))
	}
	assert.Equal(t, []float64{8, 9}, ids)

	// A lower explicit id does not move the sequence back.
	resp, err = client.POST("/users/", map[string]any{"id": 6})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST("/users/", map[string]any{})
	require.NoError(t, err)
	var next map[string]any
	testutil.DecodeJSON(t, resp, &next)
	assert.EqualValues(t, 10, next["id"])
}

func listCollection(t *testing.T, client *testutil.Client, path string) []map[string]any {
	t.Helper()
	resp, err := client.GET(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	testutil.DecodeJSON(t, resp, &items)
	return items
}

func TestRoutes_BadID(t *testing.T) {
	client := newTestClient(t)

	for _, path := range []string{"/users/abc", "/orders/1.5", "/offers/-"} {
		resp, err := client.WithoutValidation().GET(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}

func TestWrites_MalformedBody(t *testing.T) {
	client := newTestClient(t)

	for _, body := range []string{`{"first_name":`, `["Ann"]`, `{"age": 1} {"age": 2}`} {
		resp, err := client.Raw(http.MethodPut, "/users/1", body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		_ = resp.Body.Close()
	}

	resp, err := client.GET("/users/1")
	require.NoError(t, err)
	var user map[string]any
	testutil.DecodeJSON(t, resp, &user)
	assert.Equal(t, "Hudson", user["first_name"])
}
