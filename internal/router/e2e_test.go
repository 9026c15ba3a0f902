//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/srouini/SmartStore/internal/config"
	"github.com/srouini/SmartStore/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("smartstore_test"),
		tcPostgres.WithUsername("smartstore"),
		tcPostgres.WithPassword("smartstore"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		TVARatePct:         19,
		WorkerPoolSize:     1,
		StoreName:          "SmartStore Test",
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO users (username, full_name, password_hash, role)
		 VALUES ('admin', 'Admin E2E', ?, 'admin') ON CONFLICT DO NOTHING`,
		string(hash),
	).Error)

	r, pool := New(cfg, db, rdb)
	pool.Start(ctx, cfg.WorkerPoolSize)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createProduct(t *testing.T, name, unitPrice string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":               name,
			"product_type":       "accessory",
			"selling_unit_price": unitPrice,
			"accessory_spec":     map[string]any{"category": "charger"},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &product)
	require.Len(t, product.Code, 4)
	return product.ID
}

func (env *testEnv) addStock(t *testing.T, productID string, qty int) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/stock/add",
		jsonBody(t, map[string]any{
			"product_id": productID,
			"quantity":   qty,
			"reason":     "e2e seed",
		}),
		env.token,
	)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func (env *testEnv) createCaisse(t *testing.T, name, initialBalance string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/caisses",
		jsonBody(t, map[string]any{"name": name, "initial_balance": initialBalance}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var caisse struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &caisse)
	return caisse.ID
}

func (env *testEnv) caisseBalance(t *testing.T, caisseID string) string {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/caisses/"+caisseID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var caisse struct {
		Balance string `json:"balance"`
	}
	decodeJSON(t, resp, &caisse)
	return caisse.Balance
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Charger 20W", "25.00")
	env.addStock(t, productID, 10)
	caisseID := env.createCaisse(t, "Front desk", "100.00")

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_type": "particular",
			"caisse_id": caisseID,
			"items": []map[string]any{
				{"product_id": productID, "quantity": 2},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID          string `json:"id"`
		TotalAmount string `json:"total_amount"`
		Status      string `json:"status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "completed", sale.Status)
	assert.Equal(t, "50", sale.TotalAmount)

	// Sale total was deposited into the register.
	assert.Equal(t, "150", env.caisseBalance(t, caisseID))

	listResp := do(t, env.server, "GET", "/v1/sales?status=completed", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
}

func TestE2E_CancelSaleRestoresStockAndCaisse(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Power Bank", "40.00")
	env.addStock(t, productID, 5)
	caisseID := env.createCaisse(t, "Front desk", "0.00")

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_type": "particular",
			"caisse_id": caisseID,
			"items": []map[string]any{
				{"product_id": productID, "quantity": 3},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "120", env.caisseBalance(t, caisseID))

	cancelResp := do(t, env.server, "DELETE", "/v1/sales/"+sale.ID,
		jsonBody(t, map[string]any{"reason": "customer returned the items"}),
		env.token,
	)
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)
	cancelResp.Body.Close()

	assert.Equal(t, "0", env.caisseBalance(t, caisseID))

	// Stock is back and the register reconciles cleanly.
	productResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, productResp.StatusCode)
	var product struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decodeJSON(t, productResp, &product)
	assert.Equal(t, 5, product.StockQuantity)

	reconcileResp := do(t, env.server, "GET", fmt.Sprintf("/v1/caisses/%s/reconcile", caisseID), nil, env.token)
	require.Equal(t, http.StatusOK, reconcileResp.StatusCode)
	var reconcile struct {
		Consistent     bool `json:"consistent"`
		OperationCount int  `json:"operation_count"`
	}
	decodeJSON(t, reconcileResp, &reconcile)
	assert.True(t, reconcile.Consistent)
	assert.Equal(t, 2, reconcile.OperationCount)
}

func TestE2E_InsufficientStockRejected(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "USB-C Cable", "5.00")
	env.addStock(t, productID, 1)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"sale_type": "particular",
			"items": []map[string]any{
				{"product_id": productID, "quantity": 2},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// The rejected sale must not have touched the stock.
	productResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, productResp.StatusCode)
	var product struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decodeJSON(t, productResp, &product)
	assert.Equal(t, 1, product.StockQuantity)
}

// post fires one authenticated POST and reports the status code. Safe to
// call from spawned goroutines: it never touches testing.T.
func (env *testEnv) post(path string, payload any) int {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0
	}
	req, err := http.NewRequest("POST", env.server.URL+path, bytes.NewReader(body))
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.server.Client().Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestE2E_ConcurrentSalesNeverOversell(t *testing.T) {
	env := setupTestEnv(t)

	productID := env.createProduct(t, "Screen Protector", "8.00")
	env.addStock(t, productID, 5)

	// Ten buyers race for five units. The conditional UPDATE must let
	// exactly five through; the rest see a stock-shortfall conflict.
	const buyers = 10
	statuses := make(chan int, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses <- env.post("/v1/sales", map[string]any{
				"sale_type": "particular",
				"items": []map[string]any{
					{"product_id": productID, "quantity": 1},
				},
			})
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts := 0, 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 5, created)
	assert.Equal(t, 5, conflicts)

	productResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, productResp.StatusCode)
	var product struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decodeJSON(t, productResp, &product)
	assert.Equal(t, 0, product.StockQuantity)
}

func TestE2E_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	env := setupTestEnv(t)

	caisseID := env.createCaisse(t, "Front desk", "100.00")

	// Ten clerks race to withdraw 30.00 from 100.00. Only three can fit.
	const clerks = 10
	statuses := make(chan int, clerks)
	var wg sync.WaitGroup
	for i := 0; i < clerks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses <- env.post("/v1/caisses/"+caisseID+"/withdraw", map[string]any{
				"amount": "30.00",
				"reason": "cash pickup",
			})
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts := 0, 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 3, created)
	assert.Equal(t, 7, conflicts)
	assert.Equal(t, "10", env.caisseBalance(t, caisseID))

	reconcileResp := do(t, env.server, "GET", fmt.Sprintf("/v1/caisses/%s/reconcile", caisseID), nil, env.token)
	require.Equal(t, http.StatusOK, reconcileResp.StatusCode)
	var reconcile struct {
		Consistent     bool `json:"consistent"`
		OperationCount int  `json:"operation_count"`
	}
	decodeJSON(t, reconcileResp, &reconcile)
	assert.True(t, reconcile.Consistent)
	// Opening balance plus three successful withdrawals.
	assert.Equal(t, 4, reconcile.OperationCount)
}

func TestE2E_PublicPriceLookup(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":               "Tempered Glass",
			"code":               "AB23",
			"product_type":       "accessory",
			"selling_unit_price": "3.50",
			"accessory_spec":     map[string]any{"category": "screen_protector"},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// No Authorization header — the price check is public.
	priceResp := do(t, env.server, "GET", "/v1/price/ab23", nil, "")
	require.Equal(t, http.StatusOK, priceResp.StatusCode)
	var price struct {
		Name             string `json:"name"`
		Code             string `json:"code"`
		SellingUnitPrice string `json:"selling_unit_price"`
	}
	decodeJSON(t, priceResp, &price)
	assert.Equal(t, "Tempered Glass", price.Name)
	assert.Equal(t, "AB23", price.Code)
	assert.Equal(t, "3.5", price.SellingUnitPrice)
}
