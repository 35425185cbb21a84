package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app   *fiber.App
	store *memory.Store
	admin string
	staff string
}

// newTestServer arma la API completa sobre el store en memoria con un ADMIN y un STAFF.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewApplyMovementUseCase(memory.NewTxRunner(store), inventory.Config{TxTimeout: 2 * time.Second}, nil, nil)
	history := inventory.NewHistoryUseCase(store.Items(), store.Movements())

	admin := &entity.User{Username: "admin", PasswordHash: "x", Role: entity.RoleAdmin}
	staff := &entity.User{Username: "staff", PasswordHash: "x", Role: entity.RoleStaff}
	require.NoError(t, store.Users().Create(t.Context(), admin))
	require.NoError(t, store.Users().Create(t.Context(), staff))

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop(), nil))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}).
			WithBcryptCost(bcrypt.MinCost),
		ItemUC:        usecase.NewItemUseCase(store.Items(), store.Movements(), engine),
		ApplyMovement: engine,
		History:       history,
		ReportUC:      report.NewUseCase(store.Items(), store.Movements(), pdf.NewMarotoStockReport(language.Indonesian), 5),
		JWTSecret:     testJWTSecret,
	})
	return &testServer{
		app:   app,
		store: store,
		admin: tokenFor(t, admin.ID, entity.RoleAdmin),
		staff: tokenFor(t, staff.ID, entity.RoleStaff),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (s *testServer) createItem(t *testing.T, code string, stock int64) dto.ItemResponse {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/items", s.staff, map[string]any{
		"kode_barang": code, "nama_barang": "Barang " + code, "kategori": "ATK", "lokasi": "Rak 1", "stok": stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &item))
	return item
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroYLogin(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "budi", "password": "rahasia1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "budi", "password": "rahasia1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", errorCode(t, body))

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "budi", "password": "rahasia1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleStaff, login.User.Role)

	resp, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "budi", "password": "salah!"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transactions
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactions_EntradaYSalida(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "BRG-001", 10)

	resp, body := s.do(t, http.MethodPost, "/api/transactions", s.staff, `{"item_id":`+jsonInt(item.ID)+`,"direction":"OUT","quantity":3,"note":"pemakaian"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var mov dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mov))
	assert.Equal(t, entity.DirectionOUT, mov.Direction)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.NotZero(t, mov.ID)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	resp, body = s.do(t, http.MethodPost, "/api/transactions", s.staff, `{"item_id":`+jsonInt(item.ID)+`,"direction":"MASUK","quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(t, http.MethodGet, "/api/items/"+jsonInt(item.ID), s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, int64(12), got.Stock)
}

func TestTransactions_Rechazos(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "BRG-002", 2)
	id := jsonInt(item.ID)

	cases := []struct {
		name   string
		token  string
		body   string
		status int
		code   string
	}{
		{"stock insuficiente", s.staff, `{"item_id":` + id + `,"direction":"OUT","quantity":3}`, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"cantidad decimal", s.staff, `{"item_id":` + id + `,"direction":"IN","quantity":1.5}`, http.StatusBadRequest, "VALIDATION"},
		{"cantidad cero", s.staff, `{"item_id":` + id + `,"direction":"IN","quantity":0}`, http.StatusBadRequest, "VALIDATION"},
		{"direccion invalida", s.staff, `{"item_id":` + id + `,"direction":"MOVE","quantity":1}`, http.StatusBadRequest, "VALIDATION"},
		{"articulo inexistente", s.staff, `{"item_id":9999,"direction":"IN","quantity":1}`, http.StatusNotFound, "NOT_FOUND"},
		{"body invalido", s.staff, `{"item_id":`, http.StatusBadRequest, "INVALID_BODY"},
		{"sin token", "", `{"item_id":` + id + `,"direction":"IN","quantity":1}`, http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/api/transactions", tc.token, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			assert.Equal(t, tc.code, errorCode(t, body))
		})
	}

	n, err := s.store.Movements().CountByItem(t.Context(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "solo el movimiento de stock inicial")
}

func TestTransactions_HistorialGlobal(t *testing.T) {
	s := newTestServer(t)
	item := s.createItem(t, "BRG-003", 4)
	resp, _ := s.do(t, http.MethodPost, "/api/transactions", s.staff, `{"item_id":`+jsonInt(item.ID)+`,"direction":"OUT","quantity":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/api/transactions/history?limit=10", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.MovementHistoryListResponse
	require.NoError(t, json.Unmarshal(body, &hist))
	require.Len(t, hist.Items, 2)
	assert.Equal(t, entity.DirectionOUT, hist.Items[0].Direction, "el más reciente primero")
	assert.Equal(t, "BRG-003", hist.Items[0].ItemCode)
	assert.Equal(t, "staff", hist.Items[0].Username)
	assert.Equal(t, 10, hist.Page.Limit)

	resp, body = s.do(t, http.MethodGet, "/api/items/"+jsonInt(item.ID)+"/movements", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byItem dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &byItem))
	assert.Len(t, byItem.Items, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_EliminarRequiereAdminYSinHistorial(t *testing.T) {
	s := newTestServer(t)
	withHistory := s.createItem(t, "BRG-010", 1)
	empty := s.createItem(t, "BRG-011", 0)

	resp, _ := s.do(t, http.MethodDelete, "/api/items/"+jsonInt(empty.ID), s.staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodDelete, "/api/items/"+jsonInt(withHistory.ID), s.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))

	resp, _ = s.do(t, http.MethodDelete, "/api/items/"+jsonInt(empty.ID), s.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/items/abc", s.staff, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_CodigoDuplicado(t *testing.T) {
	s := newTestServer(t)
	s.createItem(t, "BRG-020", 0)
	resp, body := s.do(t, http.MethodPost, "/api/items", s.staff, map[string]any{"kode_barang": "BRG-020", "nama_barang": "Otro"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, body))
}

func TestReports_SoloAdmin(t *testing.T) {
	s := newTestServer(t)
	s.createItem(t, "BRG-030", 2)
	s.createItem(t, "BRG-031", 9)

	resp, _ := s.do(t, http.MethodGet, "/api/reports/stock", s.staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/api/reports/low-stock", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low dto.StockReportResponse
	require.NoError(t, json.Unmarshal(body, &low))
	require.Len(t, low.Items, 1)
	assert.Equal(t, "BRG-030", low.Items[0].Code)

	resp, body = s.do(t, http.MethodGet, "/api/reports/export/csv", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "stock_report.csv")
	assert.True(t, strings.HasPrefix(string(body), "kode_barang,nama_barang,kategori,lokasi,stok"))

	resp, body = s.do(t, http.MethodGet, "/api/reports/export/pdf", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = s.do(t, http.MethodGet, "/api/reports/reconciliation", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec dto.ReconciliationResponse
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, 2, rec.ItemsChecked)
	assert.Empty(t, rec.Drifting)
}

func jsonInt(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
