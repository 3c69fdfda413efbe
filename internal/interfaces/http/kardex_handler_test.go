package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba: API completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	handlerCompany = "00000000-0000-0000-0000-000000000002"
	handlerLoc     = "LOC-A"
	handlerItem    = "ITEM-TUBO"
)

func buildKardexApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.PutCompany(entity.Company{ID: handlerCompany, Name: "Bodega Central SA"})
	store.PutLocation(entity.Location{ID: handlerLoc, CompanyID: handlerCompany, Code: "A-01", Name: "Estantería A"})
	store.PutItem(entity.Item{
		ID: handlerItem, CompanyID: handlerCompany, SKU: "TUB-001", Name: "Tubo PVC 1/2", BaseUnit: "un",
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SubmitMovement: appkardex.NewSubmitMovementUseCase(store, store.Items(), store.Lots(), store.Locations(), store.WorkOrders()),
		DecideMovement: appkardex.NewDecideMovementUseCase(store),
		CycleCount:     appkardex.NewCycleCountUseCase(store, store.Items(), store.Lots(), store.Locations()),
		Reconcile:      appkardex.NewReconcileUseCase(store.Movements(), store.Stock()),
		Query:          appkardex.NewQueryUseCase(store.Movements(), store.Stock(), store.Items(), store.Lots(), store.Locations()),
		Report:         nil,
		CatalogUC:      usecase.NewCatalogUseCase(store.Items(), store.Lots(), store.Locations()),
		WorkOrderUC:    usecase.NewWorkOrderUseCase(store.WorkOrders()),
		JWTSecret:      testJWTSecret,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo por HTTP: registrar, contar, aprobar, listar
// ──────────────────────────────────────────────────────────────────────────────

// Registrar una entrada devuelve 201 con el asiento aprobado y el stock consulta bien.
func TestKardexHandler_EntradaYStock(t *testing.T) {
	app, _ := buildKardexApp(t)
	token := tokenForRole(t, entity.RoleBODEGUERO)

	resp := doJSON(t, app, http.MethodPost, "/api/kardex/movements", token, map[string]any{
		"movement_type":    "IN",
		"qr":               "ITEM:" + handlerCompany + ":" + handlerItem,
		"quantity":         "12",
		"location_from_id": handlerLoc,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "APPROVED", body["status"])

	resp = doJSON(t, app, http.MethodGet, "/api/kardex/stock", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decodeBody(t, resp)
	assert.EqualValues(t, 1, stock["total"])
}

// Un QR malformado responde 400 con el código de error propio.
func TestKardexHandler_QRMalformado(t *testing.T) {
	app, _ := buildKardexApp(t)
	token := tokenForRole(t, entity.RoleBODEGUERO)

	resp := doJSON(t, app, http.MethodPost, "/api/kardex/movements", token, map[string]any{
		"movement_type":    "IN",
		"qr":               "no-es-un-qr",
		"quantity":         "12",
		"location_from_id": handlerLoc,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "MALFORMED_QR", body["code"])
}

// La decisión está detrás de RequireRole: un bodeguero ni siquiera llega al handler.
func TestKardexHandler_DecisionExigeRango(t *testing.T) {
	app, _ := buildKardexApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/kardex/movements/cualquiera/decision",
		tokenForRole(t, entity.RoleBODEGUERO), map[string]any{"approved": true})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Ciclo completo: conteo con diferencia → ajuste pendiente → aprobación por
// supervisor → segunda decisión choca con 409.
func TestKardexHandler_ConteoYDobleDecision(t *testing.T) {
	app, _ := buildKardexApp(t)
	bodeguero := tokenForRole(t, entity.RoleBODEGUERO)
	supervisor := tokenForRole(t, entity.RoleSUPERVISOR)

	// Stock inicial de 12 unidades.
	resp := doJSON(t, app, http.MethodPost, "/api/kardex/movements", bodeguero, map[string]any{
		"movement_type":    "IN",
		"qr":               "ITEM:" + handlerCompany + ":" + handlerItem,
		"quantity":         "12",
		"location_from_id": handlerLoc,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Conteo físico de 8: nace el ajuste pendiente.
	resp = doJSON(t, app, http.MethodPost, "/api/kardex/cycle-counts", bodeguero, map[string]any{
		"location_id": handlerLoc,
		"item_id":     handlerItem,
		"counted_qty": "8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	adjustment := decodeBody(t, resp)
	assert.Equal(t, "PENDING", adjustment["status"])
	movementID, _ := adjustment["id"].(string)
	require.NotEmpty(t, movementID)

	// Aparece en la bandeja de pendientes.
	resp = doJSON(t, app, http.MethodGet, "/api/kardex/pending-approvals", supervisor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := decodeBody(t, resp)
	assert.EqualValues(t, 1, pending["total"])

	// El supervisor aprueba.
	resp = doJSON(t, app, http.MethodPost, "/api/kardex/movements/"+movementID+"/decision",
		supervisor, map[string]any{"approved": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decided := decodeBody(t, resp)
	assert.Equal(t, "APPROVED", decided["status"])
	assert.Equal(t, testUserName, decided["approved_by"])

	// Una segunda decisión llega tarde: 409.
	resp = doJSON(t, app, http.MethodPost, "/api/kardex/movements/"+movementID+"/decision",
		supervisor, map[string]any{"approved": false})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	conflict := decodeBody(t, resp)
	assert.Equal(t, "NOT_PENDING", conflict["code"])
}

// La conciliación es de ADMIN hacia arriba y reporta balanceado en operación normal.
func TestKardexHandler_Conciliacion(t *testing.T) {
	app, _ := buildKardexApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/kardex/reconcile", tokenForRole(t, entity.RoleSUPERVISOR), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "supervisor no concilia")
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/kardex/reconcile", tokenForRole(t, entity.RoleADMIN), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["balanced"])
}

// Las órdenes de trabajo llevan consecutivo diario OT-YYYYMMDD-NNN.
func TestKardexHandler_CrearOrdenDeTrabajo(t *testing.T) {
	app, _ := buildKardexApp(t)
	token := tokenForRole(t, entity.RoleSUPERVISOR)

	resp := doJSON(t, app, http.MethodPost, "/api/work-orders/", token, map[string]any{
		"responsible": "Carlos Pérez",
		"cost_center": "CC-MANT",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)

	expectedPrefix := "OT-" + time.Now().UTC().Format("20060102") + "-001"
	assert.Equal(t, expectedPrefix, body["code"])
	assert.Equal(t, "OPEN", body["status"])
}
