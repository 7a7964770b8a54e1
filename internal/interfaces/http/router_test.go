package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/AgroRegistro-api/internal/application/access"
	"github.com/jhoicas/AgroRegistro-api/internal/application/auth"
	"github.com/jhoicas/AgroRegistro-api/internal/application/provisioning"
	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/application/validation"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/memory"
	"github.com/jhoicas/AgroRegistro-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/AgroRegistro-api/internal/interfaces/http"
)

// newAPI arma la API completa sobre el almacén en memoria con un empleado ya creado.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.New().WithBcryptCost(bcrypt.MinCost)
	dir := s.Directory()
	require.NoError(t, dir.CreateAccount(context.Background(),
		&entity.Account{Email: "employee@farm.com", Roles: []string{entity.RoleEmployee}}, "Pass123!"))

	v := validation.New()
	scope := access.NewScopeService(s.Farmers(), s.Products(), dir)
	productUC := usecase.NewProductUseCase(scope, s.Products(), s.Farmers(), s.TxRunner(), v, zerolog.Nop())

	app := fiber.New()
	app.Get("/health", apphttp.Health)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(dir, dir, v, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC:    productUC,
		FarmerUC:     usecase.NewFarmerUseCase(scope, s.Farmers(), v),
		ReportUC:     usecase.NewReportUseCase(scope, s.Products(), s.Farmers(), pdf.NewMarotoReportGenerator("agro-registro")),
		Provisioning: provisioning.NewService(dir, s.Farmers(), scope, v, zerolog.Nop()),
		Scope:        scope,
		JWTSecret:    testJWTSecret,
	})
	return app
}

// call hace una petición JSON y decodifica la respuesta si es JSON.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": "Pass123!"})
	require.Equal(t, http.StatusCreated, status, body)
	return body["id"].(string)
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "Pass123!"})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func promote(t *testing.T, app *fiber.App, employeeToken, accountID, name string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/employee/farmers", employeeToken, map[string]string{
		"account_id": accountID, "name": name, "contact_number": "+57 300 123 4567",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Farmer", body["state"])
	return body["farmer"].(map[string]any)["id"].(string)
}

func TestAPI_Health(t *testing.T) {
	app := newAPI(t)
	status, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_RegistroYLogin(t *testing.T) {
	app := newAPI(t)
	register(t, app, "Alice@Farm.com")

	status, body := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "alice@farm.com", "password": "Pass123!"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])

	status, body = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "no-es-email", "password": "corta"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	status, body = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@farm.com", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	token := login(t, app, "alice@farm.com")
	status, body = call(t, app, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/", body["landing"])
}

func TestAPI_FlujoCompletoDeAgricultor(t *testing.T) {
	app := newAPI(t)
	employee := login(t, app, "employee@farm.com")
	aliceID := register(t, app, "alice@farm.com")
	alice := login(t, app, "alice@farm.com")

	// Antes de la promoción la cuenta no entra a las rutas de agricultor.
	status, _ := call(t, app, http.MethodGet, "/api/farmer/products", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := call(t, app, http.MethodGet, "/api/employee/candidates/"+aliceID, employee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice@farm.com", body["email"])

	farmerID := promote(t, app, employee, aliceID, "Alice Green")

	// El token emitido antes de la promoción ya sirve: el rol se consulta en cada petición.
	status, body = call(t, app, http.MethodGet, "/api/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/farmer/products", body["landing"])

	status, body = call(t, app, http.MethodPost, "/api/employee/farmers", employee, map[string]string{"account_id": aliceID, "name": "Otra vez"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_ELIGIBLE", body["code"])

	status, body = call(t, app, http.MethodPost, "/api/farmer/products", alice, map[string]string{
		"name": "Organic Apples", "category": "fruit", "production_date": "2025-04-01", "farmer_id": "otro",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, farmerID, body["farmer_id"])
	assert.Equal(t, "Fruit", body["category"])
	productID := body["id"].(string)

	status, body = call(t, app, http.MethodGet, "/api/farmer/products?category=Fruit&start_date=2025-01-01", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = call(t, app, http.MethodGet, "/api/farmer/products?end_date=2025-03-31", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, body = call(t, app, http.MethodGet, "/api/farmer/products?start_date=01-04-2025", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "date", body["fields"].(map[string]any)["start_date"])

	status, body = call(t, app, http.MethodPut, "/api/farmer/products/"+productID, alice, map[string]any{"name": "Gala Apples", "version": 1})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 2, body["version"])

	status, body = call(t, app, http.MethodPut, "/api/farmer/products/"+productID, alice, map[string]any{"name": "Fuji Apples", "version": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONCURRENCY_CONFLICT", body["code"])

	status, body = call(t, app, http.MethodGet, "/api/employee/farmers/"+farmerID+"/products", employee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, "Alice Green", body["farmer"].(map[string]any)["name"])

	status, body = call(t, app, http.MethodGet, "/api/products/categories", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["items"], "Fruit")

	status, body = call(t, app, http.MethodDelete, "/api/farmer/products/"+productID, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["deleted"])

	status, body = call(t, app, http.MethodDelete, "/api/farmer/products/"+productID, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["deleted"])
}

func TestAPI_AgricultorNoVeProductosAjenos(t *testing.T) {
	app := newAPI(t)
	employee := login(t, app, "employee@farm.com")
	aliceID := register(t, app, "alice@farm.com")
	bobID := register(t, app, "bob@farm.com")
	promote(t, app, employee, aliceID, "Alice Green")
	promote(t, app, employee, bobID, "Bob White")
	alice := login(t, app, "alice@farm.com")
	bob := login(t, app, "bob@farm.com")

	status, body := call(t, app, http.MethodPost, "/api/farmer/products", alice, map[string]string{
		"name": "Heirloom Carrots", "category": "Vegetable", "production_date": "2025-03-20",
	})
	require.Equal(t, http.StatusCreated, status)
	productID := body["id"].(string)

	status, _ = call(t, app, http.MethodGet, "/api/farmer/products/"+productID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodPut, "/api/farmer/products/"+productID, bob, map[string]string{"name": "Mías"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodDelete, "/api/farmer/products/"+productID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, "/api/farmer/products", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	// Un agricultor no entra a las rutas de empleado.
	status, _ = call(t, app, http.MethodGet, "/api/employee/farmers", bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_ReportePDF(t *testing.T) {
	app := newAPI(t)
	employee := login(t, app, "employee@farm.com")
	aliceID := register(t, app, "alice@farm.com")
	farmerID := promote(t, app, employee, aliceID, "Alice Green")
	alice := login(t, app, "alice@farm.com")

	status, _ := call(t, app, http.MethodPost, "/api/farmer/products", alice, map[string]string{
		"name": "Fresh Eggs", "category": "Poultry", "production_date": "2025-04-05",
	})
	require.Equal(t, http.StatusCreated, status)

	for _, tc := range []struct{ path, token string }{
		{"/api/farmer/products/report", alice},
		{"/api/employee/farmers/" + farmerID + "/products/report?category=poultry", employee},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, tc.path)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
		assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), tc.path)
	}
}

func TestAPI_RetiroDeAgricultor(t *testing.T) {
	app := newAPI(t)
	employee := login(t, app, "employee@farm.com")
	aliceID := register(t, app, "alice@farm.com")
	farmerID := promote(t, app, employee, aliceID, "Alice Green")
	alice := login(t, app, "alice@farm.com")

	status, _ := call(t, app, http.MethodGet, "/api/farmer/profile", alice, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, app, http.MethodDelete, "/api/employee/farmers/"+farmerID, employee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, aliceID, body["account_id"])

	status, _ = call(t, app, http.MethodGet, "/api/farmer/profile", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodGet, "/api/employee/candidates", employee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1, "la cuenta vuelve a ser elegible")

	status, body = call(t, app, http.MethodGet, "/api/employee/inconsistencies", employee, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, _ = call(t, app, http.MethodDelete, "/api/employee/farmers/"+farmerID, employee, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
