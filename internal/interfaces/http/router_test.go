package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Provisiona-api/internal/application/auth"
	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Provisiona-api/internal/interfaces/http"
)

// routerNow 15 de marzo de 2026; febrero ya está cerrado.
var routerNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

type routerEnv struct {
	app   *fiber.App
	token string
}

type envOpts struct {
	llm       ports.LLMService
	documents bool
	rateLimit apphttp.RateLimitConfig
}

func newRouterEnv(t *testing.T, opts envOpts) *routerEnv {
	t.Helper()
	clock := func() time.Time { return routerNow }

	users := &memUsers{users: map[string]*entity.User{}}
	profiles := &memProfiles{byID: map[string]entity.TaxProfile{}}
	inputs := &memInputs{rows: map[inputKey]entity.MonthlyInput{}}

	provisionUC := usecase.NewProvisionUseCase(profiles, inputs, users, nil, clock)
	deps := apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProfileUC:   usecase.NewProfileUseCase(profiles, clock),
		MonthlyUC:   usecase.NewMonthlyInputUseCase(inputs, clock),
		ProvisionUC: provisionUC,
		ChatUC:      usecase.NewChatUseCase(opts.llm, &memMessages{}, provisionUC, time.Second, zerolog.Nop()),
		JWTSecret:   testJWTSecret,
		RateLimit:   opts.rateLimit,
	}
	if deps.RateLimit.Max == 0 {
		deps.RateLimit = apphttp.RateLimitConfig{Max: 100, Window: time.Minute}
	}
	if opts.documents {
		deps.DocumentUC = usecase.NewDocumentUseCase(
			&memDocuments{docs: map[string]*entity.Document{}},
			&memStorage{objects: map[string][]byte{}},
			1<<20, zerolog.Nop(),
		)
	}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)
	env := &routerEnv{app: app}

	resp := env.do(t, http.MethodPost, "/api/auth/register", `{"email":"Ana@Example.com","password":"secreto123","name":"Ana"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secreto123"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.Token)
	env.token = login.Token
	return env
}

func (e *routerEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if e.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	decodeJSON(t, resp, &out)
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestRouter_RegistroDuplicado(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodPost, "/api/auth/register", `{"email":"ana@example.com","password":"otroSecreto"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decodeError(t, resp).Code)
}

func TestRouter_LoginPasswordIncorrecto(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	env.token = ""
	resp := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"incorrecto"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RutaApiDesconocidaSinToken(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	env.token = ""
	resp := env.do(t, http.MethodGet, "/api/no-existe", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)

	// Los prefijos protegidos siguen exigiendo token, incluso en subrutas inexistentes.
	resp = env.do(t, http.MethodGet, "/api/profile/otra", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Me(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/me", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decodeJSON(t, resp, &me)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "Ana", me.Name)
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	env.token = ""
	resp := env.do(t, http.MethodGet, "/api/provision/estimate", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ── Perfil, datos mensuales y provisión ──────────────────────────────────────

func TestRouter_PerfilNoRegistrado(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/profile", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PROFILE_NOT_FOUND", decodeError(t, resp).Code)
}

func TestRouter_PerfilInvalidoIndicaCampo(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodPut, "/api/profile", `{"persona_type":"natural","regimen":"especial"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "regimen", e.Field)
}

func TestRouter_CuerpoNoEsObjeto(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodPut, "/api/profile", `[1,2]`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestRouter_EstimacionSinPerfil(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/provision/estimate", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var est dto.EstimateResponse
	decodeJSON(t, resp, &est)
	assert.False(t, est.Ready)
	assert.Equal(t, dto.NotReadyProfileMissing, est.Reason)
	assert.Equal(t, "2026-03", est.Period)
}

func TestRouter_FlujoCompletoDeEstimacion(t *testing.T) {
	env := newRouterEnv(t, envOpts{})

	resp := env.do(t, http.MethodPut, "/api/profile", `{"persona_type":"natural","regimen":"simple","vat_responsible":"yes","provision_style":"balanced"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/provision/estimate", "")
	var est dto.EstimateResponse
	decodeJSON(t, resp, &est)
	assert.False(t, est.Ready)
	assert.Equal(t, dto.NotReadyMonthlyInputMissing, est.Reason)

	resp = env.do(t, http.MethodPut, "/api/monthly-inputs",
		`{"year":2026,"month":3,"income_cop":10000000,"deductible_expenses_cop":"2000000","vat_collected_cop":500000}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/provision/estimate", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	est = dto.EstimateResponse{}
	decodeJSON(t, resp, &est)
	require.True(t, est.Ready)
	require.NotNil(t, est.Breakdown)
	assertDecimal(t, "500000", est.Breakdown.IVAProvision)
	assertDecimal(t, "8000000", est.Breakdown.Base)
	assertDecimal(t, "400000", est.Breakdown.RentaProvision)
	assertDecimal(t, "900000", est.Breakdown.TotalProvision)
	assertDecimal(t, "7100000", est.Breakdown.CashAfterProvision)
	assert.Equal(t, string(entity.RiskLow), est.Breakdown.RiskLevel)

	resp = env.do(t, http.MethodGet, "/api/monthly-inputs/2026/3", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/provision/history?months=3", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var hist dto.HistoryResponse
	decodeJSON(t, resp, &hist)
	assert.Equal(t, 3, hist.Months)
	require.Len(t, hist.Points, 1)
	assert.Equal(t, "2026-03", hist.Points[0].Period)
}

func TestRouter_MesCerradoYMesFuturo(t *testing.T) {
	env := newRouterEnv(t, envOpts{})

	resp := env.do(t, http.MethodPut, "/api/monthly-inputs", `{"year":2026,"month":2,"income_cop":100}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "MONTH_CLOSED", decodeError(t, resp).Code)

	resp = env.do(t, http.MethodPut, "/api/monthly-inputs", `{"year":2026,"month":4,"income_cop":100}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "month", decodeError(t, resp).Field)
}

func TestRouter_MesNoRegistrado(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/monthly-inputs/2026/1", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_VentanaInvalida(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	for _, q := range []string{"abc", "0", "25"} {
		resp := env.do(t, http.MethodGet, "/api/monthly-inputs?months="+q, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "months", decodeError(t, resp).Field, q)
	}
}

func TestRouter_HistorialSinPerfil(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/provision/history", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, dto.NotReadyProfileMissing, decodeError(t, resp).Code)
}

// ── Chat ─────────────────────────────────────────────────────────────────────

func TestRouter_ChatSinProveedor(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodPost, "/api/chat", `{"message":"hola"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", decodeError(t, resp).Code)
}

func TestRouter_ChatConContexto(t *testing.T) {
	llm := &stubLLM{reply: "Aparta **$900.000**."}
	env := newRouterEnv(t, envOpts{llm: llm})
	env.do(t, http.MethodPut, "/api/profile", `{"persona_type":"natural","regimen":"simple"}`)
	env.do(t, http.MethodPut, "/api/monthly-inputs", `{"year":2026,"month":3,"income_cop":1000000}`)

	resp := env.do(t, http.MethodPost, "/api/chat", `{"message":"¿cuánto aparto?"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.ChatResponse
	decodeJSON(t, resp, &out)
	assert.True(t, out.ProvisionContext)
	assert.Contains(t, out.Reply.HTML, "<strong>")
	assert.Contains(t, llm.system, `"status":"ok"`)

	resp = env.do(t, http.MethodGet, "/api/chat/messages", "")
	var hist dto.ChatHistoryResponse
	decodeJSON(t, resp, &hist)
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, entity.ChatRoleUser, hist.Messages[0].Role)

	resp = env.do(t, http.MethodDelete, "/api/chat/messages", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRouter_ChatMensajeVacio(t *testing.T) {
	env := newRouterEnv(t, envOpts{llm: &stubLLM{reply: "x"}})
	resp := env.do(t, http.MethodPost, "/api/chat", `{"message":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ── Límite de peticiones ─────────────────────────────────────────────────────

func TestRouter_LimiteDePeticionesEnAuth(t *testing.T) {
	// registro + login del setup consumen 2 de 3
	env := newRouterEnv(t, envOpts{rateLimit: apphttp.RateLimitConfig{Max: 3, Window: time.Minute}})
	env.token = ""
	body := `{"email":"ana@example.com","password":"secreto123"}`

	resp := env.do(t, http.MethodPost, "/api/auth/login", body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/login", body)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp).Code)
}

// ── Documentos ───────────────────────────────────────────────────────────────

func TestRouter_DocumentosSinAlmacenamiento(t *testing.T) {
	env := newRouterEnv(t, envOpts{})
	resp := env.do(t, http.MethodGet, "/api/documents", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORAGE_UNAVAILABLE", decodeError(t, resp).Code)
}

func uploadRequest(t *testing.T, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("category", "certificate"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestRouter_DocumentosCicloCompleto(t *testing.T) {
	env := newRouterEnv(t, envOpts{documents: true})
	content := []byte("%PDF-1.4 certificado de retención")

	resp, err := env.app.Test(uploadRequest(t, env.token, "certificado.pdf", "application/pdf", content), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var doc dto.DocumentResponse
	decodeJSON(t, resp, &doc)
	assert.Equal(t, "certificate", doc.Category)
	assert.Equal(t, int64(len(content)), doc.SizeBytes)

	resp = env.do(t, http.MethodGet, "/api/documents", "")
	var list dto.DocumentListResponse
	decodeJSON(t, resp, &list)
	require.Len(t, list.Items, 1)

	resp = env.do(t, http.MethodGet, "/api/documents/"+doc.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	resp = env.do(t, http.MethodDelete, "/api/documents/"+doc.ID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/documents/"+doc.ID, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_DocumentoTipoNoPermitido(t *testing.T) {
	env := newRouterEnv(t, envOpts{documents: true})
	resp, err := env.app.Test(uploadRequest(t, env.token, "script.exe", "application/x-msdownload", []byte("MZ")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestErrorHandler_RutaInexistente(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}
