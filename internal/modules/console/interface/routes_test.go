package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	"adminConsole/internal/shared/auth"
)

const (
	routesSecret       = "routes-secret"
	departmentConflict = "Cannot delete department with existing employees. Reassign employees first."
)

// recordsAPI serves a small departments collection the way the records API does.
type recordsAPI struct {
	mu          sync.Mutex
	departments []map[string]any
}

func (api *recordsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/departments" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(api.departments)
	case strings.HasPrefix(r.URL.Path, "/api/departments/") && r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": departmentConflict})
	case r.URL.Path == "/api/employees/dashboard/stats":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"totalEmployees":  3,
				"activeEmployees": 2,
				"departmentStats": map[string]any{"Finance": 3},
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newConsoleServer(t *testing.T, departments []map[string]any) *echo.Echo {
	t.Helper()
	records := httptest.NewServer(&recordsAPI{departments: departments})
	t.Cleanup(records.Close)

	rest := infrastructure.NewRESTClient(records.URL+"/api", time.Second, nil)
	employees, err := infrastructure.NewResourceHTTPClient(rest, domain.EmployeeKind)
	require.NoError(t, err)
	depts, err := infrastructure.NewResourceHTTPClient(rest, domain.DepartmentKind)
	require.NoError(t, err)
	users, err := infrastructure.NewResourceHTTPClient(rest, domain.UserKind)
	require.NoError(t, err)
	dashboard := infrastructure.NewDashboardHTTPClient(rest)

	hub := infrastructure.NewHub()
	e := echo.New()
	RegisterRoutes(e, Dependencies{
		Hub:         hub,
		Views:       usecase.NewViewFactory(employees.Source(), depts.Source(), users.Source(), usecase.NewOutcomeReporter(hub, nil), 10),
		Dashboard:   usecase.NewDashboardUseCase(dashboard.StatsSource(), dashboard.LookupSource()),
		Exporter:    infrastructure.NewSpreadsheetExporter(),
		Validator:   auth.NewJWTValidator(routesSecret),
		Websocket:   WebsocketOptions{SendBuffer: 32, CommandTimeout: 5 * time.Second},
		HTTPTimeout: 5 * time.Second,
	})
	return e
}

func adminToken(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"uid":  "1",
		"role": "ADMIN",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(routesSecret))
	require.NoError(t, err)
	return signed
}

func sampleDepartments() []map[string]any {
	return []map[string]any{
		{"id": 1, "name": "Finance", "employeeCount": 3},
		{"id": 2, "name": "Sales", "employeeCount": 0},
	}
}

func TestExportServesSpreadsheet(t *testing.T) {
	e := newConsoleServer(t, sampleDepartments())

	req := httptest.NewRequest(http.MethodGet, "/api/console/departments/export?sortBy=name&sortDir=desc", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="departments_`)
	assert.NotZero(t, rec.Body.Len())
}

func TestExportEmptyListHasNoContent(t *testing.T) {
	e := newConsoleServer(t, []map[string]any{})

	req := httptest.NewRequest(http.MethodGet, "/api/console/departments/export?token="+adminToken(t), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportRejectsUnknownEntityAndMissingToken(t *testing.T) {
	e := newConsoleServer(t, sampleDepartments())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/console/invoices/export?token="+adminToken(t), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/console/users/export", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportRejectsNonBearerAuthorization(t *testing.T) {
	e := newConsoleServer(t, sampleDepartments())

	req := httptest.NewRequest(http.MethodGet, "/api/console/departments/export?token="+adminToken(t), nil)
	req.Header.Set("Authorization", "Basic YWRtaW46c2VjcmV0")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	e := newConsoleServer(t, sampleDepartments())

	req := httptest.NewRequest(http.MethodGet, "/api/console/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard domain.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
	assert.Equal(t, int64(3), dashboard.Stats.TotalEmployees)
	assert.Equal(t, []domain.DepartmentHeadcount{{Department: "Finance", Employees: 3}}, dashboard.Stats.EmployeesByDepartment)
	assert.Equal(t, []domain.DepartmentOption{{ID: "1", Name: "Finance"}, {ID: "2", Name: "Sales"}}, dashboard.Departments)
}

type wireMessage struct {
	Topic    string            `json:"topic"`
	Metadata map[string]string `json:"metadata"`
	Data     json.RawMessage   `json:"data"`
}

type wireState struct {
	Loading bool `json:"loading"`
	Page    *struct {
		TotalItems int `json:"totalItems"`
	} `json:"page"`
	Menu struct {
		OpenFor string `json:"openFor"`
	} `json:"menu"`
	Confirmation *struct {
		Target string `json:"target"`
		Label  string `json:"label"`
		Error  string `json:"error"`
	} `json:"confirmation"`
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(wireMessage) bool) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg wireMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func stateWhere(t *testing.T, match func(wireState) bool) func(wireMessage) bool {
	return func(msg wireMessage) bool {
		if msg.Topic != "departments.state" {
			return false
		}
		var state wireState
		require.NoError(t, json.Unmarshal(msg.Data, &state))
		return match(state)
	}
}

func TestConsoleWebsocketFlow(t *testing.T) {
	server := httptest.NewServer(newConsoleServer(t, sampleDepartments()))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/console/departments/" + adminToken(t)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	connected := readUntil(t, conn, func(msg wireMessage) bool { return msg.Topic == domain.TopicSystemConnected })
	assert.NotEmpty(t, connected.Metadata["viewId"])

	readUntil(t, conn, stateWhere(t, func(s wireState) bool {
		return !s.Loading && s.Page != nil && s.Page.TotalItems == 2
	}))

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "toggle_menu", "payload": map[string]string{"id": "1"}}))
	readUntil(t, conn, stateWhere(t, func(s wireState) bool { return s.Menu.OpenFor == "1" }))

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "select_action", "payload": map[string]string{"id": "1", "action": "delete"}}))
	readUntil(t, conn, stateWhere(t, func(s wireState) bool {
		return s.Menu.OpenFor == "" && s.Confirmation != nil && s.Confirmation.Label == "Finance"
	}))

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "confirm_delete"}))
	outcome := readUntil(t, conn, func(msg wireMessage) bool { return msg.Topic == "departments.outcome" })
	var reported domain.Outcome
	require.NoError(t, json.Unmarshal(outcome.Data, &reported))
	assert.Equal(t, domain.OutcomeError, reported.Level)
	assert.Equal(t, departmentConflict, reported.Message)

	readUntil(t, conn, stateWhere(t, func(s wireState) bool {
		return s.Confirmation != nil && s.Confirmation.Error == departmentConflict
	}))

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "launch_rockets"}))
	failed := readUntil(t, conn, func(msg wireMessage) bool { return msg.Topic == "departments.error" })
	assert.Equal(t, "unsupported action", failed.Metadata["reason"])
}

func TestHealthz(t *testing.T) {
	e := newConsoleServer(t, sampleDepartments())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
