package main

import (
	"bytes"
	"calcSheets/contracts"
	"calcSheets/mocks"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type controllerMocks struct {
	registry     *mocks.CalculatorRegistry
	store        *mocks.WorkbookStore
	orchestrator *mocks.CalculationOrchestrator
	cache        *mocks.ResultCache
	locks        *WorkbookLockManager
	webhooks     *mocks.WebhookDispatcher
}

func newControllerFixture(t *testing.T) (*ApiController, *controllerMocks) {
	t.Helper()

	deps := &controllerMocks{
		registry:     mocks.NewCalculatorRegistry(t),
		store:        mocks.NewWorkbookStore(t),
		orchestrator: mocks.NewCalculationOrchestrator(t),
		cache:        mocks.NewResultCache(t),
		locks:        NewWorkbookLockManager(),
		webhooks:     mocks.NewWebhookDispatcher(t),
	}

	controller := NewApiController(
		deps.registry,
		map[string]contracts.WorkbookStore{contracts.BackendExcel: deps.store},
		deps.orchestrator,
		deps.cache,
		deps.locks,
		deps.webhooks,
		50*time.Millisecond,
	)

	return controller, deps
}

func serveRequest(controller contracts.ApiController, method string, url string, body any) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	router := SetupRouter(controller)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bodyReader)
	router.ServeHTTP(w, req)
	return w
}

func TestApiController_ListCalculatorsAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("lists_registered_calculators", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("List").Return([]*contracts.CalculatorConfig{steelBeamCalculator()})

		w := serveRequest(controller, http.MethodGet, "/api/"+ApiVersion+"/calculators", nil)
		response, err := _parseJsonListBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, response, 1)

		calculator := response[0].(map[string]any)
		assert.Equal(t, "steel_beam", calculator["name"])
		assert.Equal(t, "Steel Beam Bending", calculator["title"])
		assert.Equal(t, string(contracts.StatusExecutable), calculator["status"])

		inputs := calculator["inputs"].([]any)
		assert.Len(t, inputs, 3)
		// sorted by name
		assert.Equal(t, "applied_load", inputs[0].(map[string]any)["name"])
		assert.Equal(t, "B5", inputs[0].(map[string]any)["cell"])
	})

	t.Run("empty_registry", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("List").Return([]*contracts.CalculatorConfig{})

		w := serveRequest(controller, http.MethodGet, "/api/"+ApiVersion+"/calculators", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestApiController_DescribeCalculatorAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("describes_calculator", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)

		w := serveRequest(controller, http.MethodGet, "/api/"+ApiVersion+"/calculators/steel_beam", nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "steel_beam", response["name"])
		assert.Equal(t, "AS 4100-1998", response["standard"])

		outputs := response["outputs"].([]any)
		assert.Len(t, outputs, 2)
		assert.Equal(t, "max_moment", outputs[0].(map[string]any)["name"])
		assert.Equal(t, "kN.m", outputs[0].(map[string]any)["unit"])
	})

	t.Run("unknown_calculator", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "nope").Return(nil, contracts.CalculatorNotFoundError)

		w := serveRequest(controller, http.MethodGet, "/api/"+ApiVersion+"/calculators/nope", nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, contracts.CalculatorNotFoundError.Error(), response["error"])
	})
}

func TestApiController_ExecuteCalculationAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	executeUrl := "/api/" + ApiVersion + "/calculators/steel_beam/execute"

	t.Run("runs_calculation", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", steelBeamInputs(), contracts.ExecuteOptions{}).
			Return(&contracts.CalculationResult{
				ExecutionID: "run-1",
				Calculator:  "steel_beam",
				Outputs:     map[string]any{"max_moment": 50.0},
				Status:      contracts.StatusSuccess,
			}, nil)

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{"inputs": steelBeamInputs()})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "run-1", response["execution_id"])
		assert.Equal(t, string(contracts.StatusSuccess), response["status"])
		assert.Equal(t, 50.0, response["outputs"].(map[string]any)["max_moment"])
	})

	t.Run("forwards_lock_timeout", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", steelBeamInputs(), contracts.ExecuteOptions{LockTimeout: 2 * time.Second}).
			Return(&contracts.CalculationResult{Status: contracts.StatusSuccess}, nil)

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{
			"inputs":               steelBeamInputs(),
			"lock_timeout_seconds": 2,
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("input_contract_violation", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", mock.Anything, mock.Anything).
			Return(nil, &contracts.InputValidationError{
				Unknown: []string{"bogus"},
				Missing: []string{"applied_load"},
			})

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{"inputs": gin.H{"bogus": 1}})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []any{"bogus"}, response["unknown_inputs"])
		assert.Equal(t, []any{"applied_load"}, response["missing_inputs"])
	})

	t.Run("lock_timeout_conflict", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", mock.Anything, mock.Anything).
			Return(nil, contracts.LockTimeoutError)

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{"inputs": steelBeamInputs()})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("backend_unavailable", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", mock.Anything, mock.Anything).
			Return(nil, contracts.BackendUnavailableError)

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{"inputs": steelBeamInputs()})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unknown_error", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.orchestrator.On("Execute", mock.Anything, "steel_beam", mock.Anything, mock.Anything).
			Return(nil, errors.New("boom"))

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{"inputs": steelBeamInputs()})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "boom", response["error"])
	})

	t.Run("missing_inputs_field", func(t *testing.T) {
		controller, _ := newControllerFixture(t)

		w := serveRequest(controller, http.MethodPost, executeUrl, gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApiController_SubscribeAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	subscribeUrl := "/api/" + ApiVersion + "/calculators/steel_beam/subscribe"

	t.Run("registers_webhook", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.webhooks.On("Subscribe", "steel_beam", "https://example.com/hook")

		w := serveRequest(controller, http.MethodPost, subscribeUrl, gin.H{"url": "https://example.com/hook"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "steel_beam", response["calculator"])
		assert.Equal(t, "https://example.com/hook", response["url"])
	})

	t.Run("unknown_calculator", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(nil, contracts.CalculatorNotFoundError)

		w := serveRequest(controller, http.MethodPost, subscribeUrl, gin.H{"url": "https://example.com/hook"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed_url", func(t *testing.T) {
		controller, _ := newControllerFixture(t)

		w := serveRequest(controller, http.MethodPost, subscribeUrl, gin.H{"url": "not a url"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApiController_GetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cellUrl := "/api/" + ApiVersion + "/calculators/steel_beam/cells/D4"
	address := contracts.CellAddress{Column: 4, Row: 4}

	t.Run("reads_value_and_formula", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.store.On("ReadCell", mock.Anything, "steel_beam.xlsx", testSheet, address).
			Return(contracts.NumberValue(50), nil)
		deps.store.On("ReadFormula", mock.Anything, "steel_beam.xlsx", testSheet, address).
			Return("B5*B4/8", nil)

		w := serveRequest(controller, http.MethodGet, cellUrl, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "D4", response["cell_id"])
		assert.Equal(t, "50", response["value"])
		assert.Equal(t, "B5*B4/8", response["formula"])
	})

	t.Run("malformed_cell_id", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)

		w := serveRequest(controller, http.MethodGet, "/api/"+ApiVersion+"/calculators/steel_beam/cells/4D", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("template_only_calculator", func(t *testing.T) {
		draft := steelBeamCalculator()
		draft.Workbook = nil
		draft.Status = contracts.StatusTemplateOnly

		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(draft, nil)

		w := serveRequest(controller, http.MethodGet, cellUrl, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("cell_never_written", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.store.On("ReadCell", mock.Anything, "steel_beam.xlsx", testSheet, address).
			Return(contracts.EmptyValue(), nil)
		deps.store.On("ReadFormula", mock.Anything, "steel_beam.xlsx", testSheet, address).
			Return("", nil)

		w := serveRequest(controller, http.MethodGet, cellUrl, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, response["error"], contracts.CellNotFoundError.Error())
	})

	t.Run("missing_workbook", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.store.On("ReadCell", mock.Anything, "steel_beam.xlsx", testSheet, address).
			Return(contracts.EmptyValue(), contracts.WorkbookNotFoundError)

		w := serveRequest(controller, http.MethodGet, cellUrl, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApiController_SetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cellUrl := "/api/" + ApiVersion + "/calculators/steel_beam/cells/B4"
	address := contracts.CellAddress{Column: 2, Row: 4}

	t.Run("writes_and_invalidates_cache", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.store.On("WriteCell", mock.Anything, "steel_beam.xlsx", testSheet, address, contracts.NumberValue(8)).
			Return(nil)
		deps.store.On("Flush", mock.Anything, "steel_beam.xlsx").Return(nil)
		deps.cache.On("InvalidateWorkbook", "steel_beam.xlsx").Return(nil)

		w := serveRequest(controller, http.MethodPost, cellUrl, gin.H{"value": "8"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "B4", response["cell_id"])
		assert.Equal(t, "8", response["value"])
	})

	t.Run("formula_cell_is_immutable", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)
		deps.store.On("WriteCell", mock.Anything, "steel_beam.xlsx", testSheet, address, mock.Anything).
			Return(contracts.ImmutableCellError)

		w := serveRequest(controller, http.MethodPost, cellUrl, gin.H{"value": "8"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, contracts.ImmutableCellError.Error(), response["error"])
	})

	t.Run("missing_value_field", func(t *testing.T) {
		controller, _ := newControllerFixture(t)

		w := serveRequest(controller, http.MethodPost, cellUrl, gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("waits_for_the_calculation_lock", func(t *testing.T) {
		controller, deps := newControllerFixture(t)
		deps.registry.On("Get", "steel_beam").Return(steelBeamCalculator(), nil)

		// simulate an in-flight write+evaluate cycle holding the workbook
		assert.NoError(t, deps.locks.Acquire(context.Background(), "steel_beam.xlsx", 0))
		defer deps.locks.Release("steel_beam.xlsx")

		w := serveRequest(controller, http.MethodPost, cellUrl, gin.H{"value": "999"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, response["error"], contracts.LockTimeoutError.Error())
		deps.store.AssertNotCalled(t, "WriteCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func _parseJsonBody(w *httptest.ResponseRecorder) (response map[string]any, err error) {
	err = json.Unmarshal(w.Body.Bytes(), &response)
	return
}

func _parseJsonListBody(w *httptest.ResponseRecorder) (response []any, err error) {
	err = json.Unmarshal(w.Body.Bytes(), &response)
	return
}
