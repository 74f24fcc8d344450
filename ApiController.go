package main

import (
	"calcSheets/contracts"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

type ApiController struct {
	Registry     contracts.CalculatorRegistry
	Stores       map[string]contracts.WorkbookStore
	Orchestrator contracts.CalculationOrchestrator
	Cache        contracts.ResultCache
	Locks        contracts.WorkbookLocker
	Webhooks     contracts.WebhookDispatcher

	LockTimeout time.Duration
}

type CalculatorEndpointParams struct {
	CalculatorName string `uri:"calculator_name" binding:"required"`
}

type CellEndpointParams struct {
	CalculatorName string `uri:"calculator_name" binding:"required"`
	CellId         string `uri:"cell_id" binding:"required"`
}

type ExecuteRequest struct {
	Inputs             map[string]any `json:"inputs" binding:"required"`
	LockTimeoutSeconds float64        `json:"lock_timeout_seconds"`
}

type SubscribeRequest struct {
	Url string `json:"url" binding:"required,url"`
}

type SetCellRequest struct {
	Value string `json:"value" binding:"required"`
}

// ParamView is the API rendering of one named input or output.
type ParamView struct {
	Name        string `json:"name"`
	Cell        string `json:"cell"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

type CalculatorView struct {
	Name        string                     `json:"name"`
	Title       string                     `json:"title"`
	Standard    string                     `json:"standard,omitempty"`
	Description string                     `json:"description,omitempty"`
	Status      contracts.CalculatorStatus `json:"status"`
	Inputs      []ParamView                `json:"inputs"`
	Outputs     []ParamView                `json:"outputs"`
}

func NewApiController(
	registry contracts.CalculatorRegistry,
	stores map[string]contracts.WorkbookStore,
	orchestrator contracts.CalculationOrchestrator,
	cache contracts.ResultCache,
	locks contracts.WorkbookLocker,
	webhooks contracts.WebhookDispatcher,
	lockTimeout time.Duration,
) *ApiController {
	return &ApiController{
		Registry:     registry,
		Stores:       stores,
		Orchestrator: orchestrator,
		Cache:        cache,
		Locks:        locks,
		Webhooks:     webhooks,
		LockTimeout:  lockTimeout,
	}
}

func (api *ApiController) ListCalculatorsAction(c *gin.Context) {
	configs := api.Registry.List()

	response := make([]CalculatorView, 0, len(configs))
	for _, config := range configs {
		response = append(response, makeCalculatorView(config))
	}

	c.JSON(http.StatusOK, response)
}

func (api *ApiController) DescribeCalculatorAction(c *gin.Context) {
	params := CalculatorEndpointParams{}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := api.Registry.Get(params.CalculatorName)
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, makeCalculatorView(config))
}

func (api *ApiController) ExecuteCalculationAction(c *gin.Context) {
	params := CalculatorEndpointParams{}
	request := ExecuteRequest{}

	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := contracts.ExecuteOptions{}
	if request.LockTimeoutSeconds > 0 {
		opts.LockTimeout = time.Duration(request.LockTimeoutSeconds * float64(time.Second))
	}

	result, err := api.Orchestrator.Execute(c.Request.Context(), params.CalculatorName, request.Inputs, opts)
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (api *ApiController) SubscribeAction(c *gin.Context) {
	params := CalculatorEndpointParams{}
	request := SubscribeRequest{}

	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := api.Registry.Get(params.CalculatorName); err != nil {
		api.renderError(c, err)
		return
	}

	api.Webhooks.Subscribe(params.CalculatorName, request.Url)
	c.JSON(http.StatusCreated, gin.H{"calculator": params.CalculatorName, "url": request.Url})
}

func (api *ApiController) GetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, store, address, err := api.resolveCell(params)
	var value contracts.CellValue
	var formula string
	if err == nil {
		value, err = store.ReadCell(c.Request.Context(), config.Workbook.WorkbookID, config.Workbook.Sheet, address)
	}
	if err == nil {
		formula, err = store.ReadFormula(c.Request.Context(), config.Workbook.WorkbookID, config.Workbook.Sheet, address)
	}
	if err == nil && value.Kind == contracts.KindEmpty && formula == "" {
		err = fmt.Errorf("%s: %w", address.String(), contracts.CellNotFoundError)
	}
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, &contracts.Cell{
		CellID:  address.String(),
		Value:   value.Display(),
		Formula: formula,
	})
}

func (api *ApiController) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}

	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, store, address, err := api.resolveCell(params)
	if err != nil {
		api.renderError(c, err)
		return
	}

	// a direct write goes through the same mutation gate as a calculation,
	// it must never land inside an in-flight write+evaluate cycle
	if err = api.Locks.Acquire(c.Request.Context(), config.Workbook.WorkbookID, api.LockTimeout); err != nil {
		api.renderError(c, err)
		return
	}
	defer api.Locks.Release(config.Workbook.WorkbookID)

	err = store.WriteCell(c.Request.Context(), config.Workbook.WorkbookID, config.Workbook.Sheet, address, parseCellText(request.Value))
	if err == nil {
		err = store.Flush(c.Request.Context(), config.Workbook.WorkbookID)
	}
	if err == nil {
		// the workbook changed under every cached result backed by it
		err = api.Cache.InvalidateWorkbook(config.Workbook.WorkbookID)
	}
	if err != nil {
		api.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, &contracts.Cell{
		CellID: address.String(),
		Value:  request.Value,
	})
}

func (api *ApiController) resolveCell(params CellEndpointParams) (*contracts.CalculatorConfig, contracts.WorkbookStore, contracts.CellAddress, error) {
	config, err := api.Registry.Get(params.CalculatorName)
	if err != nil {
		return nil, nil, contracts.CellAddress{}, err
	}

	if config.Workbook == nil {
		return nil, nil, contracts.CellAddress{}, fmt.Errorf("%s: %w", params.CalculatorName, contracts.NotExecutableError)
	}

	store, ok := api.Stores[config.Workbook.Backend]
	if !ok {
		return nil, nil, contracts.CellAddress{}, fmt.Errorf("%s: backend `%s` not configured: %w", params.CalculatorName, config.Workbook.Backend, contracts.NotExecutableError)
	}

	address, err := ParseCellAddress(params.CellId)
	if err != nil {
		return nil, nil, contracts.CellAddress{}, err
	}

	return config, store, address, nil
}

func (api *ApiController) renderError(c *gin.Context, err error) {
	var violation *contracts.InputValidationError

	switch {
	case errors.As(err, &violation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          err.Error(),
			"unknown_inputs": violation.Unknown,
			"missing_inputs": violation.Missing,
		})
	case errors.Is(err, contracts.CalculatorNotFoundError),
		errors.Is(err, contracts.WorkbookNotFoundError),
		errors.Is(err, contracts.CellNotFoundError):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, contracts.NotExecutableError),
		errors.Is(err, contracts.ImmutableCellError),
		errors.Is(err, contracts.MalformedAddressError),
		errors.Is(err, contracts.OutOfBoundsAddressError),
		errors.Is(err, contracts.CyclicFormulaError):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, contracts.LockTimeoutError):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, contracts.BackendUnavailableError):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func makeCalculatorView(config *contracts.CalculatorConfig) CalculatorView {
	return CalculatorView{
		Name:        config.Name,
		Title:       config.Title,
		Standard:    config.Standard,
		Description: config.Description,
		Status:      config.Status,
		Inputs:      makeParamViews(config.Inputs),
		Outputs:     makeParamViews(config.Outputs),
	}
}

func makeParamViews(params map[string]contracts.ParamSpec) []ParamView {
	views := make([]ParamView, 0, len(params))
	for name, spec := range params {
		views = append(views, ParamView{
			Name:        name,
			Cell:        spec.Cell.String(),
			Unit:        spec.Unit,
			Description: spec.Description,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}
