package main

import (
	"calcSheets/contracts"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.etcd.io/bbolt"
)

type ServiceContainer struct {
	Database          *bbolt.DB
	Registry          contracts.CalculatorRegistry
	Stores            map[string]contracts.WorkbookStore
	Evaluator         contracts.FormulaEvaluator
	Cache             contracts.ResultCache
	Locks             contracts.WorkbookLocker
	WebhookDispatcher contracts.WebhookDispatcher
	Orchestrator      contracts.CalculationOrchestrator
	ApiController     contracts.ApiController
	Router            *gin.Engine
}

func BuildServiceContainer(ctx context.Context, config AppConfig) (container ServiceContainer, err error) {
	container.Database, err = bbolt.Open(config.CacheDbFilepath, 0600, nil)
	if err != nil {
		return container, err
	}

	container.Registry, err = LoadCalculatorRegistry(config.CalculatorConfigsDir)
	if err != nil {
		return container, err
	}

	container.Stores = map[string]contracts.WorkbookStore{
		contracts.BackendExcel: NewExcelWorkbookStore(config.WorkbooksDir),
	}
	if config.GoogleCredentialsFile != "" {
		container.Stores[contracts.BackendGoogleSheets], err = NewSheetsWorkbookStore(ctx, config.GoogleCredentialsFile)
		if err != nil {
			return container, err
		}
	}

	container.Evaluator = NewFormulaEvaluator()
	container.Cache = NewBoltResultCache(container.Database, config.CacheTtl)
	container.Locks = NewWorkbookLockManager()
	container.WebhookDispatcher = NewWebhookDispatcher()

	container.Orchestrator = NewCalculationOrchestrator(
		container.Registry,
		container.Stores,
		container.Evaluator,
		container.Cache,
		container.Locks,
		container.WebhookDispatcher,
		config.LockTimeout,
	)

	container.ApiController = NewApiController(
		container.Registry,
		container.Stores,
		container.Orchestrator,
		container.Cache,
		container.Locks,
		container.WebhookDispatcher,
		config.LockTimeout,
	)

	container.Router = SetupRouter(container.ApiController)

	return container, nil
}

// AppConfig carries everything the container needs, parsed from the
// environment by LoadAppConfig.
type AppConfig struct {
	CalculatorConfigsDir  string
	WorkbooksDir          string
	CacheDbFilepath       string
	GoogleCredentialsFile string
	CacheTtl              time.Duration
	LockTimeout           time.Duration
	ListenAddress         string
}
