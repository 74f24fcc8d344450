package main

import (
	"bytes"
	"calcSheets/contracts"
	"log/slog"
	"net/http"
	"sync"
	"time"

	json "github.com/bytedance/sonic"
)

const WebhookWorkersCount = 5

type WebhookSendCommand struct {
	Webhook string
	Result  *contracts.CalculationResult
}

// WebhookDispatcher posts completed calculation results to per-calculator
// subscriber URLs. Delivery is fire-and-forget, a slow subscriber never
// blocks a calculation.
type WebhookDispatcher struct {
	mu       sync.RWMutex
	queue    chan WebhookSendCommand
	done     chan struct{}
	webhooks map[string]string
}

func NewWebhookDispatcher() *WebhookDispatcher {
	return &WebhookDispatcher{
		queue:    make(chan WebhookSendCommand, 20),
		done:     make(chan struct{}),
		webhooks: map[string]string{},
	}
}

func (manager *WebhookDispatcher) Subscribe(calculatorName string, webhookUrl string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if webhookUrl == "" {
		delete(manager.webhooks, calculatorName)
	} else {
		manager.webhooks[calculatorName] = webhookUrl
	}
}

func (manager *WebhookDispatcher) GetWebhookUrl(calculatorName string) string {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	return manager.webhooks[calculatorName]
}

func (manager *WebhookDispatcher) Notify(result *contracts.CalculationResult) {
	webhook := manager.GetWebhookUrl(result.Calculator)
	if webhook == "" {
		return
	}

	go func() {
		// the queue is never closed, so this send cannot panic; a Notify
		// racing Close just drops the command
		select {
		case manager.queue <- WebhookSendCommand{Webhook: webhook, Result: result}:
		case <-manager.done:
		}
	}()
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < WebhookWorkersCount; i++ {
		go manager.runWebhookSenderWorker()
	}
}

func (manager *WebhookDispatcher) Close() {
	close(manager.done)
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	client := &http.Client{
		Timeout: time.Second * 5,
	}

	var response *http.Response
	var err error

	for {
		var command WebhookSendCommand
		select {
		case command = <-manager.queue:
		case <-manager.done:
			return
		}

		payload, _ := json.Marshal(command.Result)
		response, err = client.Post(command.Webhook, "application/json", bytes.NewBuffer(payload))

		if err != nil {
			slog.Warn("webhook send failed", "calculator", command.Result.Calculator, "error", err)
		} else if response.StatusCode >= 300 {
			slog.Warn("unexpected webhook response status", "calculator", command.Result.Calculator, "status", response.Status)
		}
	}
}
