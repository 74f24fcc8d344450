package contracts

// WebhookDispatcher notifies subscribers about completed calculations.
type WebhookDispatcher interface {
	Subscribe(calculatorName string, webhookURL string)
	GetWebhookUrl(calculatorName string) string
	Notify(result *CalculationResult)
	Start()
	Close()
}
