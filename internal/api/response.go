package api

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

type InfoResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Endpoints Endpoints `json:"endpoints"`
}

type Endpoints struct {
	WebhookVerification string `json:"webhook_verification"`
	WebhookHandler      string `json:"webhook_handler"`
	HealthCheck         string `json:"health_check"`
	Metrics             string `json:"metrics"`
}
