package constants

const (
	ServiceName = "WhatsApp Meta Cloud API Webhook"

	WebhookPath = "/webhook"
	HealthPath  = "/health"
	MetricsPath = "/metrics"

	ModeSubscribe = "subscribe"
	ReplyPrefix   = "Echo: "
)

const (
	BodyForbidden        = "Forbidden"
	BodyEventReceived    = "EVENT_RECEIVED"
	BodyNotWhatsAppEvent = "Not a WhatsApp webhook event"
)

const (
	ErrCodeVerificationFailed = "VERIFICATION_FAILED"
	ErrCodeUnsupportedObject  = "UNSUPPORTED_OBJECT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgInternalError = "Internal server error"
)

var errorBodies = map[string]string{
	ErrCodeVerificationFailed: BodyForbidden,
	ErrCodeUnsupportedObject:  BodyNotWhatsAppEvent,
}

func GetErrorBody(code string) string {
	if body, exists := errorBodies[code]; exists {
		return body
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeVerificationFailed:
		return 403
	case ErrCodeUnsupportedObject:
		return 404
	default:
		return 500
	}
}
