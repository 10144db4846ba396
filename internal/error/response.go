package middleware

type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
