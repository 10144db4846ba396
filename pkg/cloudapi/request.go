package cloudapi

const MessagingProduct = "whatsapp"

type SendMessageRequest struct {
	MessagingProduct string   `json:"messaging_product" validate:"required,eq=whatsapp"`
	To               string   `json:"to" validate:"required"`
	Text             TextBody `json:"text"`
}

type TextBody struct {
	Body string `json:"body"`
}
