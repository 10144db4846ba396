package cloudapi

type Response struct {
	MessagingProduct string       `json:"messaging_product"`
	Contacts         []Contact    `json:"contacts,omitempty"`
	Messages         []MessageRef `json:"messages,omitempty"`
}

type Contact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type MessageRef struct {
	ID            string `json:"id"`
	MessageStatus string `json:"message_status,omitempty"`
}

// MessageID returns the id assigned to the first sent message, if any.
func (r Response) MessageID() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}
