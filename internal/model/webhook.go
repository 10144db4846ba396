package model

import (
	"encoding/json"
	"fmt"
)

// ObjectWhatsAppBusinessAccount is the only envelope object type acted upon.
const ObjectWhatsAppBusinessAccount = "whatsapp_business_account"

type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`

	// Malformed lists entries that could not be decoded. They are skipped,
	// never fatal for the rest of the delivery.
	Malformed []MalformedEntry `json:"-"`
}

type MalformedEntry struct {
	Index int
	Raw   json.RawMessage
	Err   error
}

func (e Envelope) IsWhatsApp() bool {
	return e.Object == ObjectWhatsAppBusinessAccount
}

// UnmarshalJSON reads the object discriminator first and only decodes the
// entries of a WhatsApp envelope, one at a time. A body that is not an
// object, or whose object is not a string, yields an envelope without an
// object type.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	*e = Envelope{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	if raw, ok := fields["object"]; ok {
		if err := json.Unmarshal(raw, &e.Object); err != nil {
			e.Object = ""
		}
	}

	if !e.IsWhatsApp() {
		return nil
	}

	raw, ok := fields["entry"]
	if !ok {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		e.Malformed = append(e.Malformed, MalformedEntry{Index: -1, Raw: raw, Err: fmt.Errorf("entry is not a list: %w", err)})
		return nil
	}

	for i, item := range entries {
		var entry Entry
		if err := json.Unmarshal(item, &entry); err != nil {
			e.Malformed = append(e.Malformed, MalformedEntry{Index: i, Raw: item, Err: err})
			continue
		}
		e.Entry = append(e.Entry, entry)
	}

	return nil
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

type Message struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextContent `json:"text,omitempty"`
}

// Body returns the text payload, or "" for messages without one.
func (m Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return m.Text.Body
}

type TextContent struct {
	Body string `json:"body"`
}

// Status is a delivery status update. It is only observed, so its fields are
// kept as delivered.
type Status map[string]any

func (s Status) ID() string          { return s.field("id") }
func (s Status) State() string       { return s.field("status") }
func (s Status) RecipientID() string { return s.field("recipient_id") }

func (s Status) field(key string) string {
	switch v := s[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
