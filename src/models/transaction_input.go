package models

import "encoding/json"

// TransactionInput carries caller-supplied fields for create and update.
// A nil field was absent from the request body. Amount and Date stay raw so
// that a malformed value is reported against its own field.
type TransactionInput struct {
	Title    *string         `json:"title"`
	Amount   json.RawMessage `json:"amount"`
	Type     *string         `json:"type"`
	Category *string         `json:"category"`
	Note     *string         `json:"note"`
	Date     json.RawMessage `json:"date"`
}
