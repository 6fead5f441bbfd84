package domain

import (
	"encoding/xml"
	"net/http"
)

// Message is the body of every non-2xx response.
type Message struct {
	XMLName xml.Name `json:"-" xml:"message"`
	Code    int      `json:"code" xml:"code"`
	Message string   `json:"message" xml:"message"`
}

// NewMessage uses the standard reason phrase when msg is empty.
func NewMessage(code int, msg string) Message {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Message{Code: code, Message: msg}
}
