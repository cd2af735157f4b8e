package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorBody is the failure payload of the notes service.
// message is either a single string or a list of strings.
type errorBody struct {
	Message json.RawMessage `json:"message"`
}

// DecodeMessages normalizes a failure body into an ordered error list.
// A single string becomes a one-element list; a list is used verbatim.
// When the body parses but carries no message, the status text is used.
// An unparseable body is an error.
func DecodeMessages(status int, body []byte) ([]string, error) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return nil, fmt.Errorf("failed to decode error body: %w", err)
	}

	if len(eb.Message) == 0 || string(eb.Message) == "null" {
		return []string{fallbackMessage(status)}, nil
	}

	var single string
	if err := json.Unmarshal(eb.Message, &single); err == nil {
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(eb.Message, &list); err != nil {
		return nil, fmt.Errorf("unexpected message shape: %w", err)
	}
	return list, nil
}

func fallbackMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
