package rpc

import (
	"encoding/json"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
)

// Message is the wire envelope for both directions. Requests carry Op and
// Args; replies carry Result or Error.
type Message struct {
	Op     string          `json:"op,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
	Tag    string          `json:"tag"`
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *apperr.Wire    `json:"error,omitempty"`
}

// IsRequest reports whether m is a request.
func (m *Message) IsRequest() bool { return m.Op != "" }

func decode(frame []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(frame, &m)
	return m, err
}
