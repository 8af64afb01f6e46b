package client

import (
	"encoding/json"
	"os"
)

// Payload is optional caller-supplied data sent with discover and ask requests.
// JSON fields are merged into the request body; Binary, when set, replaces the
// body entirely.
type Payload struct {
	JSON   map[string]interface{}
	Binary []byte
}

// IsZero reports whether the payload carries nothing.
func (p Payload) IsZero() bool {
	return len(p.JSON) == 0 && p.Binary == nil
}

// ReadJSONPayload reads a JSON object from path.
func ReadJSONPayload(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadBinaryPayload reads raw bytes from path.
func ReadBinaryPayload(path string) ([]byte, error) {
	return os.ReadFile(path)
}
