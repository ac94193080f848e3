package cwa

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the validated top-level CWA response. Records is kept as a
// generic tree: the upstream schemas vary too much across endpoints and API
// revisions for fixed structs, and all field resolution happens downstream
// through prioritized alias lookup.
type Envelope struct {
	Success bool
	Message string
	Records map[string]any
}

// parseEnvelope validates the raw body against the envelope contract: valid
// JSON object, truthy success, non-empty records. String leaves directly under
// records get their double-encoded newlines repaired.
func parseEnvelope(body []byte) (*Envelope, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyBody
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse JSON: %v", ErrInvalidResponse, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrInvalidResponse, raw)
	}

	env := &Envelope{Success: true}
	if msg, ok := obj["message"].(string); ok {
		env.Message = msg
	}
	if v, present := obj["success"]; present && !truthy(v) {
		env.Success = false
		msg := env.Message
		if msg == "" {
			msg = "unknown API error"
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	recordsVal, present := obj["records"]
	if !present {
		return nil, fmt.Errorf("%w: missing records field", ErrInvalidResponse)
	}
	records, ok := recordsVal.(map[string]any)
	if !ok || len(records) == 0 {
		return nil, ErrNoRecords
	}

	normalizeNewlines(records)
	env.Records = records
	return env, nil
}

// truthy interprets the success field, which upstream emits both as a JSON
// bool and as the strings "true"/"false".
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	default:
		return false
	}
}

// normalizeNewlines repairs literal backslash-n and CRLF sequences inside
// string leaves of the records mapping. Upstream double-encodes newlines in
// free-text fields such as warning content bodies.
func normalizeNewlines(records map[string]any) {
	for key, value := range records {
		if s, ok := value.(string); ok {
			s = strings.ReplaceAll(s, `\n`, "\n")
			s = strings.ReplaceAll(s, "\r\n", "\n")
			records[key] = s
		}
	}
}
