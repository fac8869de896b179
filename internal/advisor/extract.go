package advisor

import (
	"encoding/json"
	"strings"

	"github.com/arthsathi/arthsathi/internal/domain"
)

// ExtractJSON pulls the outermost brace-delimited span out of free-form
// model text and returns it as raw JSON. The model is instructed to emit
// "no markdown, just JSON" but routinely wraps output in code fences or
// prose, so the extractor scans from the first '{' to the last '}' and then
// parses strictly. No schema validation happens here; callers decode into
// their own types and read optional fields defensively.
func ExtractJSON(raw string) (json.RawMessage, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || end < start {
		return nil, &domain.MalformedResponseError{Reason: "no JSON object found in model output"}
	}

	span := raw[start : end+1]

	var probe json.RawMessage
	if err := json.Unmarshal([]byte(span), &probe); err != nil {
		return nil, &domain.MalformedResponseError{Reason: "extracted span is not valid JSON: " + err.Error()}
	}
	return probe, nil
}

// decodeJSON extracts and decodes in one step.
func decodeJSON(raw string, v any) error {
	span, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(span, v); err != nil {
		return &domain.MalformedResponseError{Reason: "model JSON does not match expected shape: " + err.Error()}
	}
	return nil
}
