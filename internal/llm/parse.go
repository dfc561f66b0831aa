package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

// ParseError reports that no usable JSON object could be extracted from model
// output. Raw always preserves the original text for diagnostics.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return e.Reason
}

const (
	// ReasonNoJSON means no {...} span was found in the output.
	ReasonNoJSON = "no JSON found"
	// ReasonInvalidJSON means a span was found but does not decode.
	ReasonInvalidJSON = "failed to parse JSON"
)

var leadingFence = regexp.MustCompile("(?i)^```(?:json)?\\s*")

// ExtractJSON pulls a JSON object out of raw model output. The output may be
// wrapped in commentary or markdown code fences; the first `{` through the
// last `}` is taken as the candidate span and strictly decoded. Both failure
// outcomes are returned as a *ParseError carrying the original raw text.
func ExtractJSON(raw string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = leadingFence.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Reason: ReasonNoJSON, Raw: raw}
	}

	span := cleaned[start : end+1]
	var probe any
	if err := json.Unmarshal([]byte(span), &probe); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON, Raw: raw}
	}
	return json.RawMessage(span), nil
}

// DecodeStructured extracts JSON from raw output and decodes it as structured
// content (a meal suggestion or daily plan). Fields missing from the decoded
// object come through as zero values; no schema validation is performed here.
func DecodeStructured(raw string) (*model.StructuredContent, error) {
	span, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var sc model.StructuredContent
	if err := json.Unmarshal(span, &sc); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON, Raw: raw}
	}
	return &sc, nil
}
