package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ParseReason classifies why a model response was rejected
type ParseReason string

const (
	ReasonEmpty        ParseReason = "empty"
	ReasonSyntax       ParseReason = "syntax"
	ReasonNotObject    ParseReason = "not_object"
	ReasonMissingField ParseReason = "missing_field"
	ReasonInvalidField ParseReason = "invalid_field"
)

// ParseError is returned by ParseResponse for any unusable response.
// Raw holds the untouched model text for diagnosis.
type ParseError struct {
	Reason ParseReason
	Field  string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parsing model response: %s", e.Reason)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LLMAnalysis is a structurally valid model response. Field values are kept
// raw; Normalize coerces them.
type LLMAnalysis struct {
	Rooms        []LLMRoom       `json:"analise_por_comodo"`
	TotalSavings json.RawMessage `json:"total_economia_potencial_reais"`
	Summary      json.RawMessage `json:"resumo"`
}

// LLMRoom is one room entry of a model response
type LLMRoom struct {
	Room         json.RawMessage `json:"comodo"`
	RoomID       json.RawMessage `json:"comodo_id"`
	CurrentKWh   json.RawMessage `json:"consumo_atual_kwh"`
	CurrentBRL   json.RawMessage `json:"consumo_atual_reais"`
	ExpectedKWh  json.RawMessage `json:"expectativa_kwh"`
	ExpectedBRL  json.RawMessage `json:"expectativa_reais"`
	SavingsKWh   json.RawMessage `json:"economia_potencial_kwh"`
	SavingsBRL   json.RawMessage `json:"economia_potencial_reais"`
	PercentAbove json.RawMessage `json:"percentual_acima"`
	Tips         json.RawMessage `json:"dicas"`
}

// fencePattern matches the first fenced block, with an optional language tag
var fencePattern = regexp.MustCompile("(?s)```(?:[A-Za-z][A-Za-z0-9_+-]*)?(.*?)```")

// StripFences returns the content of the first fenced code block in text,
// or the trimmed text when there is none
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// ParseResponse decodes a model response. Failures are always *ParseError;
// a broken document is rejected whole, no room entries are salvaged.
func ParseResponse(text string) (*LLMAnalysis, error) {
	body := StripFences(text)
	if body == "" {
		return nil, &ParseError{Reason: ReasonEmpty, Raw: text}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Reason: ReasonNotObject, Raw: text, Err: err}
		}
		return nil, &ParseError{Reason: ReasonSyntax, Raw: text, Err: err}
	}
	if top == nil {
		return nil, &ParseError{Reason: ReasonNotObject, Raw: text}
	}

	rooms, ok := top["analise_por_comodo"]
	if !ok || isNull(rooms) {
		return nil, &ParseError{Reason: ReasonMissingField, Field: "analise_por_comodo", Raw: text}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rooms, &entries); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidField, Field: "analise_por_comodo", Raw: text, Err: err}
	}

	result := LLMAnalysis{Rooms: make([]LLMRoom, 0, len(entries))}
	for i, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			return nil, &ParseError{Reason: ReasonInvalidField, Field: "analise_por_comodo", Raw: text,
				Err: fmt.Errorf("entry %d is not an object", i)}
		}
		var room LLMRoom
		if err := json.Unmarshal(entry, &room); err != nil {
			return nil, &ParseError{Reason: ReasonInvalidField, Field: "analise_por_comodo", Raw: text, Err: err}
		}
		result.Rooms = append(result.Rooms, room)
	}
	result.TotalSavings = top["total_economia_potencial_reais"]
	result.Summary = top["resumo"]
	return &result, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
