package docs

import (
	"encoding/json"
	"fmt"
	"strings"

	validator "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Strob0t/repodoc/internal/domain"
)

// Decode turns raw model output into validated documentation. The text is
// parsed as JSON first; if that fails the first balanced {...} span is
// extracted and parsed instead. Unparseable text yields
// domain.ErrMalformedModelOutput, a schema mismatch a *domain.SchemaError.
func Decode(raw string) (*GeneratedDocumentation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrEmptyResult
	}

	if !json.Valid([]byte(raw)) {
		span, ok := ExtractObject(raw)
		if !ok || !json.Valid([]byte(span)) {
			return nil, fmt.Errorf("%w: no JSON object found", domain.ErrMalformedModelOutput)
		}
		raw = span
	}

	doc, err := validator.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedModelOutput, err)
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	var out GeneratedDocumentation
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedModelOutput, err)
	}
	return &out, nil
}

// ExtractObject returns the first balanced JSON object in s. Braces inside
// string literals and escaped quotes are skipped.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
