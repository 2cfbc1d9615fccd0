package docs

import (
	"cmp"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Strob0t/repodoc/internal/domain"
)

const schemaURL = "https://repodoc.local/schema/generated-documentation.json"

var (
	schemaOnce     sync.Once
	schemaDoc      []byte
	schemaCompiled *validator.Schema
	schemaErr      error
)

func loadSchema() {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}
	s := r.Reflect(&GeneratedDocumentation{})
	s.Version = "https://json-schema.org/draft/2020-12/schema"

	schemaDoc, schemaErr = json.MarshalIndent(s, "", "  ")
	if schemaErr != nil {
		return
	}

	doc, err := validator.UnmarshalJSON(strings.NewReader(string(schemaDoc)))
	if err != nil {
		schemaErr = fmt.Errorf("parse documentation schema: %w", err)
		return
	}
	c := validator.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		schemaErr = fmt.Errorf("add documentation schema: %w", err)
		return
	}
	schemaCompiled, schemaErr = c.Compile(schemaURL)
}

// SchemaJSON returns the JSON Schema describing GeneratedDocumentation. It is
// embedded in the model prompt as the output format instruction.
func SchemaJSON() ([]byte, error) {
	schemaOnce.Do(loadSchema)
	return schemaDoc, schemaErr
}

// Validate checks a decoded JSON value (as produced by encoding/json into
// any) against the documentation schema. The returned error is a
// *domain.SchemaError naming the first failing field.
func Validate(v any) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}
	err := schemaCompiled.Validate(v)
	if err == nil {
		return nil
	}
	ve, ok := err.(*validator.ValidationError)
	if !ok {
		return &domain.SchemaError{Reason: err.Error()}
	}
	return toSchemaError(ve)
}

// toSchemaError reports the failing leaf whose location comes first in
// declared field order. The validator collects causes from map iteration, so
// the choice must not depend on their order.
func toSchemaError(ve *validator.ValidationError) *domain.SchemaError {
	var best *validator.ValidationError
	var bestLoc []string
	for _, leaf := range leaves(ve, nil) {
		loc := leafLocation(leaf)
		if best == nil || locationLess(loc, bestLoc) {
			best, bestLoc = leaf, loc
		}
	}

	path := strings.Join(bestLoc, ".")
	if _, ok := best.ErrorKind.(*kind.Required); ok {
		return &domain.SchemaError{Path: path, Reason: "missing required property"}
	}
	reason := best.ErrorKind.LocalizedString(message.NewPrinter(language.English))
	return &domain.SchemaError{Path: path, Reason: reason}
}

func leaves(ve *validator.ValidationError, out []*validator.ValidationError) []*validator.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, c := range ve.Causes {
		out = leaves(c, out)
	}
	return out
}

// leafLocation is the instance path of a failure; a missing property is
// located at the property itself.
func leafLocation(ve *validator.ValidationError) []string {
	loc := append([]string{}, ve.InstanceLocation...)
	if req, ok := ve.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
		missing := slices.Clone(req.Missing)
		slices.SortFunc(missing, compareSegment)
		loc = append(loc, missing[0])
	}
	return loc
}

func locationLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSegment(a[i], b[i]); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}

// compareSegment orders array indices numerically, known properties by
// declaration and anything else by name after them.
func compareSegment(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return cmp.Compare(ai, bi)
	}
	ar, aok := fieldRank[a]
	br, bok := fieldRank[b]
	switch {
	case aok && bok:
		return cmp.Compare(ar, br)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a, b)
}

// fieldRank numbers every JSON property of the documentation types in
// declaration order.
var fieldRank = func() map[string]int {
	rank := map[string]int{}
	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		for t.Kind() == reflect.Slice || t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return
		}
		for i := range t.NumField() {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			if _, seen := rank[name]; !seen {
				rank[name] = len(rank)
			}
			walk(f.Type)
		}
	}
	walk(reflect.TypeFor[GeneratedDocumentation]())
	return rank
}()
