package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/wheels/2")
	Message string
	Keyword string // Schema keyword that failed
	Entry   string // The wheels entry at Path, if Path names one
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate validates raw TOML bytes against the manifest schema.
// The error return is for parse or schema compilation failures;
// schema violations are reported in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	// Round-trip through JSON so numbers and local dates reach the
	// validator as JSON values.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	wheels, _ := raw[WheelsKey].([]any)
	return &ValidationResult{Valid: false, Issues: extractIssues(ve, wheels)}, nil
}

// ValidateFile reads a manifest and validates it.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return Validate(data)
}

// extractIssues flattens the error tree into one issue per failing keyword,
// attaches the offending wheels entry where the location points at one, and
// orders the result by location.
func extractIssues(ve *jsonschema.ValidationError, wheels []any) []ValidationIssue {
	leaves := leafIssues(ve)
	if len(leaves) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	for i := range leaves {
		leaves[i].Entry = wheelAt(wheels, leaves[i].Path)
	}
	issues := deduplicateIssues(leaves)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// leafIssues returns the leaves of the error tree. allOf and $ref only wrap
// their causes and never become issues themselves.
func leafIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	if len(ve.Causes) > 0 {
		var leaves []ValidationIssue
		for _, cause := range ve.Causes {
			leaves = append(leaves, leafIssues(cause)...)
		}
		return leaves
	}
	if ve.ErrorKind == nil {
		return nil
	}
	kw := ve.ErrorKind.KeywordPath()
	if len(kw) == 0 {
		return nil
	}
	switch keyword := kw[len(kw)-1]; keyword {
	case "$ref", "allOf":
		return nil
	default:
		var loc string
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		return []ValidationIssue{{
			Path:    loc,
			Keyword: keyword,
			Message: ve.ErrorKind.LocalizedString(printer),
		}}
	}
}

// wheelAt returns the string at /wheels/<n>, or "" for any other location.
func wheelAt(wheels []any, loc string) string {
	rest, ok := strings.CutPrefix(loc, "/"+WheelsKey+"/")
	if !ok {
		return ""
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || i >= len(wheels) {
		return ""
	}
	entry, _ := wheels[i].(string)
	return entry
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[ValidationIssue]struct{}, len(issues))
	out := issues[:0:0]
	for _, issue := range issues {
		if _, dup := seen[issue]; dup {
			continue
		}
		seen[issue] = struct{}{}
		out = append(out, issue)
	}
	return out
}
