package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// loadSchema compiles the embedded schema into a fresh context.
// A cue.Context is not safe for concurrent use, so none is shared.
func loadSchema() (*cue.Context, cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE)
	if err := v.Err(); err != nil {
		return nil, cue.Value{}, fmt.Errorf("compile scenario schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Scenario"))
	if !def.Exists() {
		return nil, cue.Value{}, fmt.Errorf("scenario schema: #Scenario not defined")
	}
	return ctx, def, nil
}

// ValidateSchema checks a scenario document against the embedded CUE
// schema. Unknown fields, wrong types, out-of-range values and missing
// per-command arguments are all reported.
func ValidateSchema(data []byte) error {
	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("schema validation failed: empty document")
	}

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}

// ValidateFile reads a scenario file and runs both the strict decoder and
// the schema check.
func ValidateFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	return Parse(data)
}
