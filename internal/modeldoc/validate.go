package modeldoc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// ValidationError aggregates schema violations for one document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "modeldoc: " + e.Issues[0]
	}
	return fmt.Sprintf("modeldoc: %d schema violations: %s",
		len(e.Issues), strings.Join(e.Issues, "; "))
}

// Validate checks the document against the embedded CUE schema. Shape
// validation in Import is per-entry and lenient; Validate is the strict
// whole-document check used by `tally validate` and strict imports.
func Validate(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("modeldoc: marshal for validation: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("modeldoc: schema is broken: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("modeldoc: schema is broken: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename("document.json"))
	if err := value.Err(); err != nil {
		return fmt.Errorf("modeldoc: document is not valid data: %w", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		verr := &ValidationError{}
		for _, issue := range cueerrors.Errors(err) {
			verr.Issues = append(verr.Issues, issue.Error())
		}
		return verr
	}
	return nil
}
