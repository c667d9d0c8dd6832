package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/tally/internal/modeldoc"
)

// LoadError represents an error that occurred during model file loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path or model not found
	ErrCodeBadFormat   = "E003" // Unsupported file extension
	ErrCodeDecodeError = "E004" // Document decode failed
	ErrCodeStoreError  = "E005" // Model store error
	ErrCodeInvalid     = "E006" // Schema validation failed
)

// LoadModelFile reads a model document from a JSON or YAML file, chosen
// by extension. The canonical exchange format is JSON; YAML is accepted
// for hand-written models.
func LoadModelFile(path string) (*modeldoc.Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("model file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing model file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("opening model file: %v", err)}
	}
	defer f.Close()

	var doc *modeldoc.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err = modeldoc.DecodeJSON(f)
	case ".yaml", ".yml":
		doc, err = modeldoc.DecodeYAML(f)
	default:
		return nil, &LoadError{
			Code:    ErrCodeBadFormat,
			Message: fmt.Sprintf("unsupported model format %q: want .json, .yaml or .yml", filepath.Ext(path)),
		}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeError, Message: err.Error()}
	}
	return doc, nil
}
