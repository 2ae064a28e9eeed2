package validator

import (
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// MaxResultSize caps the size accepted from gateway and CLI callers.
const MaxResultSize = 10000

// Validator validates caller input before it is forwarded to the search engine.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateType validates a document type name.
func (v *Validator) ValidateType(typ string) error {
	if strings.TrimSpace(typ) == "" {
		return errors.New("validation: type is required")
	}
	if strings.HasPrefix(typ, "_") {
		return errors.New("validation: type must not start with '_'")
	}
	if strings.ContainsAny(typ, "/?#") {
		return errors.New("validation: type must not contain '/', '?' or '#'")
	}
	return nil
}

// ValidateDocument validates a type/id pair.
func (v *Validator) ValidateDocument(typ, id string) error {
	var errs []string
	if err := v.ValidateType(typ); err != nil {
		errs = append(errs, strings.TrimPrefix(err.Error(), "validation: "))
	}
	if strings.TrimSpace(id) == "" {
		errs = append(errs, "id is required")
	}
	if len(errs) > 0 {
		return errors.New("validation: " + strings.Join(errs, "; "))
	}
	return nil
}

// ValidateSize validates a result size; 0 means the client default.
func (v *Validator) ValidateSize(size int) error {
	if size < 0 {
		return errors.New("validation: size must be non-negative")
	}
	if size > MaxResultSize {
		return errors.New("validation: size must not exceed 10000")
	}
	return nil
}

// ValidateJSONBody validates a body that will be forwarded verbatim.
// Empty bodies are allowed only when optional is set.
func (v *Validator) ValidateJSONBody(body []byte, optional bool) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		if optional {
			return nil
		}
		return errors.New("validation: body is required")
	}
	if !jsoniter.Valid(body) {
		return errors.New("validation: body must be valid JSON")
	}
	return nil
}
