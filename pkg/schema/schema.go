/*
Copyright 2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package schema

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

var (
	// ErrUndocumented is returned when asked to validate an operation
	// that the embedded description does not know about.
	ErrUndocumented = errors.New("operation not documented")

	//go:embed toolshop.yaml
	document []byte
)

// Validator checks API responses against the embedded OpenAPI description.
type Validator struct {
	spec *openapi3.T
}

// New loads and validates the embedded description.
func New() (*Validator, error) {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("loading openapi description: %w", err)
	}

	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating openapi description: %w", err)
	}

	return &Validator{
		spec: spec,
	}, nil
}

// ValidateResponse checks the response to req, which was issued against the
// templated API path, has the documented shape.  Statuses the description
// does not mention are accepted.
func (v *Validator) ValidateResponse(ctx context.Context, req *http.Request, path string, status int, header http.Header, body []byte) error {
	pathItem := v.spec.Paths.Find(path)
	if pathItem == nil {
		return fmt.Errorf("%w: %s %s", ErrUndocumented, req.Method, path)
	}

	operation := pathItem.GetOperation(req.Method)
	if operation == nil {
		return fmt.Errorf("%w: %s %s", ErrUndocumented, req.Method, path)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route: &routers.Route{
				Spec:      v.spec,
				Path:      path,
				PathItem:  pathItem,
				Method:    req.Method,
				Operation: operation,
			},
		},
		Status: status,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("response to %s %s does not match schema: %w", req.Method, path, err)
	}

	return nil
}
