package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rheumaview/rheumaview/internal/model"
	"gopkg.in/yaml.v3"
)

// Load reads a request file. JSON is accepted as a subset of YAML.
// Unknown keys are rejected so that typos do not silently drop input.
func Load(path string) (*model.Request, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	req, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Decode reads one request document from r.
func Decode(r io.Reader) (*model.Request, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var req model.Request
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.NewValidationError("request", "request file is empty")
		}
		return nil, model.NewValidationError("request", err.Error())
	}
	return &req, nil
}
