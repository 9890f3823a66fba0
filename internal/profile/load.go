package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flightrig/fsuipcgen/fsuipc"
)

// Load reads the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: profile %s: %w", fsuipc.ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a profile. path is recorded as the profile's Path.
// Unknown top-level keys are rejected.
func Parse(data []byte, path string) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse profile %s: empty document", path)
		}
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.Path = path
	return &p, nil
}
