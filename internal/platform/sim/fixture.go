package sim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/ldtpd/internal/model"
)

// Parse decodes and validates a YAML (or JSON) fixture document.
func Parse(data []byte) (*model.Desktop, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parse fixture: empty document")
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert fixture: %w", err)
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return nil, fmt.Errorf("convert fixture: %w", err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var desktop model.Desktop
	if err := yaml.Unmarshal(data, &desktop); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := checkReferences(&desktop); err != nil {
		return nil, err
	}
	return &desktop, nil
}

// Load reads, validates and builds a desktop from a fixture file.
func Load(path string) (*Desktop, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// LoadFile reads and validates a fixture file.
func LoadFile(path string) (*model.Desktop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// checkReferences rejects duplicate ids and relations to unknown ids.
func checkReferences(doc *model.Desktop) error {
	ids := make(map[string]bool)
	var refs []string
	var walk func(el *model.Element) error
	walk = func(el *model.Element) error {
		if el == nil {
			return nil
		}
		if el.ID != "" {
			if ids[el.ID] {
				return fmt.Errorf("duplicate element id %q", el.ID)
			}
			ids[el.ID] = true
		}
		for _, ref := range []string{el.LabelledBy, el.ControlledBy} {
			if ref != "" {
				refs = append(refs, ref)
			}
		}
		for _, c := range el.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, app := range doc.Applications {
		if app == nil {
			continue
		}
		for _, w := range app.Windows {
			if err := walk(w); err != nil {
				return err
			}
		}
	}
	for _, ref := range refs {
		if !ids[ref] {
			return fmt.Errorf("relation target %q does not exist", ref)
		}
	}
	return nil
}
