package main

import (
	"fmt"
	"os"

	"pet-adoption-catalog/internal/domain/animals"

	"gopkg.in/yaml.v3"
)

// fixtureFile es el formato de --file:
//
//	animals:
//	  - name: Rex
//	    species: Chien
//	    age: 3
//	    ...
type fixtureFile struct {
	Animals []map[string]any `yaml:"animals"`
}

type fixture struct {
	Index int
	Sub   animals.Submission
}

// Label identifica el fixture en los reportes.
func (f fixture) Label() string {
	if f.Sub.Name != "" {
		return fmt.Sprintf("#%d %s", f.Index+1, f.Sub.Name)
	}
	return fmt.Sprintf("#%d", f.Index+1)
}

func loadFixtures(path string) ([]fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	if len(file.Animals) == 0 {
		return nil, fmt.Errorf("fixtures %s: no animals", path)
	}

	out := make([]fixture, 0, len(file.Animals))
	for i, m := range file.Animals {
		sub, err := animals.DecodeSubmission(m)
		if err != nil {
			return nil, fmt.Errorf("fixture #%d: %w", i+1, err)
		}
		out = append(out, fixture{Index: i, Sub: sub})
	}
	return out, nil
}
