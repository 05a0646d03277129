package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/docupdate/document"
)

// File is the YAML layout of a schema file:
//
//	structs:
//	  - name: item
//	    fields:
//	      - {name: name, type: string}
//	      - {name: tags, type: array<string>}
//	documents:
//	  - name: music
//	    fields:
//	      - {name: title, type: string}
//	      - {name: items, type: array<item>}
//	      - {name: embedding, type: "tensor(x[4])"}
//
// Struct types may reference each other in any order, including
// recursively.
type File struct {
	Structs   []TypeDef `yaml:"structs"`
	Documents []TypeDef `yaml:"documents"`
}

// TypeDef declares one struct or document type.
type TypeDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field.
type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadYAML reads a schema file and registers its types. Unknown keys are
// rejected.
func (r *Registry) LoadYAML(rd io.Reader) error {
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode schema: %w", err)
	}
	return r.Load(f)
}

// LoadYAMLFile is like LoadYAML but reads the named file.
func (r *Registry) LoadYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := r.LoadYAML(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load registers the types declared by f.
func (r *Registry) Load(f File) error {
	r.mu.RLock()
	known := make(map[string]*document.DataType, len(r.structs)+len(f.Structs)+len(f.Documents))
	for k, v := range r.structs {
		known[k] = v
	}
	r.mu.RUnlock()

	defs := append(append([]TypeDef(nil), f.Structs...), f.Documents...)
	declared := make([]*document.DataType, len(defs))
	// Declare every name first so fields can reference any of them.
	for i, def := range defs {
		if _, ok := known[def.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateType, def.Name)
		}
		t, err := document.NewStructType(def.Name)
		if err != nil {
			return err
		}
		known[def.Name] = t
		declared[i] = t
	}
	for i, def := range defs {
		for _, fd := range def.Fields {
			ft, err := parseType(fd.Type, known)
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", def.Name, fd.Name, err)
			}
			if err := declared[i].AddField(document.Field{Name: fd.Name, Type: ft}); err != nil {
				return err
			}
		}
	}

	for _, t := range declared[:len(f.Structs)] {
		if err := r.RegisterStruct(t); err != nil {
			return err
		}
	}
	for _, t := range declared[len(f.Structs):] {
		if err := r.RegisterDocument(t); err != nil {
			return err
		}
	}
	return nil
}
