// Package load reads the data-model introspection document the generator
// consumes: the entities, their documentation and the per-entity operation
// mappings, plus the generator blocks configured next to this one.
//
// The document is JSON or YAML. Operation mappings are decoded from the
// node tree so their declaration order is preserved.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the introspection result of one schema.
type Document struct {
	// SchemaPath is the schema source file.
	SchemaPath      string       `yaml:"schemaPath"`
	Generator       Generator    `yaml:"generator"`
	OtherGenerators []*Generator `yaml:"otherGenerators"`
	DMMF            DMMF         `yaml:"dmmf"`
}

// Generator is a generator block of the schema.
type Generator struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
	// Output is relative to the schema directory unless absolute.
	Output string          `yaml:"output"`
	Config GeneratorConfig `yaml:"config"`
}

// GeneratorConfig holds the string values of a generator block. List values
// are joined with commas.
type GeneratorConfig map[string]string

// DMMF is the data model and its operation mappings.
type DMMF struct {
	Datamodel Datamodel `yaml:"datamodel"`
	Mappings  Mappings  `yaml:"mappings"`
}

// Datamodel lists the models of the schema.
type Datamodel struct {
	Models []*Model `yaml:"models"`
}

// Model is one entity of the schema.
type Model struct {
	Name          string   `yaml:"name"`
	Documentation string   `yaml:"documentation"`
	Fields        []*Field `yaml:"fields"`
}

// Field is one field of a model.
type Field struct {
	Name          string `yaml:"name"`
	Kind          string `yaml:"kind"`
	Type          string `yaml:"type"`
	IsList        bool   `yaml:"isList"`
	IsRequired    bool   `yaml:"isRequired"`
	IsID          bool   `yaml:"isId"`
	Documentation string `yaml:"documentation"`
}

// Mappings holds the generated operation names of every model.
type Mappings struct {
	ModelOperations []*ModelOperations `yaml:"modelOperations"`
}

// ModelOperations maps the operation kinds of one model to their generated
// names, in declaration order.
type ModelOperations struct {
	Model      string
	Plural     string
	Operations []Operation
}

// Operation is one kind/name pair, e.g. {createOne createOneUser}.
type Operation struct {
	Kind string
	Name string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ModelOperations) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: model operations must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
			continue
		}
		switch k.Value {
		case "model":
			m.Model = v.Value
		case "plural":
			m.Plural = v.Value
		default:
			m.Operations = append(m.Operations, Operation{Kind: k.Value, Name: v.Value})
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *GeneratorConfig) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: generator config must be a mapping", n.Line)
	}
	*c = make(GeneratorConfig, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch v.Kind {
		case yaml.ScalarNode:
			(*c)[k.Value] = v.Value
		case yaml.SequenceNode:
			vs := make([]string, 0, len(v.Content))
			for _, e := range v.Content {
				vs = append(vs, e.Value)
			}
			(*c)[k.Value] = strings.Join(vs, ",")
		default:
			return fmt.Errorf("line %d: config value %q must be a string or a list", v.Line, k.Value)
		}
	}
	return nil
}

// Load reads the document at path. The path "-" reads standard input.
func Load(path string) (*Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load: read document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", path, err)
	}
	if path != "-" && doc.SchemaPath != "" && !filepath.IsAbs(doc.SchemaPath) {
		doc.SchemaPath = filepath.Join(filepath.Dir(path), doc.SchemaPath)
	}
	return doc, nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}
	// JSON forbids raw tabs inside strings, so they are always whitespace.
	if data[0] == '{' {
		data = bytes.ReplaceAll(data, []byte("\t"), []byte("  "))
	}
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks that models are named uniquely and every operation mapping
// refers to a declared model.
func (d *Document) Validate() error {
	models := make(map[string]struct{}, len(d.DMMF.Datamodel.Models))
	for i, m := range d.DMMF.Datamodel.Models {
		if m == nil || m.Name == "" {
			return fmt.Errorf("model #%d: missing name", i)
		}
		if _, ok := models[m.Name]; ok {
			return fmt.Errorf("model %s: declared twice", m.Name)
		}
		models[m.Name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(d.DMMF.Mappings.ModelOperations))
	for i, ops := range d.DMMF.Mappings.ModelOperations {
		if ops == nil || ops.Model == "" {
			return fmt.Errorf("model operations #%d: missing model", i)
		}
		if _, ok := models[ops.Model]; !ok {
			return fmt.Errorf("model operations #%d: unknown model %s", i, ops.Model)
		}
		if _, ok := seen[ops.Model]; ok {
			return fmt.Errorf("model %s: operations mapped twice", ops.Model)
		}
		seen[ops.Model] = struct{}{}
	}
	return nil
}

// Model returns the model with the given name.
func (d *Document) Model(name string) (*Model, bool) {
	for _, m := range d.DMMF.Datamodel.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Providers returns the providers of the other generators, in order.
func (d *Document) Providers() []string {
	providers := make([]string, 0, len(d.OtherGenerators))
	for _, g := range d.OtherGenerators {
		if g != nil {
			providers = append(providers, g.Provider)
		}
	}
	return providers
}

// OutputDir returns the output directory of this generator, resolved against
// the schema directory when relative.
func (d *Document) OutputDir() string {
	out := d.Generator.Output
	if out == "" || filepath.IsAbs(out) || d.SchemaPath == "" {
		return out
	}
	return filepath.Join(filepath.Dir(d.SchemaPath), out)
}
