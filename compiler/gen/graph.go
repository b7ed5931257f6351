package gen

import (
	"github.com/syssam/trpcgen/compiler/load"
)

type (
	// Graph is the introspected model, ready for router synthesis.
	Graph struct {
		*Config
		// Entities are in operation mapping order.
		Entities []*Entity
		// Hidden holds the names of entities marked hidden by a directive.
		Hidden Set
		// Client is the data accessor generator the procedures call into.
		Client *ClientProvider
	}

	// Entity is one model with its operation mapping.
	Entity struct {
		Name          string
		Documentation string
		Fields        []*Field
		// Operations are in introspection order.
		Operations []Operation
	}

	// Field is a model field. Fields are carried for hooks and are not used
	// by router synthesis.
	Field struct {
		Name     string
		Kind     string
		Type     string
		List     bool
		Required bool
		ID       bool
	}
)

// NewGraph creates a graph from an introspection document. It fails with a
// ProviderError when no client generator is configured next to this one.
func NewGraph(c *Config, doc *load.Document) (*Graph, error) {
	if doc == nil {
		return nil, NewSchemaError("", "", "missing introspection document", nil)
	}
	client, err := RequireClient(doc.Providers())
	if err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Client: client}
	for _, mo := range doc.DMMF.Mappings.ModelOperations {
		m, ok := doc.Model(mo.Model)
		if !ok {
			return nil, NewSchemaError(mo.Model, "", "operations mapped for an undeclared model", nil)
		}
		e := &Entity{Name: m.Name, Documentation: m.Documentation}
		for _, f := range m.Fields {
			e.Fields = append(e.Fields, &Field{
				Name:     f.Name,
				Kind:     f.Kind,
				Type:     f.Type,
				List:     f.IsList,
				Required: f.IsRequired,
				ID:       f.IsID,
			})
		}
		for _, op := range mo.Operations {
			e.Operations = append(e.Operations, Operation{Kind: op.Kind, Name: op.Name})
		}
		g.Entities = append(g.Entities, e)
	}
	g.Hidden = HiddenEntities(g.Entities)
	return g, nil
}

// Entity returns the entity with the given name.
func (g *Graph) Entity(name string) (*Entity, bool) {
	for _, e := range g.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Routed returns the entities that get a router, with their filtered
// operations.
func (g *Graph) Routed() []*Entity {
	var routed []*Entity
	for _, e := range g.Entities {
		ops := FilterOperations(e, g.Hidden, g.Actions)
		if len(ops) == 0 {
			continue
		}
		routed = append(routed, &Entity{Name: e.Name, Documentation: e.Documentation, Fields: e.Fields, Operations: ops})
	}
	return routed
}
