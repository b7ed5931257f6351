// Package compiler is the entry point for loading an introspection document
// and generating its tRPC routers.
package compiler

import (
	"context"

	"github.com/syssam/trpcgen/compiler/gen"
	"github.com/syssam/trpcgen/compiler/load"
)

// LoadGraph loads the document at path and builds its graph. The document's
// schema path, output directory and generator block are applied first, so
// the given options override them.
func LoadGraph(path string, opts ...gen.Option) (*gen.Graph, error) {
	doc, err := load.Load(path)
	if err != nil {
		return nil, gen.NewSchemaError("", "", "load document", err)
	}
	return NewGraph(doc, opts...)
}

// NewGraph builds the graph of an already loaded document.
func NewGraph(doc *load.Document, opts ...gen.Option) (*gen.Graph, error) {
	base := []gen.Option{gen.WithGeneratorConfig(doc.Generator.Config)}
	if doc.SchemaPath != "" {
		base = append(base, gen.WithSchemaPath(doc.SchemaPath))
	}
	if out := doc.OutputDir(); out != "" {
		base = append(base, gen.WithTarget(out))
	}
	cfg, err := gen.NewConfig(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(cfg, doc)
}

// Generate runs the generator on the document at path.
//
//	err := compiler.Generate(ctx, "./prisma/dmmf.json",
//		gen.WithActions(gen.FindMany, gen.Create),
//		gen.WithLogger(logger),
//	)
func Generate(ctx context.Context, path string, opts ...gen.Option) error {
	g, err := LoadGraph(path, opts...)
	if err != nil {
		return err
	}
	return g.Gen(ctx)
}
