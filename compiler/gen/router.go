package gen

import (
	"fmt"
	"path"

	"github.com/syssam/trpcgen/compiler/gen/ts"
)

// Output layout, relative to the target directory.
const (
	routersDir   = "routers"
	helperModule = "helpers/createRouter"
	indexModule  = "index"
	trpcModule   = "@trpc/server"
	appRouter    = "appRouter"
)

// Assemble builds every emitted file: the router-construction helper first,
// then one router per routed entity in mapping order, then the aggregate
// router. Nothing is written.
func (g *Graph) Assemble() ([]*ts.File, error) {
	helper, err := g.HelperFile()
	if err != nil {
		return nil, err
	}
	files := []*ts.File{helper}
	routed := g.Routed()
	for _, e := range routed {
		f, err := g.EntityFile(e)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	index, err := g.IndexFile(routed)
	if err != nil {
		return nil, err
	}
	files = append(files, index)
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Path] {
			return nil, NewGenerationError("assemble", f.Path, "file emitted twice", nil)
		}
		seen[f.Path] = true
		f.Header = g.Header
	}
	return files, nil
}

// HelperFile builds routers/helpers/createRouter, which declares the tRPC
// instance, the middlewares and the base procedures.
func (g *Graph) HelperFile() (*ts.File, error) {
	r := g.Resolver()
	chain, err := BuildMiddleware(g.Config, r)
	if err != nil {
		return nil, err
	}
	f := ts.NewFile(g.outputPath(helperModule))
	f.Import(&ts.Import{Module: trpcModule, Namespace: "trpc"})
	for _, imp := range chain.Imports {
		f.Import(imp)
	}
	ctx, err := r.Specifier(g.ContextPath, true)
	if err != nil {
		return nil, err
	}
	f.Import(&ts.Import{Module: ctx, Named: []string{"Context"}, TypeOnly: true})
	create := ts.Link{Name: "create"}
	if g.OptionsPath != "" {
		opts, err := r.Specifier(g.OptionsPath, true)
		if err != nil {
			return nil, err
		}
		f.Import(&ts.Import{Module: opts, Default: "trpcOptions"})
		create.Args = []ts.Expr{ts.Ident("trpcOptions")}
	}
	f.Add(&ts.Const{
		Name:   "t",
		Export: true,
		Value: &ts.Chain{Recv: ts.Ident("trpc"), Links: []ts.Link{
			{Name: "initTRPC", Member: true},
			{Name: "context<Context>"},
			create,
		}},
	})
	f.Add(chain.Decls...)
	return f, nil
}

// EntityFile builds routers/<Entity>.router for an entity whose operations
// are already filtered.
func (g *Graph) EntityFile(e *Entity) (*ts.File, error) {
	procs, err := Procedures(e.Name, e.Operations, g.Config)
	if err != nil {
		return nil, err
	}
	base := g.BaseProcedure()
	f := ts.NewFile(g.outputPath(e.Name + ".router"))
	f.Import(&ts.Import{Module: g.local("./" + helperModule), Named: []string{"t", base}})
	router := &ts.Object{}
	for _, p := range procs {
		if p.InputSchema != "" {
			f.Import(&ts.Import{Module: g.local(p.Operation.SchemaModule(e.Name)), Named: []string{p.InputSchema}})
		}
		router.Entries = append(router.Entries, ts.Entry{Key: p.Key, Value: p.Expr(base)})
	}
	f.Add(&ts.Const{
		Name:   RouterName(e.Name),
		Export: true,
		Value:  &ts.Call{Fn: ts.Ident("t.router"), Args: []ts.Expr{router}},
	})
	return f, nil
}

// IndexFile builds routers/index, the aggregate router keyed by lower-cased
// entity names.
func (g *Graph) IndexFile(entities []*Entity) (*ts.File, error) {
	f := ts.NewFile(g.outputPath(indexModule))
	f.Import(&ts.Import{Module: g.local("./" + helperModule), Named: []string{"t"}})
	router := &ts.Object{}
	keys := make(map[string]string, len(entities))
	for _, e := range entities {
		key, name := LowerName(e.Name), RouterName(e.Name)
		if prev, ok := keys[key]; ok {
			return nil, NewGenerationError("assemble", f.Path, fmt.Sprintf("models %s and %s both map to router key %q", prev, e.Name, key), nil)
		}
		keys[key] = e.Name
		f.Import(&ts.Import{Module: g.local("./" + e.Name + ".router"), Named: []string{name}})
		router.Entries = append(router.Entries, ts.Entry{Key: key, Value: ts.Ident(name)})
	}
	f.Add(&ts.Const{
		Name:   appRouter,
		Export: true,
		Value:  &ts.Call{Fn: ts.Ident("t.router"), Args: []ts.Expr{router}},
	})
	return f, nil
}

// outputPath returns the output-relative path of a module in the routers
// directory.
func (g *Graph) outputPath(module string) string {
	return g.FileName(path.Join(routersDir, module))
}

// local returns the specifier of a generated module, with the import
// extension appended if one is configured.
func (g *Graph) local(module string) string {
	if g.ImportExtension == "" {
		return module
	}
	return module + "." + g.ImportExtension
}
