// Package ts holds a small statement IR for emitted TypeScript modules and the
// printer that renders it.
//
// Builders in package gen only append typed nodes to a File. Layout, quoting and
// indentation are decided by a Printer when the whole file is rendered, so naming
// and ordering logic can be tested on the nodes without comparing text.
package ts

import "slices"

type (
	// File is one emitted module, keyed by its path relative to the output root.
	File struct {
		// Path uses forward slashes and is relative to the output root.
		Path string
		// Header is an optional leading line comment, without the "//" marker.
		Header  string
		Imports []*Import
		Body    []Stmt
	}

	// Import is a single import declaration.
	//
	//	import * as trpc from "@trpc/server";   Namespace
	//	import defaultMiddleware from "../mw";  Default
	//	import type { Context } from "../ctx";  Named + TypeOnly
	Import struct {
		Module    string
		Default   string
		Namespace string
		Named     []string
		TypeOnly  bool
	}

	// Stmt is a top-level or block statement.
	Stmt interface{ stmt() }

	// Const declares a constant: [export] const Name = Value;
	Const struct {
		Name   string
		Export bool
		Value  Expr
	}

	// Return is a return statement.
	Return struct{ Value Expr }

	// Comment is a line comment.
	Comment struct{ Text string }

	// Expr is an expression node.
	Expr interface{ expr() }

	// Ident is an identifier or a verbatim member access path, e.g. "t.procedure".
	Ident string

	// Call is a function call: Fn(Args...).
	Call struct {
		Fn   Expr
		Args []Expr
	}

	// Chain is a method chain on Recv. Links with Member set render without
	// parentheses. Multiline renders every link on its own line.
	Chain struct {
		Recv      Expr
		Links     []Link
		Multiline bool
	}

	// Link is one element of a Chain.
	Link struct {
		Name   string
		Args   []Expr
		Member bool
	}

	// Object is an object literal. Entries keep insertion order.
	Object struct{ Entries []Entry }

	// Entry is one key/value pair of an object literal.
	Entry struct {
		Key   string
		Value Expr
	}

	// Func is an arrow function with a block body.
	Func struct {
		Async  bool
		Params string
		Body   []Stmt
	}

	// As is a type assertion: Value as Type.
	As struct {
		Value Expr
		Type  string
	}
)

func (*Const) stmt()   {}
func (*Return) stmt()  {}
func (*Comment) stmt() {}

func (Ident) expr()   {}
func (*Call) expr()   {}
func (*Chain) expr()  {}
func (*Object) expr() {}
func (*Func) expr()   {}
func (*As) expr()     {}

// NewFile returns an empty file for the given output-relative path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Import appends an import declaration. Named imports for a module that is
// already imported with the same form are merged into the existing declaration.
func (f *File) Import(imp *Import) *File {
	for _, cur := range f.Imports {
		if cur.Module == imp.Module && cur.TypeOnly == imp.TypeOnly &&
			cur.Default == "" && cur.Namespace == "" && imp.Default == "" && imp.Namespace == "" {
			for _, n := range imp.Named {
				if !slices.Contains(cur.Named, n) {
					cur.Named = append(cur.Named, n)
				}
			}
			return f
		}
	}
	f.Imports = append(f.Imports, imp)
	return f
}

// Add appends statements to the file body.
func (f *File) Add(stmts ...Stmt) *File {
	f.Body = append(f.Body, stmts...)
	return f
}

// Exports returns the names of the exported constants, in declaration order.
func (f *File) Exports() []string {
	var names []string
	for _, s := range f.Body {
		if c, ok := s.(*Const); ok && c.Export {
			names = append(names, c.Name)
		}
	}
	return names
}

// Lookup returns the constant declared with the given name.
func (f *File) Lookup(name string) (*Const, bool) {
	for _, s := range f.Body {
		if c, ok := s.(*Const); ok && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Modules returns the module specifiers of all imports, in declaration order.
func (f *File) Modules() []string {
	mods := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		mods = append(mods, imp.Module)
	}
	return mods
}

// Keys returns the keys of an object literal.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Entries))
	for _, e := range o.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Get returns the value bound to key.
func (o *Object) Get(key string) (Expr, bool) {
	for _, e := range o.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Method returns the chain link with the given name.
func (c *Chain) Method(name string) (Link, bool) {
	for _, l := range c.Links {
		if l.Name == name {
			return l, true
		}
	}
	return Link{}, false
}
