package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/trpcgen/compiler/gen/ts"
)

// groupByFields are the validated fields passed to groupBy. The accessor
// rejects the full validated object.
var groupByFields = []string{"where", "orderBy", "by", "having", "take", "skip"}

// Procedure is one synthesized (entity, operation) endpoint.
type Procedure struct {
	// Key is the exposed procedure name in the entity router.
	Key       string
	Entity    string
	Operation Operation
	Kind      ProcedureKind
	// InputSchema is the validation type bound with .input(...), or empty
	// if no validation is wired.
	InputSchema string
	// Input is the argument passed to the data accessor.
	Input ts.Expr
}

// NewProcedure synthesizes the procedure for op of entity.
func NewProcedure(entity string, op Operation, cfg *Config) *Procedure {
	p := &Procedure{
		Key:       op.Name,
		Entity:    entity,
		Operation: op,
		Kind:      op.ProcedureKind(),
		Input:     ts.Ident("input"),
	}
	if !cfg.ShowEntityName {
		p.Key = strings.Replace(op.Name, entity, "", 1)
	}
	switch {
	case !cfg.Validation:
		p.Input = &ts.As{Value: ts.Ident("input"), Type: "any"}
	case op.BaseKind() == "groupBy":
		obj := &ts.Object{}
		for _, f := range groupByFields {
			obj.Entries = append(obj.Entries, ts.Entry{Key: f, Value: ts.Ident("input." + f)})
		}
		p.Input = obj
	}
	if cfg.Validation {
		p.InputSchema, _ = op.InputSchema(entity)
	}
	return p
}

// Expr returns the procedure declaration extending base.
func (p *Procedure) Expr(base string) *ts.Chain {
	c := &ts.Chain{Recv: ts.Ident(base), Multiline: true}
	if p.InputSchema != "" {
		c.Links = append(c.Links, ts.Link{Name: "input", Args: []ts.Expr{ts.Ident(p.InputSchema)}})
	}
	call := &ts.Call{
		Fn:   ts.Ident(fmt.Sprintf("await ctx.prisma.%s.%s", AccessorName(p.Entity), p.Operation.Method())),
		Args: []ts.Expr{p.Input},
	}
	c.Links = append(c.Links, ts.Link{Name: string(p.Kind), Args: []ts.Expr{&ts.Func{
		Async:  true,
		Params: "{ ctx, input }",
		Body: []ts.Stmt{
			&ts.Const{Name: p.Operation.Name, Value: call},
			&ts.Return{Value: ts.Ident(p.Operation.Name)},
		},
	}}})
	return c
}

// Procedures synthesizes the procedures of an entity, failing when two
// operations map to the same key.
func Procedures(entity string, ops []Operation, cfg *Config) ([]*Procedure, error) {
	procs := make([]*Procedure, 0, len(ops))
	seen := make(map[string]string, len(ops))
	for _, op := range ops {
		p := NewProcedure(entity, op, cfg)
		if prev, ok := seen[p.Key]; ok {
			return nil, NewGenerationError("assemble", "", fmt.Sprintf("model %s: operations %s and %s both map to procedure %q", entity, prev, op.Kind, p.Key), nil)
		}
		if p.Key == "" {
			return nil, NewGenerationError("assemble", "", fmt.Sprintf("model %s: operation %s has an empty procedure name", entity, op.Kind), nil)
		}
		seen[p.Key] = op.Kind
		procs = append(procs, p)
	}
	return procs, nil
}
