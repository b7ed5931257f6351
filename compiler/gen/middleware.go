package gen

import (
	"github.com/syssam/trpcgen/compiler/gen/ts"
)

// Base procedure names exported by the router-construction helper.
const (
	PublicProcedure               = "publicProcedure"
	ProtectedProcedure            = "protectedProcedure"
	AuthorizationCheckedProcedure = "authorizationCheckedProcedure"
)

// BaseProcedureName returns the procedure every router extends for the given
// toggles. Authorization takes precedence over global middleware.
func BaseProcedureName(global, authorization bool) string {
	switch {
	case authorization:
		return AuthorizationCheckedProcedure
	case global:
		return ProtectedProcedure
	default:
		return PublicProcedure
	}
}

// MiddlewareKind identifies a middleware binding.
type MiddlewareKind string

// Middleware kinds, in chain order.
const (
	GlobalMiddleware        MiddlewareKind = "global"
	AuthorizationMiddleware MiddlewareKind = "authorization"
)

// MiddlewareBinding is one middleware declared in the helper file and
// chained onto the base procedure.
type MiddlewareBinding struct {
	Kind MiddlewareKind
	// Name is the exported middleware constant, e.g. "globalMiddleware".
	Name string
}

// MiddlewareChain is the output of BuildMiddleware.
type MiddlewareChain struct {
	// Bindings are ordered global first, then authorization.
	Bindings []MiddlewareBinding
	// Imports are the modules the declarations need.
	Imports []*ts.Import
	// Decls declare the middlewares, publicProcedure and, if any binding
	// exists, the derived base procedure.
	Decls []ts.Stmt
	// Base is the name of the procedure routers extend.
	Base string
}

// defaultAuthorizationModule is the output-relative module the built-in
// authorization policy is generated into.
const defaultAuthorizationModule = "shield/shield"

// BuildMiddleware declares the middleware bindings selected by cfg.
func BuildMiddleware(cfg *Config, r *PathResolver) (*MiddlewareChain, error) {
	chain := &MiddlewareChain{Base: cfg.BaseProcedure()}
	switch cfg.Middleware.Mode {
	case Enabled:
		chain.Decls = append(chain.Decls, middlewareDecl("globalMiddleware", &ts.Func{
			Async:  true,
			Params: "{ ctx, next }",
			Body: []ts.Stmt{
				&ts.Comment{Text: "Add your middleware logic here"},
				&ts.Return{Value: &ts.Call{Fn: ts.Ident("next")}},
			},
		}))
		chain.Bindings = append(chain.Bindings, MiddlewareBinding{Kind: GlobalMiddleware, Name: "globalMiddleware"})
	case EnabledModule:
		spec, err := r.Specifier(cfg.Middleware.Module, true)
		if err != nil {
			return nil, err
		}
		chain.Imports = append(chain.Imports, &ts.Import{Module: spec, Default: "defaultMiddleware"})
		chain.Decls = append(chain.Decls, middlewareDecl("globalMiddleware", ts.Ident("defaultMiddleware")))
		chain.Bindings = append(chain.Bindings, MiddlewareBinding{Kind: GlobalMiddleware, Name: "globalMiddleware"})
	}
	if cfg.Authorization.On() {
		target, outside := defaultAuthorizationModule, false
		if cfg.Authorization.Mode == EnabledModule {
			target, outside = cfg.Authorization.Module, true
		}
		spec, err := r.Specifier(target, outside)
		if err != nil {
			return nil, err
		}
		chain.Imports = append(chain.Imports, &ts.Import{Module: spec, Named: []string{"permissions"}})
		chain.Decls = append(chain.Decls, middlewareDecl("permissionsMiddleware", ts.Ident("permissions")))
		chain.Bindings = append(chain.Bindings, MiddlewareBinding{Kind: AuthorizationMiddleware, Name: "permissionsMiddleware"})
	}
	chain.Decls = append(chain.Decls, &ts.Const{Name: PublicProcedure, Export: true, Value: ts.Ident("t.procedure")})
	if len(chain.Bindings) > 0 {
		base := &ts.Chain{Recv: ts.Ident("t.procedure"), Multiline: true}
		for _, b := range chain.Bindings {
			base.Links = append(base.Links, ts.Link{Name: "use", Args: []ts.Expr{ts.Ident(b.Name)}})
		}
		chain.Decls = append(chain.Decls, &ts.Const{Name: chain.Base, Export: true, Value: base})
	}
	return chain, nil
}

func middlewareDecl(name string, fn ts.Expr) *ts.Const {
	return &ts.Const{
		Name:   name,
		Export: true,
		Value:  &ts.Call{Fn: ts.Ident("t.middleware"), Args: []ts.Expr{fn}},
	}
}
