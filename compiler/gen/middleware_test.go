package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/trpcgen/compiler/gen/ts"
)

func TestBaseProcedureName(t *testing.T) {
	assert.Equal(t, "publicProcedure", BaseProcedureName(false, false))
	assert.Equal(t, "protectedProcedure", BaseProcedureName(true, false))
	assert.Equal(t, "authorizationCheckedProcedure", BaseProcedureName(false, true))
	assert.Equal(t, "authorizationCheckedProcedure", BaseProcedureName(true, true))
}

func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithTarget("/proj/prisma/generated"),
		WithSchemaPath("/proj/prisma/schema.prisma"),
	}
	c, err := NewConfig(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestBuildMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		mw, auth Toggle
		base     string
		bindings []MiddlewareBinding
		imports  []*ts.Import
		exports  []string
	}{
		{
			name: "none",
			mw:   Off(), auth: Off(),
			base:    PublicProcedure,
			exports: []string{"publicProcedure"},
		},
		{
			name: "inline global",
			mw:   On(), auth: Off(),
			base:     ProtectedProcedure,
			bindings: []MiddlewareBinding{{GlobalMiddleware, "globalMiddleware"}},
			exports:  []string{"globalMiddleware", "publicProcedure", "protectedProcedure"},
		},
		{
			name: "global module",
			mw:   Module("../src/middleware"), auth: Off(),
			base:     ProtectedProcedure,
			bindings: []MiddlewareBinding{{GlobalMiddleware, "globalMiddleware"}},
			imports:  []*ts.Import{{Module: "../../../../src/middleware", Default: "defaultMiddleware"}},
			exports:  []string{"globalMiddleware", "publicProcedure", "protectedProcedure"},
		},
		{
			name: "authorization only",
			mw:   Off(), auth: On(),
			base:     AuthorizationCheckedProcedure,
			bindings: []MiddlewareBinding{{AuthorizationMiddleware, "permissionsMiddleware"}},
			imports:  []*ts.Import{{Module: "../../shield/shield", Named: []string{"permissions"}}},
			exports:  []string{"permissionsMiddleware", "publicProcedure", "authorizationCheckedProcedure"},
		},
		{
			name: "both with custom policy",
			mw:   On(), auth: Module("../src/shield"),
			base: AuthorizationCheckedProcedure,
			bindings: []MiddlewareBinding{
				{GlobalMiddleware, "globalMiddleware"},
				{AuthorizationMiddleware, "permissionsMiddleware"},
			},
			imports: []*ts.Import{{Module: "../../../../src/shield", Named: []string{"permissions"}}},
			exports: []string{"globalMiddleware", "permissionsMiddleware", "publicProcedure", "authorizationCheckedProcedure"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, WithMiddleware(tt.mw), WithAuthorization(tt.auth))
			chain, err := BuildMiddleware(cfg, cfg.Resolver())
			require.NoError(t, err)

			assert.Equal(t, tt.base, chain.Base)
			assert.Equal(t, cfg.BaseProcedure(), chain.Base)
			assert.Equal(t, tt.bindings, chain.Bindings)
			assert.Equal(t, tt.imports, chain.Imports)

			f := ts.NewFile("x.ts").Add(chain.Decls...)
			assert.Equal(t, tt.exports, f.Exports())
			if len(tt.bindings) == 0 {
				return
			}
			decl, ok := f.Lookup(tt.base)
			require.True(t, ok)
			base := decl.Value.(*ts.Chain)
			assert.Equal(t, ts.Ident("t.procedure"), base.Recv)
			require.Len(t, base.Links, len(tt.bindings))
			for i, b := range tt.bindings {
				assert.Equal(t, "use", base.Links[i].Name)
				assert.Equal(t, []ts.Expr{ts.Ident(b.Name)}, base.Links[i].Args, "bindings chain in order")
			}
		})
	}
}

func TestBuildMiddlewareRender(t *testing.T) {
	cfg := testConfig(t)
	chain, err := BuildMiddleware(cfg, cfg.Resolver())
	require.NoError(t, err)

	out, err := ts.Render(ts.NewFile("x.ts").Add(chain.Decls...))
	require.NoError(t, err)
	want := `export const globalMiddleware = t.middleware(async ({ ctx, next }) => {
  // Add your middleware logic here
  return next();
});

export const permissionsMiddleware = t.middleware(permissions);

export const publicProcedure = t.procedure;

export const authorizationCheckedProcedure = t.procedure
  .use(globalMiddleware)
  .use(permissionsMiddleware);
`
	assert.Equal(t, want, string(out))
}

func TestBuildMiddlewareExtension(t *testing.T) {
	cfg := testConfig(t, WithMiddleware(Module("../src/middleware.ts")), WithImportExtension("js"))
	chain, err := BuildMiddleware(cfg, cfg.Resolver())
	require.NoError(t, err)
	require.Len(t, chain.Imports, 2)
	assert.Equal(t, "../../../../src/middleware.js", chain.Imports[0].Module)
	assert.Equal(t, "../../shield/shield.js", chain.Imports[1].Module)
}
