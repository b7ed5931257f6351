package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/trpcgen/compiler/gen/ts"
	"github.com/syssam/trpcgen/compiler/load"
)

// testDocument returns a document with a visible User, a hidden AuditLog and
// a Post whose operations are all findRaw-only.
func testDocument() *load.Document {
	return &load.Document{
		SchemaPath:      "/proj/prisma/schema.prisma",
		OtherGenerators: []*load.Generator{{Name: "client", Provider: "prisma-client-js"}},
		DMMF: load.DMMF{
			Datamodel: load.Datamodel{Models: []*load.Model{
				{Name: "User", Fields: []*load.Field{{Name: "id", Kind: "scalar", Type: "Int", IsID: true, IsRequired: true}}},
				{Name: "AuditLog", Documentation: "@@Gen.model(hide: true)"},
				{Name: "Post"},
			}},
			Mappings: load.Mappings{ModelOperations: []*load.ModelOperations{
				{Model: "User", Operations: []load.Operation{
					{Kind: "findUnique", Name: "findUniqueUser"},
					{Kind: "findMany", Name: "findManyUser"},
					{Kind: "createOne", Name: "createOneUser"},
					{Kind: "updateOne", Name: "updateOneUser"},
					{Kind: "deleteOne", Name: "deleteOneUser"},
				}},
				{Model: "AuditLog", Operations: []load.Operation{
					{Kind: "findMany", Name: "findManyAuditLog"},
					{Kind: "createOne", Name: "createOneAuditLog"},
				}},
				{Model: "Post", Operations: []load.Operation{
					{Kind: "findRaw", Name: "findRawPost"},
					{Kind: "groupBy", Name: "groupByPost"},
				}},
			}},
		},
	}
}

func testGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(testConfig(t, opts...), testDocument())
	require.NoError(t, err)
	return g
}

func files(t *testing.T, g *Graph) map[string]*ts.File {
	t.Helper()
	fs, err := g.Assemble()
	require.NoError(t, err)
	m := make(map[string]*ts.File, len(fs))
	for _, f := range fs {
		m[f.Path] = f
	}
	return m
}

func routerKeys(t *testing.T, f *ts.File, name string) []string {
	t.Helper()
	c, ok := f.Lookup(name)
	require.True(t, ok, "missing %s", name)
	call := c.Value.(*ts.Call)
	return call.Args[0].(*ts.Object).Keys()
}

func TestAssembleOrder(t *testing.T) {
	fs, err := testGraph(t).Assemble()
	require.NoError(t, err)
	var paths []string
	for _, f := range fs {
		paths = append(paths, f.Path)
		assert.Equal(t, DefaultHeader, f.Header)
	}
	assert.Equal(t, []string{
		"routers/helpers/createRouter.ts",
		"routers/User.router.ts",
		"routers/Post.router.ts",
		"routers/index.ts",
	}, paths)
}

func TestAssembleVisibility(t *testing.T) {
	t.Run("hidden entities get no router", func(t *testing.T) {
		m := files(t, testGraph(t))
		assert.NotContains(t, m, "routers/AuditLog.router.ts")
		assert.Equal(t, []string{"user", "post"}, routerKeys(t, m["routers/index.ts"], "appRouter"))
		assert.NotContains(t, m["routers/index.ts"].Modules(), "./AuditLog.router")
	})

	t.Run("entities without allowed operations get no router", func(t *testing.T) {
		m := files(t, testGraph(t, WithActions(FindUnique, Create)))
		assert.Contains(t, m, "routers/User.router.ts")
		assert.NotContains(t, m, "routers/Post.router.ts")
		assert.Equal(t, []string{"user"}, routerKeys(t, m["routers/index.ts"], "appRouter"))
	})

	t.Run("every routed entity appears exactly once", func(t *testing.T) {
		m := files(t, testGraph(t))
		index := m["routers/index.ts"]
		for _, e := range []string{"User", "Post"} {
			require.Contains(t, m, "routers/"+e+".router.ts")
			n := 0
			for _, mod := range index.Modules() {
				if mod == "./"+e+".router" {
					n++
				}
			}
			assert.Equal(t, 1, n, e)
		}
	})
}

func TestEntityFile(t *testing.T) {
	t.Run("keys with entity name", func(t *testing.T) {
		m := files(t, testGraph(t))
		f := m["routers/User.router.ts"]
		assert.Equal(t, []string{"usersRouter"}, f.Exports())
		assert.Equal(t, []string{"findUniqueUser", "findManyUser", "createOneUser", "updateOneUser", "deleteOneUser"}, routerKeys(t, f, "usersRouter"))

		c, _ := f.Lookup("usersRouter")
		obj := c.Value.(*ts.Call).Args[0].(*ts.Object)
		for key, kind := range map[string]string{
			"findUniqueUser": "query",
			"findManyUser":   "query",
			"createOneUser":  "mutation",
			"updateOneUser":  "mutation",
			"deleteOneUser":  "mutation",
		} {
			v, ok := obj.Get(key)
			require.True(t, ok)
			chain := v.(*ts.Chain)
			assert.Equal(t, ts.Ident(AuthorizationCheckedProcedure), chain.Recv, key)
			_, ok = chain.Method(kind)
			assert.True(t, ok, "%s is a %s", key, kind)
		}
	})

	t.Run("keys without entity name", func(t *testing.T) {
		m := files(t, testGraph(t, WithShowEntityName(false)))
		assert.Equal(t, []string{"findUnique", "findMany", "createOne", "updateOne", "deleteOne"}, routerKeys(t, m["routers/User.router.ts"], "usersRouter"))
	})

	t.Run("imports", func(t *testing.T) {
		m := files(t, testGraph(t))
		f := m["routers/User.router.ts"]
		assert.Equal(t, []string{
			"./helpers/createRouter",
			"../schemas/findUniqueUser.schema",
			"../schemas/findManyUser.schema",
			"../schemas/createOneUser.schema",
			"../schemas/updateOneUser.schema",
			"../schemas/deleteOneUser.schema",
		}, f.Modules())
		assert.Equal(t, []string{"t", AuthorizationCheckedProcedure}, f.Imports[0].Named)
	})

	t.Run("schema imports are deduplicated", func(t *testing.T) {
		g := testGraph(t)
		e := &Entity{Name: "User", Operations: []Operation{
			{Kind: "findUnique", Name: "findUniqueUser"},
			{Kind: "findUniqueOrThrow", Name: "findUniqueUserOrThrow"},
		}}
		f, err := g.EntityFile(e)
		require.NoError(t, err)
		require.Len(t, f.Imports, 2)
		assert.Equal(t, []string{"UserFindUniqueSchema"}, f.Imports[1].Named)
	})

	t.Run("no schema imports without validation", func(t *testing.T) {
		m := files(t, testGraph(t, WithValidation(false)))
		assert.Equal(t, []string{"./helpers/createRouter"}, m["routers/User.router.ts"].Modules())
	})

	t.Run("groupBy", func(t *testing.T) {
		m := files(t, testGraph(t, WithActions(GroupBy)))
		out, err := ts.Render(m["routers/Post.router.ts"])
		require.NoError(t, err)
		assert.Contains(t, string(out), `await ctx.prisma.post.groupBy({
        where: input.where,
        orderBy: input.orderBy,
        by: input.by,
        having: input.having,
        take: input.take,
        skip: input.skip,
      });`)
	})
}

func TestHelperFile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f, err := testGraph(t).HelperFile()
		require.NoError(t, err)
		assert.Equal(t, []string{"@trpc/server", "../../shield/shield", "../../../../../src/context"}, f.Modules())
		assert.Equal(t, []string{"t", "globalMiddleware", "permissionsMiddleware", "publicProcedure", "authorizationCheckedProcedure"}, f.Exports())
		assert.Equal(t, "t", f.Exports()[0], "t is declared before the base procedure")
	})

	t.Run("options and extension", func(t *testing.T) {
		g := testGraph(t,
			WithMiddleware(Off()),
			WithAuthorization(Off()),
			WithContextPath("../src/context"),
			WithOptionsPath("../src/trpcOptions"),
			WithImportExtension("js"),
		)
		f, err := g.HelperFile()
		require.NoError(t, err)
		assert.Equal(t, []string{"@trpc/server", "../../../../src/context.js", "../../../../src/trpcOptions.js"}, f.Modules())
		assert.Equal(t, []string{"t", "publicProcedure"}, f.Exports())

		out, err := ts.Render(f)
		require.NoError(t, err)
		want := `import * as trpc from "@trpc/server";
import type { Context } from "../../../../src/context.js";
import trpcOptions from "../../../../src/trpcOptions.js";

export const t = trpc.initTRPC.context<Context>().create(trpcOptions);

export const publicProcedure = t.procedure;
`
		assert.Equal(t, want, string(out))
	})
}

func TestImportExtension(t *testing.T) {
	t.Run("every relative specifier ends in the extension", func(t *testing.T) {
		m := files(t, testGraph(t, WithImportExtension("js"), WithMiddleware(Module("../src/mw"))))
		for path, f := range m {
			for _, mod := range f.Modules() {
				if !strings.HasPrefix(mod, ".") {
					continue
				}
				assert.True(t, strings.HasSuffix(mod, ".js"), "%s imports %s", path, mod)
			}
		}
		assert.Contains(t, m["routers/User.router.ts"].Modules(), "../schemas/findManyUser.schema.js")
		assert.Contains(t, m["routers/index.ts"].Modules(), "./User.router.js")
	})

	t.Run("no extension means no rewritten suffix", func(t *testing.T) {
		m := files(t, testGraph(t))
		for _, f := range m {
			for _, mod := range f.Modules() {
				assert.False(t, strings.HasSuffix(mod, ".js"), mod)
				assert.False(t, strings.HasSuffix(mod, ".ts"), mod)
			}
		}
	})
}

func TestIndexFile(t *testing.T) {
	t.Run("render", func(t *testing.T) {
		m := files(t, testGraph(t, WithHeader("")))
		out, err := ts.Render(m["routers/index.ts"])
		require.NoError(t, err)
		want := `import { t } from "./helpers/createRouter";
import { usersRouter } from "./User.router";
import { postsRouter } from "./Post.router";

export const appRouter = t.router({
  user: usersRouter,
  post: postsRouter,
});
`
		assert.Equal(t, want, string(out))
	})

	t.Run("case-insensitive key collision", func(t *testing.T) {
		g := testGraph(t)
		_, err := g.IndexFile([]*Entity{{Name: "User"}, {Name: "USER"}})
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
	})
}

func TestGeneratedExtension(t *testing.T) {
	m := files(t, testGraph(t, WithGeneratedExtension("mts")))
	assert.Contains(t, m, "routers/helpers/createRouter.mts")
	assert.Contains(t, m, "routers/User.router.mts")
	assert.Contains(t, m, "routers/index.mts")
	assert.Equal(t, "./helpers/createRouter", m["routers/index.mts"].Modules()[0], "specifiers do not follow the file extension")
}

func TestAllowListProcedureCount(t *testing.T) {
	doc := testDocument()
	full := doc.DMMF.Mappings.ModelOperations[0]
	full.Operations = nil
	for _, op := range userEntity().Operations {
		full.Operations = append(full.Operations, load.Operation{Kind: op.Kind, Name: op.Name})
	}
	count := func(actions ...Action) int {
		g, err := NewGraph(testConfig(t, WithActions(actions...)), doc)
		require.NoError(t, err)
		f, err := g.EntityFile(g.Routed()[0])
		require.NoError(t, err)
		return len(routerKeys(t, f, "usersRouter"))
	}
	restricted := count(FindFirst, FindMany, Create)
	assert.Greater(t, restricted, 0)
	assert.Less(t, restricted, count(AllActions...))
}
