// Package gen synthesizes tRPC routers from an introspected data model.
//
// # Pipeline
//
//	load.Document (models, operation mappings, generator blocks)
//	        ↓
//	   Graph (entities, hidden set, client provider)
//	        ↓
//	   Assemble: helper file, one router per entity, aggregate router
//	        ↓
//	   ts.File nodes → ts.Printer → FileWriter
//
// Entities marked with a @@Gen.model(hide: true) directive in their
// documentation, and entities left without operations by the
// generateModelActions allow-list, get no router.
//
// # Emitted layout
//
//	<output>/routers/helpers/createRouter.ts  t, middlewares, base procedures
//	<output>/routers/<Entity>.router.ts       <plural>Router
//	<output>/routers/index.ts                 appRouter
//
// The base procedure is publicProcedure, protectedProcedure when global
// middleware is enabled, or authorizationCheckedProcedure when the
// authorization middleware is enabled.
//
// # Example
//
//	cfg, err := gen.NewConfig(
//		gen.WithTarget("prisma/generated"),
//		gen.WithSchemaPath("prisma/schema.prisma"),
//		gen.WithActions(gen.FindMany, gen.Create),
//	)
//	if err != nil {
//		return err
//	}
//	g, err := gen.NewGraph(cfg, doc)
//	if err != nil {
//		return err
//	}
//	return g.Gen(ctx)
package gen
