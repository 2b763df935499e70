// Package complyflow provides a compliance workflow engine: it compiles
// recipe text written in a small question/rule DSL into reusable workflow
// images, instantiates them against target entities and advances the
// resulting instances step by step, firing declarative rules along the way.
//
// The engine is designed to be embedded in host applications. End-users
// typically interact with it via the high-level Service facade exposed by
// the root package:
//
//	srv := complyflow.New()
//	rt := srv.Runtime()
//	image, _ := rt.CompileRecipe(ctx, "host-review", recipeText)
//	inst, _ := rt.NewInstance(ctx, image.UUID)
//	inst, _ = rt.Advance(ctx, inst.ID, "auditor")
//
// For more details see the README and individual sub-packages.
package complyflow
