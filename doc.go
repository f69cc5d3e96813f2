// Package hatch turns a markdown asset plan into image-generation work:
// parsed asset descriptors, rendered prompts, cost estimates, and a
// reconciliation of predicted versus actual spend.
//
// # Problem Statement
//
// Planning game art with a generative model involves the same chores every
// time: an outline of categories and assets has to become a queue of
// concrete generation requests, each request needs a prompt that keeps the
// art style consistent, and every API call costs money that should be
// estimated up front and reconciled afterwards. Doing this by hand means:
//
//   - Copy-pasting asset lists into prompts and losing variant structure
//   - Forgetting which directions of a character sprite are still missing
//   - No idea what a batch will cost until the invoice arrives
//   - Ad-hoc retries when the provider's stats endpoint is slow
//
// The hatch package solves this with a small pipeline of pure
// transformations plus a thin generation client:
//
//   - Plan parsing: markdown categories/assets/variants → typed descriptors
//   - Direction expansion: one character → per-direction child assets that
//     share a front-facing reference image for visual consistency
//   - Prompt building: per-asset-type templates rendered from project style
//     settings, a style anchor palette, and a character registry
//   - Cost accounting: static model pricing, batch estimates, and a
//     retry-with-backoff fetch of actual generation costs
//
// # Basic Usage
//
// Parse a plan and estimate what it will cost:
//
//	assets := hatch.ParsePlan(planMarkdown)
//	models := hatch.DefaultModelCatalog()
//	est := hatch.EstimateBatchCost("google/gemini-2.5-flash-image", len(assets), 0, models)
//	fmt.Println(hatch.FormatCostDisplay(est, &hatch.CostDisplayOptions{IsEstimate: true}))
//
// Build a prompt for one asset:
//
//	prompt, err := hatch.BuildAssetPrompt(assets[0], project, nil, nil)
//
// Generate everything through a Studio:
//
//	studio, err := hatch.NewStudio(gen, hatch.WithCostClient(costs))
//	results, summary, err := studio.GenerateAll(ctx, assets, project)
//
// # Direction Expansion
//
// A moveable asset expands into one child per direction. The front child is
// the designated reference: once it has been generated, prompts for the
// remaining directions carry consistency instructions that point back at it.
//
//	children := hatch.ExpandAssetToDirections(farmer, 4)
//	// Farmer (Front), Farmer (Back), Farmer (Left), Farmer (Right)
package hatch
