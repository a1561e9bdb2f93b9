// Package dataset coordinates loading and reloading of the records a UI
// surface displays for the active seed.
//
// One Coordinator is built per dataset domain at startup and handed to every
// consumer. Consumers wait on WhenReady, Subscribe for replacements and read
// through the lookup accessors; a seed change calls Reload, which clears the
// list, waits a short settle delay and loads the new seed in the background.
//
//	hotels := dataset.New[Hotel]("hotels", loader, dataset.WithBaseSeed(42))
//	op := hotels.Reload(ctx, 0)
//	_ = op.Wait(ctx)
//	all := hotels.All()
package dataset
