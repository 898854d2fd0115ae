// Package load coordinates asynchronous loading of external script resources
// into a live host environment.
//
// # Overview
//
// The package organizes work around three core pieces:
//
//  1. Loader: the state machine deciding, per requested resource, whether to
//     run a callback immediately, join an in-flight load, or start a new one
//  2. Environment: the injectable capability set the loader mutates (element
//     injection and removal, attribute access, group queries, inline
//     evaluation, an isolated secondary context for cache priming)
//  3. ParseResult: an ordered queue of external/inline items extracted from a
//     markup fragment, executed strictly in document order
//
// # Basic Usage
//
// Create a loader over an environment and request resources:
//
//	loader := load.New(env)
//
//	loader.Request("https://cdn.example.com/app.js",
//	    load.WithGroup("app"),
//	    load.WithOnLoad(func() {
//	        // app.js has finished loading
//	    }),
//	)
//
// Requesting a locator that is already loading never starts a second fetch;
// the callback joins that identifier's pending set and is delivered after
// the one outstanding load completes, in registration order. Requesting an
// already-loaded locator runs the callback synchronously.
//
// # Groups
//
// Resources tagged with the same group name are interchangeable versions of
// the same logical script. Loading a new resource in a group removes the
// prior group-mates, but only after the new load completes, so a successor
// that never finishes cannot cost the group its current version.
//
// # Batches
//
// Parse extracts an ordered queue from markup, Execute walks it one
// completion at a time:
//
//	pr := load.Parse(`<script src="a.js"></script><script>init();</script>`)
//	loader.Execute(pr, func() {
//	    // a.js loaded, then init() evaluated
//	})
//
// # Cache Priming
//
// Prime fetches a resource's bytes ahead of need without executing them,
// using the environment's secondary context:
//
//	loader.Prime("https://cdn.example.com/later.js")
//
// A later Request for the same locator finds the bytes already cached by the
// host and does not fetch again.
//
// # Extensions
//
// Extensions wrap every loader operation in middleware fashion and observe
// errors; see the extensions package for slog-backed logging and state
// debugging:
//
//	loader.Use(extensions.NewLoggingExtension(handler))
//
// # Failure Model
//
// The error surface is deliberately narrow. A load that never completes is
// not an error: its callbacks are simply never delivered, and there is no
// timeout. Only Evaluate returns an error, when the environment rejects
// inline text.
package load
