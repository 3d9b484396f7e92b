// Package tasks implements the engines that sit between the catalog client and the presentation layers.
//
// # BrowseEngine
//
// [BrowseEngine] owns the search/browse state: query, last result set, genre list, selected category and
// the category chooser's expand/collapse flag. Every request is tagged at initiation with a monotonically
// increasing sequence number. A response is applied only when its sequence is the latest issued, so a slow
// earlier response can never overwrite the results of a newer query.
//
// Requests are split in three steps so the TUI can run the network call as an asynchronous command:
//
//	req, ok := engine.BeginSearch(query) // state transition, no I/O
//	resp := engine.Fetch(ctx, req)       // single catalog call
//	applied := engine.Apply(resp)        // sequence check + state transition
//
// The CLI and web handlers use the synchronous [BrowseEngine.Search] and [BrowseEngine.Discover].
//
// # WatchTracker
//
// [WatchTracker] owns the watched list, its persistence adapter and the "just added" highlight.
// The list is loaded once on construction and fully rewritten on every mutation.
// The highlight is a value with an expiry compared against an injected clock; no timers are started.
//
// Failures never escape as fatal errors: network failures leave the previous results in place and
// a corrupt stored list starts the session empty. Both are logged.
package tasks
