// Package server provides HTTP routing, middleware and the handlers behind the web version of the search page.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and registers "METHOD /path" patterns.
//
// # Page Handlers
//
// [PageHandler] renders the page with the web package and owns the form actions: search, browse a category,
// toggle the chooser, add/remove/sort watched titles and toggle the sidebar. Each action redirects back to the page.
// The handler shares one [tasks.BrowseEngine] and one [tasks.WatchTracker] across requests; both are safe for
// concurrent use.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [HealthHandler] is registered this way.
package server
