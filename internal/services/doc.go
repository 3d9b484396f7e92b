// Package services defines the [Service] interface for the movie catalog and implements it for TMDB.
//
// # Service Interface
//
// The catalog answers three read-only queries: title search, genre list and discover-by-genre.
// Each call is one request and one response; there is no retry, pagination or caching.
//
// # TMDB Implementation
//
// [TMDBService] attaches a static credential to every request, either as the v3 api_key query parameter
// or as a v4 bearer token through an [oauth2.StaticTokenSource]. A missing or rejected credential is not
// distinguished from any other failure.
//
// Requests can be paced with a [rate.Limiter] when rate_limit is configured.
//
// # Error Handling
//
// Transport failures, non-2xx statuses and malformed payloads all wrap [shared.ErrAPIRequest].
package services
