// Package models defines the domain entities shared by the catalog client, the engines and both presentation layers.
//
// The package contains two categories of types:
//
// 1. Catalog records: immutable values decoded from the movie catalog on every query
//   - [Movie] : a single catalog entry with display helpers for missing fields
//   - [Category] : a genre used to filter the discover query
//
// 2. Watched state: the user's persisted selections
//   - [WatchedList] : ordered set of titles with set semantics over title equality
//   - [Highlight] : auto-expiring "just added" annotation compared against a clock
//
// Nothing in this package performs I/O. Persistence lives in the repositories package.
package models
