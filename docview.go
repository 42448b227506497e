// Package docview provides document loading and caching for a markdown
// documentation viewer. It unifies heterogeneous document sources (local
// files, remote URLs, GitHub repositories, inline content) behind a single
// loader with request coalescing, bounded in-memory LRU caching, and an
// optional durable cache that survives restarts.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, github/), with
// orchestration in load/.
package docview
