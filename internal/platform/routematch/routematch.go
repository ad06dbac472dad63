// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

// Package routematch implements most-specific-wins lookup of per-route
// declarations.
//
// # Pattern Grammar
//
// A pattern is "METHOD /path" for an exact match or "METHOD /path/*" for a
// prefix match. Lookup prefers an exact match, then the longest matching
// prefix pattern, then the table default. The grammar is deliberately tiny:
// policies are attached per route at startup, not computed at request time.
package routematch

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Table maps route patterns to declarations of type T with
// most-specific-wins precedence.
//
// # Concurrency
//
// A Table is populated at startup and read-only afterwards, so request-time
// lookups need no locking.
type Table[T any] struct {
	exact    map[string]T
	prefixes []prefixEntry[T]
	fallback T
}

type prefixEntry[T any] struct {
	method string
	prefix string
	value  T
}

// New creates a Table with the given default declaration, returned whenever
// no registered pattern matches.
func New[T any](fallback T) *Table[T] {
	return &Table[T]{
		exact:    make(map[string]T),
		fallback: fallback,
	}
}

// Set registers a declaration under a "METHOD /path" or "METHOD /path/*" pattern.
func (t *Table[T]) Set(pattern string, value T) error {
	method, route, ok := strings.Cut(pattern, " ")
	if !ok || method == "" || !strings.HasPrefix(route, "/") {
		return fmt.Errorf(`routematch: pattern %q must be "METHOD /path"`, pattern)
	}

	if prefix, isWildcard := strings.CutSuffix(route, "/*"); isWildcard {
		t.prefixes = append(t.prefixes, prefixEntry[T]{method: method, prefix: prefix, value: value})
		// Longest prefix first, so the first hit during lookup is the most specific.
		sort.SliceStable(t.prefixes, func(i, j int) bool {
			return len(t.prefixes[i].prefix) > len(t.prefixes[j].prefix)
		})
		return nil
	}

	t.exact[method+" "+route] = value
	return nil
}

// Lookup resolves the most specific declaration for a method and path.
// The boolean reports whether an explicit pattern matched (false = default).
//
// The path is normalized before matching, so a request spelled with duplicate
// slashes or dot segments resolves to the same declaration as the canonical
// path the router ultimately serves. Without this, "//teams" would miss every
// declared pattern and land in the fallback.
func (t *Table[T]) Lookup(method, requestPath string) (T, bool) {
	requestPath = Normalize(requestPath)

	if value, ok := t.exact[method+" "+requestPath]; ok {
		return value, true
	}

	for _, entry := range t.prefixes {
		if entry.method != method {
			continue
		}
		if requestPath == entry.prefix || strings.HasPrefix(requestPath, entry.prefix+"/") {
			return entry.value, true
		}
	}

	return t.fallback, false
}

// Normalize returns the canonical form of a request path: rooted, duplicate
// slashes collapsed, dot segments resolved, no trailing slash. Lookup applies
// it internally; callers that key counters or caches by path must apply it
// too, or one logical route fans out into several keys.
func Normalize(requestPath string) string {
	if requestPath == "" {
		return "/"
	}
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}
	return path.Clean(requestPath)
}
