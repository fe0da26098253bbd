// Tilerouter - Adaptive Edge Routing for Map Tiles
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tilerouter

package edge

// FailoverStack is the ordered, de-duplicated list of edge base URLs tried
// for each tile. Index 0 is the most preferred edge.
//
// FailoverStack is not safe for concurrent use; Client guards it.
type FailoverStack struct {
	urls []string
}

// NewFailoverStack builds a stack from urls, dropping empty entries and
// keeping the first occurrence of each duplicate.
func NewFailoverStack(urls ...string) *FailoverStack {
	return &FailoverStack{urls: dedupe(urls)}
}

// Len returns the number of edges.
func (s *FailoverStack) Len() int {
	return len(s.urls)
}

// Head returns the most preferred edge, or "" when empty.
func (s *FailoverStack) Head() string {
	if len(s.urls) == 0 {
		return ""
	}
	return s.urls[0]
}

// Snapshot returns a copy of the current order.
func (s *FailoverStack) Snapshot() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// Contains reports whether url is in the stack.
func (s *FailoverStack) Contains(url string) bool {
	return s.indexOf(url) >= 0
}

// Promote moves url to the head, preserving the relative order of the other
// edges. It reports false and leaves the stack unchanged when url is absent.
func (s *FailoverStack) Promote(url string) bool {
	i := s.indexOf(url)
	if i < 0 {
		return false
	}
	if i == 0 {
		return true
	}
	copy(s.urls[1:i+1], s.urls[:i])
	s.urls[0] = url
	return true
}

// Replace installs a new order wholesale.
func (s *FailoverStack) Replace(urls []string) {
	s.urls = dedupe(urls)
}

func (s *FailoverStack) indexOf(url string) int {
	for i, u := range s.urls {
		if u == url {
			return i
		}
	}
	return -1
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
