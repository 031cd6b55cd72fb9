package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// DefaultBaseURL prefixes relative links in a link map.
const DefaultBaseURL = "http://scp-wiki.wikidot.com"

// Page is one entry of a link map.
type Page struct {
	Links    []string `json:"links"`
	Children []string `json:"children"`
}

// LinkMap is the crawled page graph keyed by page URL.
type LinkMap map[string]Page

// LinkMapOptions controls how a link map becomes a graph.
type LinkMapOptions struct {
	// BaseURL is prepended to links that are not page keys themselves.
	// Empty means DefaultBaseURL.
	BaseURL string

	// IncludeChildren adds page -> child edges alongside link edges.
	IncludeChildren bool
}

// LinkStats reports how many references in a link map were resolved.
type LinkStats struct {
	Pages      int
	Skipped    int // pages whose key is not a valid node ID
	Resolved   int
	Unresolved int
}

// ReadLinkMap decodes a link map and converts it with FromLinkMap.
func ReadLinkMap(r io.Reader, opts LinkMapOptions) (*Graph, LinkStats, error) {
	var m LinkMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, LinkStats{}, fmt.Errorf("decode: %w", err)
	}
	g, stats := FromLinkMap(m, opts)
	return g, stats, nil
}

// ReadLinkMapFile reads a link map from a JSON file.
func ReadLinkMapFile(path string, opts LinkMapOptions) (*Graph, LinkStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LinkStats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLinkMap(f, opts)
}

// FromLinkMap builds a graph with one node per page. A reference becomes an
// edge when it names a page directly or once BaseURL is prepended; all
// other references are dropped and counted as unresolved. Pages with an
// empty key are skipped, and so are links pointing at them.
//
// Pages are added in sorted key order so the result does not depend on map
// iteration.
func FromLinkMap(m LinkMap, opts LinkMapOptions) (*Graph, LinkStats) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimSuffix(base, "/")

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	g := New()
	stats := LinkStats{}
	for _, k := range keys {
		if err := g.AddNode(Node{ID: k, Label: pageLabel(k)}); err != nil {
			stats.Skipped++
			continue
		}
		stats.Pages++
	}

	resolve := func(ref string) (string, bool) {
		if g.Has(ref) {
			return ref, true
		}
		if !strings.HasPrefix(ref, "/") {
			ref = "/" + ref
		}
		full := base + ref
		return full, g.Has(full)
	}

	for _, k := range keys {
		if !g.Has(k) {
			continue
		}
		page := m[k]
		refs := page.Links
		if opts.IncludeChildren {
			refs = append(slices.Clone(refs), page.Children...)
		}
		for _, ref := range refs {
			to, ok := resolve(ref)
			if !ok {
				stats.Unresolved++
				continue
			}
			if err := g.AddEdge(Edge{From: k, To: to}); err != nil {
				stats.Unresolved++
				continue
			}
			stats.Resolved++
		}
	}
	return g, stats
}

// pageLabel is the last path segment of a page URL.
func pageLabel(url string) string {
	url = strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 && i < len(url)-1 {
		return url[i+1:]
	}
	return url
}
