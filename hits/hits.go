// Package hits implements the HITS (Hyperlink-Induced Topic Search)
// link-authority ranker used to fuse lexical rank with the page graph's
// authority scores into a single ordered result set.
package hits

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/capsulesearch/engine/store"
)

const (
	maxIterations  = 300
	convergenceEps = 0.005
	authBoostScale = 6.5
)

// node is a flat, index-addressed HITS vertex: edges are held as indices
// into the same graph's nodes slice, so the graph can be cyclic without
// any reference counting.
type node struct {
	url         string
	contentType string
	size        uint64
	textRank    float32
	isRoot      bool

	auth, hub   float32
	authN, hubN float32
	score       float32

	out []int
	in  []int
}

// Graph is the per-request HITS graph built from the two store streams.
type Graph struct {
	nodes []node
	byURL map[string]int
}

// Result is a single ranked output row.
type Result struct {
	URL         string
	ContentType string
	Size        uint64
	Score       float32
	IsRoot      bool
}

// Build constructs the graph from the lexical-candidate (root) and
// inbound-link (base) rows. Self-loops are dropped and edges to nodes
// outside the set are ignored.
func Build(lexical []store.LexicalRow, inbound []store.InboundRow) *Graph {
	g := &Graph{byURL: make(map[string]int)}

	addNode := func(url, contentType string, size uint64, textRank float32) int {
		if idx, ok := g.byURL[url]; ok {
			return idx
		}
		idx := len(g.nodes)
		g.nodes = append(g.nodes, node{
			url:         url,
			contentType: contentType,
			size:        size,
			textRank:    textRank,
			isRoot:      textRank > 0,
			auth:        1,
			hub:         1,
		})
		g.byURL[url] = idx
		return idx
	}

	for _, row := range lexical {
		addNode(row.SourceURL, row.ContentType, row.Size, row.Rank)
	}
	for _, row := range inbound {
		addNode(row.SourceURL, row.ContentType, row.Size, 0)
	}

	link := func(srcURL, dstURL string) {
		srcIdx, ok := g.byURL[srcURL]
		if !ok {
			return
		}
		dstIdx, ok := g.byURL[dstURL]
		if !ok || srcIdx == dstIdx {
			return
		}
		g.nodes[srcIdx].out = append(g.nodes[srcIdx].out, dstIdx)
		g.nodes[dstIdx].in = append(g.nodes[dstIdx].in, srcIdx)
	}

	for _, row := range lexical {
		if len(row.CrossSiteLinks) == 0 {
			continue
		}
		for _, dst := range row.CrossSiteLinks {
			link(row.SourceURL, dst)
		}
	}
	for _, row := range inbound {
		link(row.SourceURL, row.DestURL)
	}

	return g
}

// DecodeCrossSiteLinks decodes a raw cross_site_links JSON array, for
// store adapters that hand back the column as a string rather than a
// pre-decoded slice.
func DecodeCrossSiteLinks(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var links []string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, err
	}
	return links, nil
}

// Mode selects whether Rank fuses authority with text rank (the default
// search path) or reports raw hub scores.
type Mode int

const (
	AuthorityMode Mode = iota
	HubMode
)

// Rank runs the HITS iteration to convergence and returns ranked results.
// In AuthorityMode, output is truncated to the root-set prefix after
// sorting; base-set nodes influence scores but never appear in the output.
// logger, if non-nil, receives a debug line with the convergence stats.
func (g *Graph) Rank(mode Mode, logger *logrus.Entry) []Result {
	iterations, delta := g.iterate()
	g.fuseScores(mode)

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"iterations": iterations,
			"delta":      delta,
			"nodes":      len(g.nodes),
		}).Debug("hits: converged")
	}

	sort.SliceStable(g.nodes, func(i, j int) bool {
		a, b := g.nodes[i], g.nodes[j]
		if a.isRoot != b.isRoot {
			return a.isRoot
		}
		return a.score > b.score
	})

	nodes := g.nodes
	if mode == AuthorityMode {
		cut := len(nodes)
		for i, n := range nodes {
			if !n.isRoot {
				cut = i
				break
			}
		}
		nodes = nodes[:cut]
	}

	out := make([]Result, len(nodes))
	for i, n := range nodes {
		out[i] = Result{
			URL:         n.url,
			ContentType: n.contentType,
			Size:        n.size,
			Score:       n.score,
			IsRoot:      n.isRoot,
		}
	}
	return out
}

func (g *Graph) iterate() (iterations int, finalDelta float32) {
	for iter := 0; iter < maxIterations; iter++ {
		for i := range g.nodes {
			n := &g.nodes[i]
			var newAuth, newHub float32
			for _, p := range n.in {
				newAuth += g.nodes[p].hub
			}
			for _, q := range n.out {
				newHub += g.nodes[q].auth
			}
			if newAuth != 0 {
				n.authN = newAuth
			} else {
				n.authN = n.auth
			}
			if newHub != 0 {
				n.hubN = newHub
			} else {
				n.hubN = n.hub
			}
		}

		var authSum, hubSum float32
		for _, n := range g.nodes {
			authSum += n.authN
			hubSum += n.hubN
		}
		authSum = maxF(authSum, 1)
		hubSum = maxF(hubSum, 1)

		var delta float32
		for i := range g.nodes {
			n := &g.nodes[i]
			newAuth := n.authN / authSum
			newHub := n.hubN / hubSum
			delta += absF(n.auth - newAuth)
			delta += absF(n.hub - newHub)
			n.auth = flushDenormal(newAuth)
			n.hub = flushDenormal(newHub)
		}

		iterations = iter + 1
		finalDelta = delta
		if delta <= convergenceEps {
			break
		}
	}
	return iterations, finalDelta
}

func (g *Graph) fuseScores(mode Mode) {
	var maxAuth float32
	for _, n := range g.nodes {
		if n.auth > maxAuth {
			maxAuth = n.auth
		}
	}
	if maxAuth == 0 {
		maxAuth = 1
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		switch mode {
		case HubMode:
			n.score = n.hub
		default:
			boost := float32(math.Exp(float64(n.auth/maxAuth) * authBoostScale))
			n.score = 2 * boost * n.textRank / (boost + n.textRank)
		}
	}
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// flushDenormal zeroes scores below float32 machine epsilon, matching the
// original's denormal guard.
func flushDenormal(v float32) float32 {
	const epsilon = 1.1920929e-7
	if v < epsilon {
		return 0
	}
	return v
}
