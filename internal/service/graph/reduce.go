package graph

import (
	"regexp"
	"strings"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const groupPrefix = "group::"

var placeholderRe = regexp.MustCompile(`[%/_\-*]`)

// NodeID is the id of the node for word in language.
func NodeID(word, language string) string {
	return word + "__" + language
}

// EdgeID is the id of the edge from source to target.
func EdgeID(source, target string) string {
	return source + "..-->.." + target
}

// Reduce turns records into a graph rooted at root.
//
// Records with placeholder words or no language are dropped, and missing
// definitions are filled in from other records naming the same word. Each
// node with several incoming edges keeps one: the first whose relationship
// is not a descendant relationship, else the first. Nodes no longer
// connected to the root are then dropped, or with KeepFalseRoots kept and
// tagged IsImpure; in that mode backup edges also survive clash resolution.
// Every returned edge has both endpoints among the returned nodes.
func Reduce(records []domain.DerivationRecord, root domain.WordListing, opts Options) *Graph {
	sw := newStopwatch()
	g := &Graph{Languages: make(map[string]LanguageStyle)}

	kept := make([]domain.DerivationRecord, 0, len(records))
	for _, r := range records {
		if meaningful(r.ParentWord) && meaningful(r.OriginWord) && r.ParentLanguage != "" && r.OriginLanguage != "" {
			kept = append(kept, r)
		}
	}
	g.Stats.DerivationsObtained = len(kept)
	backfillDefinitions(kept)
	sw.lap()

	nodes := newNodeSet()
	var edges []Edge
	edgeAt := make(map[string]int)
	for _, r := range kept {
		target := NodeID(r.ParentWord, r.ParentLanguage)
		source := NodeID(r.OriginWord, r.OriginLanguage)
		if target == source {
			continue
		}

		for _, lang := range []string{r.ParentLanguage, r.OriginLanguage} {
			if _, ok := g.Languages[lang]; !ok {
				g.Languages[lang] = styleFor(lang)
			}
		}

		tn := nodes.get(target, r.ParentWord, r.ParentLanguage)
		if len(tn.Definition) == 0 {
			tn.Definition = r.ParentDefinition
		}
		sn := nodes.get(source, r.OriginWord, r.OriginLanguage)
		if len(sn.Definition) == 0 {
			sn.Definition = r.OriginDefinition
		}
		sn.IsPriority = r.IsPriorityChoice

		e := Edge{
			ID:           EdgeID(source, target),
			Source:       source,
			Target:       target,
			Relationship: r.Relationship,
			Category:     r.Relationship.Style(),
			IsBackup:     r.IsBackupChoice,
		}
		if i, ok := edgeAt[e.ID]; ok {
			edges[i] = e
			continue
		}
		edgeAt[e.ID] = len(edges)
		edges = append(edges, e)
	}
	g.Stats.NodesObtained = len(nodes.order)
	sw.lap()

	rootID := NodeID(domain.CleanWord(root.Word), root.Language)
	g.Stats.DirectLength = markEtymons(nodes, edges, rootID)
	sw.lap()

	strict, clashes := resolveClashes(nodes.order, edges, false)
	reached := reach(rootID, strict)

	var outEdges []Edge
	var outIDs []string
	if !opts.KeepFalseRoots {
		for _, e := range strict {
			if reached[e.Source] {
				outEdges = append(outEdges, e)
			}
		}
		for _, id := range nodes.order {
			if reached[id] {
				outIDs = append(outIDs, id)
			} else {
				g.Stats.FalseRoots++
			}
		}
	} else {
		pure := make(map[string]bool, len(strict))
		for _, e := range strict {
			if reached[e.Source] {
				pure[e.ID] = true
			}
		}

		var lenient []Edge
		lenient, clashes = resolveClashes(nodes.order, edges, true)
		for _, e := range lenient {
			e.IsImpure = !pure[e.ID]
			outEdges = append(outEdges, e)
		}
		for _, id := range nodes.order {
			if !reached[id] {
				nodes.byID[id].IsImpure = true
				g.Stats.FalseRoots++
			}
			outIDs = append(outIDs, id)
		}
	}
	g.Stats.Clashes = clashes
	sw.lap()

	var groups []Node
	if opts.GroupSiblings {
		groups = groupSiblings(nodes, outEdges)
	}

	g.Nodes = make([]Node, 0, len(outIDs)+len(groups))
	for _, id := range outIDs {
		n := nodes.byID[id]
		n.IsSource = id == rootID
		g.Nodes = append(g.Nodes, *n)
	}
	g.Nodes = append(g.Nodes, groups...)
	g.Edges = outEdges
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	sw.lap()

	g.Stats.NodesDrawn = len(outIDs)
	g.Stats.EdgesDrawn = len(g.Edges)
	g.Stats.TimingSegments = sw.segments
	g.Stats.ProcessingTime = sw.total()
	return g
}

func meaningful(word string) bool {
	return placeholderRe.ReplaceAllString(strings.TrimSpace(word), "") != ""
}

// backfillDefinitions fills empty definitions from any other record that
// names the same word in the same language.
func backfillDefinitions(records []domain.DerivationRecord) {
	known := make(map[string][]domain.DefinitionSpec)
	remember := func(id string, defs []domain.DefinitionSpec) {
		if _, ok := known[id]; !ok && len(defs) > 0 {
			known[id] = defs
		}
	}
	for _, r := range records {
		remember(NodeID(r.ParentWord, r.ParentLanguage), r.ParentDefinition)
		remember(NodeID(r.OriginWord, r.OriginLanguage), r.OriginDefinition)
	}

	for i := range records {
		r := &records[i]
		if len(r.ParentDefinition) == 0 {
			r.ParentDefinition = known[NodeID(r.ParentWord, r.ParentLanguage)]
		}
		if len(r.OriginDefinition) == 0 {
			r.OriginDefinition = known[NodeID(r.OriginWord, r.OriginLanguage)]
		}
	}
}

// markEtymons follows incoming edges back from the root and flags each
// node passed. It returns the chain length.
func markEtymons(nodes *nodeSet, edges []Edge, rootID string) int {
	seen := map[string]bool{rootID: true}
	length := 0
	current := rootID
	for {
		next := ""
		for _, e := range edges {
			if e.Target == current {
				next = e.Source
				break
			}
		}
		if next == "" || seen[next] {
			return length
		}
		seen[next] = true
		nodes.byID[next].IsEtymon = true
		length++
		current = next
	}
}

// resolveClashes leaves each node at most one incoming edge, plus any
// backup edges when keepBackup is set. It returns the kept edges and the
// number of nodes that had more than one.
func resolveClashes(order []string, edges []Edge, keepBackup bool) ([]Edge, int) {
	incoming := make(map[string][]int)
	for i, e := range edges {
		incoming[e.Target] = append(incoming[e.Target], i)
	}

	drop := make([]bool, len(edges))
	clashes := 0
	for _, id := range order {
		in := incoming[id]
		if len(in) <= 1 {
			continue
		}
		clashes++

		definitive := in[0]
		for _, i := range in {
			if !edges[i].Relationship.IsDescendant() {
				definitive = i
				break
			}
		}
		for _, i := range in {
			if i != definitive && !(keepBackup && edges[i].IsBackup) {
				drop[i] = true
			}
		}
	}

	out := make([]Edge, 0, len(edges))
	for i, e := range edges {
		if !drop[i] {
			out = append(out, e)
		}
	}
	return out, clashes
}

// reach walks edges in both directions from root.
func reach(root string, edges []Edge) map[string]bool {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	reached := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reached
}

// groupSiblings returns a group node for every source with more than one
// child and points the children at it. A child already in a group stays
// there.
func groupSiblings(nodes *nodeSet, edges []Edge) []Node {
	children := make(map[string][]string)
	var sources []string
	for _, e := range edges {
		if _, ok := children[e.Source]; !ok {
			sources = append(sources, e.Source)
		}
		children[e.Source] = append(children[e.Source], e.Target)
	}

	var groups []Node
	for _, src := range sources {
		kids := children[src]
		if len(kids) < 2 {
			continue
		}
		id := groupPrefix + src
		groups = append(groups, Node{ID: id, IsGroup: true})
		for _, kid := range kids {
			if n := nodes.byID[kid]; n.Parent == "" {
				n.Parent = id
			}
		}
	}
	return groups
}

type nodeSet struct {
	byID  map[string]*Node
	order []string
}

func newNodeSet() *nodeSet {
	return &nodeSet{byID: make(map[string]*Node)}
}

func (s *nodeSet) get(id, word, language string) *Node {
	if n, ok := s.byID[id]; ok {
		return n
	}
	n := &Node{ID: id, Label: word, Language: language}
	s.byID[id] = n
	s.order = append(s.order, id)
	return n
}

type stopwatch struct {
	last     time.Time
	segments []time.Duration
}

func newStopwatch() *stopwatch {
	return &stopwatch{last: time.Now()}
}

func (s *stopwatch) lap() {
	now := time.Now()
	s.segments = append(s.segments, now.Sub(s.last))
	s.last = now
}

func (s *stopwatch) total() time.Duration {
	var d time.Duration
	for _, seg := range s.segments {
		d += seg
	}
	return d
}
