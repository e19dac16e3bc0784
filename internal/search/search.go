// Package search finds elements in a captured envelope by semantic role,
// fuzzy name, and state, ranked deterministically.
package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// DefaultLimit is the result cap when a query does not set one.
const DefaultLimit = 5

var (
	// ErrNoCapture means no envelope has been captured yet. Search never
	// captures implicitly.
	ErrNoCapture = errors.New("no prior capture: call snapshot first")
	// ErrBadLimit means the caller passed a negative result limit.
	ErrBadLimit = errors.New("limit must be positive")
	// ErrNoCriteria means the query carried no search signal at all.
	ErrNoCriteria = errors.New("no search criteria: supply query, role, name, or state")
)

// Query holds search criteria. Role and State are hard filters; Query is a
// freeform phrase decomposed into a soft role hint plus name tokens.
type Query struct {
	Query string `json:"query,omitempty"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	State string `json:"state,omitempty"`

	// Limit caps results; zero means DefaultLimit.
	Limit int `json:"limit,omitempty"`
}

// Match is one scored result. Node is a copy with children stripped.
type Match struct {
	Node  *tree.Node `json:"node"`
	Score float64    `json:"score"`
	Index int        `json:"index"` // pre-order position in the tree
}

// Scoring weights. Explicit role matches outrank name matches: when a
// caller says "button", role identity is a stronger signal than fuzzy
// text similarity.
const (
	roleWeight     = 0.50
	roleHintWeight = 0.25
	nameWeight     = 0.35
	stateWeight    = 0.10

	interactiveBonus = 0.03
	focusedBonus     = 0.02
)

// noiseWords are filler tokens stripped from freeform queries.
var noiseWords = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"for": true, "in": true, "on": true, "of": true, "with": true,
	"to": true, "and": true, "or": true, "is": true, "it": true,
	"its": true, "my": true, "your": true,
}

// Find searches the envelope and returns ranked matches. A nil envelope
// fails with ErrNoCapture; an empty query fails with ErrNoCriteria.
func Find(env *tree.Envelope, q Query) ([]Match, error) {
	if env == nil {
		return nil, ErrNoCapture
	}
	if q.Limit < 0 {
		return nil, ErrBadLimit
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	crit, err := compile(q)
	if err != nil {
		return nil, err
	}

	var matches []Match
	index := 0
	var walk func(nodes []*tree.Node)
	walk = func(nodes []*tree.Node) {
		for _, n := range nodes {
			if score, ok := crit.score(n); ok {
				flat := n.Clone()
				flat.Children = nil
				matches = append(matches, Match{Node: flat, Score: score, Index: index})
			}
			index++
			walk(n.Children)
		}
	}
	walk(env.Tree)

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// criteria is a compiled query: resolved filters plus name tokens.
type criteria struct {
	hardRoles map[taxonomy.Role]bool // nil = no role filter
	hintRoles map[taxonomy.Role]bool // soft, from query decomposition
	state     taxonomy.State
	hasState  bool
	tokens    []string
}

func compile(q Query) (*criteria, error) {
	if strings.TrimSpace(q.Query) == "" && strings.TrimSpace(q.Role) == "" &&
		strings.TrimSpace(q.Name) == "" && strings.TrimSpace(q.State) == "" {
		return nil, ErrNoCriteria
	}

	c := &criteria{}

	if q.Role != "" {
		c.hardRoles = taxonomy.ResolveRoles(q.Role)
	}
	if q.State != "" {
		// An unknown state never matches anything, yielding an empty
		// result rather than an error. CanonicalState returns the empty
		// state in that case, which no node carries.
		s, _ := taxonomy.CanonicalState(q.State)
		c.state, c.hasState = s, true
	}

	var residual []string
	if q.Query != "" {
		hint, rest := parseQuery(q.Query)
		residual = rest
		if hint != "" && c.hardRoles == nil {
			c.hintRoles = taxonomy.ResolveRoles(hint)
		}
	}
	if q.Name != "" {
		c.tokens = tokenize(q.Name)
	} else {
		c.tokens = residual
	}
	return c, nil
}

// score evaluates one node. ok=false means a hard filter excluded it or it
// carries no positive signal.
func (c *criteria) score(n *tree.Node) (float64, bool) {
	base := 0.0

	if c.hardRoles != nil {
		if !c.hardRoles[n.Role] {
			return 0, false
		}
		base += roleWeight
	}
	if c.hasState {
		if !n.HasState(c.state) {
			return 0, false
		}
		base += stateWeight
	}
	if len(c.tokens) > 0 {
		ns := scoreName(c.tokens, n.Name)
		if ns == 0 {
			return 0, false
		}
		base += ns * nameWeight
	}
	if c.hintRoles != nil && c.hintRoles[n.Role] {
		base += roleHintWeight
	}

	if base == 0 {
		return 0, false
	}

	score := base
	if n.Interactive() {
		score += interactiveBonus
	}
	if n.HasState(taxonomy.StateFocused) {
		score += focusedBonus
	}
	return score, true
}

// parseQuery decomposes a freeform phrase into a role hint and residual
// name tokens. The longest token run (up to three words) matching a known
// role phrase wins; leftovers minus noise words become the name query.
//
//	"the play button" -> ("button", ["play"])
//	"search input"    -> ("search input", [])
//	"Submit"          -> ("", ["submit"])
func parseQuery(query string) (string, []string) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return "", nil
	}

	hint := ""
	span := [2]int{0, 0}
outer:
	for length := min(len(tokens), 3); length >= 1; length-- {
		for start := 0; start+length <= len(tokens); start++ {
			candidate := strings.Join(tokens[start:start+length], " ")
			if taxonomy.KnownPhrase(candidate) {
				hint = candidate
				span = [2]int{start, start + length}
				break outer
			}
		}
	}

	var rest []string
	for i, t := range tokens {
		if i >= span[0] && i < span[1] {
			continue
		}
		if noiseWords[t] {
			continue
		}
		rest = append(rest, t)
	}
	return hint, rest
}

// scoreName rates how well a name matches the query tokens, in [0,1].
// Whole-word hits dominate, substring hits help, and a bounded
// edit-distance check catches typos that have no other hit.
func scoreName(queryTokens []string, name string) float64 {
	if name == "" {
		return 0
	}
	nameLower := strings.ToLower(name)
	nameTokens := tokenize(name)
	nameSet := make(map[string]bool, len(nameTokens))
	for _, t := range nameTokens {
		nameSet[t] = true
	}

	words, substrs, nears := 0, 0, 0
	for _, qt := range queryTokens {
		switch {
		case nameSet[qt]:
			words++
			substrs++
		case strings.Contains(nameLower, qt):
			substrs++
		default:
			limit := 1
			if len(qt) >= 5 {
				limit = 2
			}
			for _, nt := range nameTokens {
				if levenshtein(qt, nt, limit) <= limit {
					nears++
					break
				}
			}
		}
	}

	n := float64(len(queryTokens))
	return 0.6*float64(words)/n + 0.3*float64(substrs)/n + 0.1*float64(nears)/n
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// levenshtein computes edit distance with early exit: any value above
// limit is reported as limit+1.
func levenshtein(a, b string, limit int) int {
	if abs(len(a)-len(b)) > limit {
		return limit + 1
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
