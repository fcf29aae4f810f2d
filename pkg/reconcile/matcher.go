package reconcile

import "github.com/vango-dev/retain/pkg/vdom"

// Pair is one child position to reconcile. Either side may be nil, never
// both.
type Pair struct {
	Old  *vdom.Node
	Next *vdom.Node
}

// ChildMatcher decides which old child each new child is diffed against.
type ChildMatcher interface {
	Match(old, next []*vdom.Node) []Pair
}

// ChildMatcherFunc adapts a function to ChildMatcher.
type ChildMatcherFunc func(old, next []*vdom.Node) []Pair

// Match implements ChildMatcher.
func (f ChildMatcherFunc) Match(old, next []*vdom.Node) []Pair {
	return f(old, next)
}

// Positional pairs children by index up to the longer of the two lists.
var Positional ChildMatcher = ChildMatcherFunc(matchPositional)

func matchPositional(old, next []*vdom.Node) []Pair {
	n := len(old)
	if len(next) > n {
		n = len(next)
	}
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		var p Pair
		if i < len(old) {
			p.Old = old[i]
		}
		if i < len(next) {
			p.Next = next[i]
		}
		if p.Old == nil && p.Next == nil {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}
