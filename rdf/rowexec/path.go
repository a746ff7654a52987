// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rowexec

import (
	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/store"
)

// DefaultPathDepthBound is the ceiling on BFS rounds the property path
// engine enforces on `+` and `*` traversals (spec.md §4.H, §7).
// A finite store's visited-set already bounds traversal by |V|; this
// exists only as a circuit breaker.
const DefaultPathDepthBound = 100000

// walkPath returns every node reachable from start by one evaluation
// of path, in the given direction (forward: start plays the subject
// role; !forward: start plays the object role, as InversePath flips
// it). The repetition operators + and * perform a breadth-first closure
// with a visited set, so cycles terminate and each node is visited
// once; depthBound caps the number of BFS rounds. ? takes the start
// node plus at most one step.
func walkPath(path parse.Path, s store.Store, start rdf.Term, forward bool, depthBound int) ([]rdf.Term, error) {
	switch t := path.(type) {
	case parse.PredicatePath:
		return stepPredicate(t, s, start, forward), nil

	case parse.InversePath:
		return walkPath(t.Inner, s, start, !forward, depthBound)

	case parse.GroupPath:
		return walkPath(t.Inner, s, start, forward, depthBound)

	case parse.SequencePath:
		return walkSequence(t, s, start, forward, depthBound)

	case parse.AlternativePath:
		left, err := walkPath(t.Left, s, start, forward, depthBound)
		if err != nil {
			return nil, err
		}
		right, err := walkPath(t.Right, s, start, forward, depthBound)
		if err != nil {
			return nil, err
		}
		return dedupeTerms(append(left, right...)), nil

	case parse.ZeroOrOnePath:
		inner, err := walkPath(t.Inner, s, start, forward, depthBound)
		if err != nil {
			return nil, err
		}
		return dedupeTerms(append([]rdf.Term{start}, inner...)), nil

	case parse.OneOrMorePath:
		return bfsClosure(t.Inner, s, start, forward, depthBound, false)

	case parse.ZeroOrMorePath:
		return bfsClosure(t.Inner, s, start, forward, depthBound, true)
	}
	return nil, nil
}

func stepPredicate(t parse.PredicatePath, s store.Store, start rdf.Term, forward bool) []rdf.Term {
	var predPtr *rdf.Term
	if t.Term.Kind != parse.TermVar {
		v := t.Term.Value
		predPtr = &v
	}
	var matches []rdf.Triple
	if forward {
		matches = s.Match(&start, predPtr, nil)
	} else {
		matches = s.Match(nil, predPtr, &start)
	}
	out := make([]rdf.Term, len(matches))
	for i, m := range matches {
		if forward {
			out[i] = m.Object
		} else {
			out[i] = m.Subject
		}
	}
	return out
}

func walkSequence(t parse.SequencePath, s store.Store, start rdf.Term, forward bool, depthBound int) ([]rdf.Term, error) {
	first, second := t.Left, t.Right
	if !forward {
		first, second = t.Right, t.Left
	}
	mids, err := walkPath(first, s, start, forward, depthBound)
	if err != nil {
		return nil, err
	}
	var out []rdf.Term
	for _, mid := range mids {
		ends, err := walkPath(second, s, mid, forward, depthBound)
		if err != nil {
			return nil, err
		}
		out = append(out, ends...)
	}
	return dedupeTerms(out), nil
}

func bfsClosure(inner parse.Path, s store.Store, start rdf.Term, forward bool, depthBound int, includeStart bool) ([]rdf.Term, error) {
	// start is only pre-marked visited when it has already been emitted
	// (the * case's reflexive step). For the + case a path that returns
	// to start — including a direct self-loop — must still be
	// discoverable and emitted exactly once (spec.md §4.H), so start
	// starts unvisited and is added to visited/out the first time the
	// BFS actually reaches it.
	visited := map[rdf.Term]bool{}
	frontier := []rdf.Term{start}
	var out []rdf.Term
	if includeStart {
		visited[start] = true
		out = append(out, start)
	}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= depthBound {
			return nil, rdf.ErrPathDepthExceeded.New(depthBound)
		}
		var next []rdf.Term
		for _, node := range frontier {
			neighbors, err := walkPath(inner, s, node, forward, depthBound)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					out = append(out, n)
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return out, nil
}

func dedupeTerms(in []rdf.Term) []rdf.Term {
	seen := map[rdf.Term]bool{}
	var out []rdf.Term
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// allNodes returns every term that appears as a subject or object
// anywhere in s, the candidate universe for a path pattern whose
// endpoints are both unbound variables.
func allNodes(s store.Store) []rdf.Term {
	return dedupeTerms(append(s.Subjects(), s.Objects()...))
}
