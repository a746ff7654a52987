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

package rdf

import (
	"sort"

	"github.com/mitchellh/hashstructure"
)

// SolutionMapping is a partial function from variable name to Term, as
// produced by query evaluation (spec.md §3). The zero value is the
// empty mapping, which merges with anything.
type SolutionMapping struct {
	bindings map[string]Term
}

// NewSolutionMapping returns an empty mapping ready to be extended.
func NewSolutionMapping() SolutionMapping {
	return SolutionMapping{bindings: map[string]Term{}}
}

// Get returns the Term bound to name and whether it was bound at all,
// matching the Query service interface's mapping.get(varName) contract
// (spec.md §6).
func (m SolutionMapping) Get(name string) (Term, bool) {
	t, ok := m.bindings[name]
	return t, ok
}

// Vars returns the bound variable names in sorted order, for
// deterministic iteration (spec.md §8 determinism property).
func (m SolutionMapping) Vars() []string {
	out := make([]string, 0, len(m.bindings))
	for k := range m.bindings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of bound variables.
func (m SolutionMapping) Len() int { return len(m.bindings) }

// Extend returns a new mapping with name bound to t. If name was
// already bound to a different term, Extend panics: callers must use
// Merge or check compatibility themselves before extending blindly.
// Binding an already-bound variable to an equal term is a no-op.
func (m SolutionMapping) Extend(name string, t Term) SolutionMapping {
	if existing, ok := m.bindings[name]; ok {
		if existing.Equal(t) {
			return m
		}
		panic("rdf: incompatible rebinding of variable " + name)
	}
	out := m.clone()
	out.bindings[name] = t
	return out
}

// Merge combines two mappings. It succeeds only when every variable
// bound in both m and other binds to an equal Term (spec.md §3); on
// success it returns the union of bindings and ok=true.
func (m SolutionMapping) Merge(other SolutionMapping) (SolutionMapping, bool) {
	out := m.clone()
	for k, v := range other.bindings {
		if existing, ok := out.bindings[k]; ok {
			if !existing.Equal(v) {
				return SolutionMapping{}, false
			}
			continue
		}
		out.bindings[k] = v
	}
	return out, true
}

// Project restricts the mapping to the given variable names.
func (m SolutionMapping) Project(vars []string) SolutionMapping {
	out := NewSolutionMapping()
	for _, v := range vars {
		if t, ok := m.bindings[v]; ok {
			out.bindings[v] = t
		}
	}
	return out
}

// Hash returns a stable hash of the mapping's bindings. Distinct does
// not use it: it deduplicates on an exact key of the bindings, so a
// hash collision cannot merge two distinct solutions.
func (m SolutionMapping) Hash() uint64 {
	vars := m.Vars()
	type kv struct {
		K string
		V string
	}
	pairs := make([]kv, 0, len(vars))
	for _, v := range vars {
		pairs = append(pairs, kv{K: v, V: m.bindings[v].String()})
	}
	h, err := hashstructure.Hash(pairs, nil)
	if err != nil {
		panic(err)
	}
	return h
}

func (m SolutionMapping) clone() SolutionMapping {
	out := make(map[string]Term, len(m.bindings)+1)
	for k, v := range m.bindings {
		out[k] = v
	}
	return SolutionMapping{bindings: out}
}

// NewSolutionMappingFrom builds a mapping from a literal var->Term map,
// primarily for tests.
func NewSolutionMappingFrom(bindings map[string]Term) SolutionMapping {
	m := NewSolutionMapping()
	for k, v := range bindings {
		m = m.Extend(k, v)
	}
	return m
}
