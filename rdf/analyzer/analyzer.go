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

package analyzer

import (
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/store"
)

// Optimize rewrites a translated algebra tree into an equivalent,
// cheaper-to-evaluate one (spec.md §4.F). It runs filter push-down
// twice: the first pass can expose a Join that was previously hidden
// inside a filtered subtree, which the second pass then pushes into.
func Optimize(n plan.Node, s store.Store) (plan.Node, error) {
	n, err := ReorderBgps(n, s)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 2; i++ {
		n, err = PushdownFilters(n)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
