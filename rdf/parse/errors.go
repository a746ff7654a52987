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

package parse

import (
	"fmt"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

// ErrSyntaxAt wraps rdf.ErrSyntax with a "line:col" position, the
// position information spec.md §4.D and §7 require every parse error
// to carry.
func ErrSyntaxAt(line, col int, msg string) error {
	return rdf.ErrSyntax.New(fmt.Sprintf("%d:%d", line, col), msg)
}
