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
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Context wraps a context.Context with the fields every blocking call
// in this module threads through explicitly, mirroring sql.Context in
// the teacher: a logger instead of a package-level singleton, and a
// session id for log correlation. Passed by value is not safe; always
// pass *Context, the way sql.Context is passed.
type Context struct {
	context.Context
	SessionID string
	Log       *logrus.Entry
}

// NewContext wraps ctx with the given session id and a default logger
// tagged with it. A query deadline comes from ctx itself or from
// WithTimeout.
func NewContext(ctx context.Context, sessionID string) *Context {
	return &Context{
		Context:   ctx,
		SessionID: sessionID,
		Log:       logrus.WithField("session", sessionID),
	}
}

// NewEmptyContext returns a Context over context.Background(), for
// tests and simple library use, mirroring sql.NewEmptyContext.
func NewEmptyContext() *Context {
	return NewContext(context.Background(), "")
}

// WithTimeout returns a derived Context whose deadline is d from now,
// and the cancel func the caller must invoke to release resources.
func (c *Context) WithTimeout(d time.Duration) (*Context, context.CancelFunc) {
	inner, cancel := context.WithTimeout(c.Context, d)
	return &Context{Context: inner, SessionID: c.SessionID, Log: c.Log}, cancel
}
