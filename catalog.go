// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeconf

import (
	"sort"

	"github.com/gogpu/pipeconf/gfx"
)

// catalog maps shader names to pipeline handles. Handles are weak: the
// registry owns their destruction. Not safe for concurrent use; Library
// guards it.
type catalog struct {
	entries map[string]gfx.Pipeline
}

func newCatalog() *catalog {
	return &catalog{entries: make(map[string]gfx.Pipeline)}
}

// put installs p under name and returns the handle it replaced, if any.
func (c *catalog) put(name string, p gfx.Pipeline) (gfx.Pipeline, bool) {
	old, ok := c.entries[name]
	c.entries[name] = p
	return old, ok
}

func (c *catalog) get(name string) (gfx.Pipeline, bool) {
	p, ok := c.entries[name]
	return p, ok
}

func (c *catalog) names() []string {
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *catalog) size() int { return len(c.entries) }

func (c *catalog) reset() { clear(c.entries) }
