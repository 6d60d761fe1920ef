/*
Copyright © 2026 the SPA authors.
This file is part of SPA.

SPA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SPA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SPA.  If not, see <http://www.gnu.org/licenses/>.
*/

package spa

import (
	"fmt"

	"github.com/ctessum/sparse"
	lru "github.com/hashicorp/golang-lru/v2"
)

type readKey struct {
	variable string
	t        int
}

// CachedSource is a Source that keeps recently read variables in memory,
// so that the month shared by consecutive begin/end pairs is read from
// the underlying source only once. Arrays returned by Read are shared
// and must not be modified.
type CachedSource struct {
	Source
	cache   *lru.Cache[readKey, *sparse.DenseArray]
	metrics *Metrics
}

// NewCachedSource wraps src in a cache holding up to size variable
// records. m may be nil.
func NewCachedSource(src Source, size int, m *Metrics) (*CachedSource, error) {
	c, err := lru.New[readKey, *sparse.DenseArray](size)
	if err != nil {
		return nil, fmt.Errorf("spa: creating read cache: %w", err)
	}
	return &CachedSource{Source: src, cache: c, metrics: m}, nil
}

// Read implements Source.
func (c *CachedSource) Read(variable string, t int) (*sparse.DenseArray, error) {
	k := readKey{variable: variable, t: t}
	if a, ok := c.cache.Get(k); ok {
		c.metrics.cache(true)
		return a, nil
	}
	c.metrics.cache(false)
	a, err := c.Source.Read(variable, t)
	if err != nil {
		return nil, err
	}
	c.cache.Add(k, a)
	return a, nil
}

// Len returns the number of cached variable records.
func (c *CachedSource) Len() int { return c.cache.Len() }
