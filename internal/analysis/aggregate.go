package analysis

import (
	"math"
	"sort"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pct returns part/whole*100, or 0 when whole is zero
func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// meanAcc accumulates a running mean over non-null values
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.n++
}

func (m *meanAcc) addIf(v float64, ok bool) {
	if ok {
		m.add(v)
	}
}

func (m meanAcc) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// counter keeps value counts plus first-seen order for stable ranking
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) all() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// top returns the n most frequent keys; ties keep first-seen order
func (c *counter) top(n int) map[string]int {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = c.counts[k]
	}
	return out
}

func countValues(col textColumn) map[string]int {
	c := newCounter()
	for _, v := range col.vals {
		c.add(v)
	}
	return c.all()
}

// groups maps a key to its row indices, preserving first-seen key order
type groups struct {
	rows  map[string][]int
	order []string
}

func groupBy(col textColumn) groups {
	g := groups{rows: map[string][]int{}}
	if !col.present {
		return g
	}
	for i, k := range col.vals {
		if k == "" {
			continue
		}
		if _, ok := g.rows[k]; !ok {
			g.order = append(g.order, k)
		}
		g.rows[k] = append(g.rows[k], i)
	}
	return g
}
