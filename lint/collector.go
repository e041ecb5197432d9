// Copyright © 2024 The pystyle authors

package lint

import "sort"

// LineDiagnostics holds the diagnostics attached to one line.
type LineDiagnostics struct {
	Line        int
	Diagnostics []Diagnostic
}

// Collector gathers the diagnostics of one file keyed by line.
type Collector struct {
	lines map[int][]Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{lines: make(map[int][]Diagnostic)}
}

// Record attaches d to line.
func (c *Collector) Record(line int, d Diagnostic) {
	d.Pos.Line = line
	c.lines[line] = append(c.lines[line], d)
}

// Len returns the number of recorded diagnostics, duplicates included.
func (c *Collector) Len() int {
	n := 0
	for _, diags := range c.lines {
		n += len(diags)
	}
	return n
}

// Filter removes the diagnostics for which keep returns false.  Lines left
// without diagnostics are dropped.
func (c *Collector) Filter(keep func(Diagnostic) bool) {
	for line, diags := range c.lines {
		kept := diags[:0]
		for _, d := range diags {
			if keep(d) {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			delete(c.lines, line)
		} else {
			c.lines[line] = kept
		}
	}
}

// Finalize returns the populated lines in ascending order.  Within a line,
// diagnostics with the same code and message appear once and are sorted by
// code and then message.
func (c *Collector) Finalize() []LineDiagnostics {
	nums := make([]int, 0, len(c.lines))
	for line := range c.lines {
		nums = append(nums, line)
	}
	sort.Ints(nums)

	result := make([]LineDiagnostics, 0, len(nums))
	for _, line := range nums {
		seen := make(map[string]bool)
		var diags []Diagnostic
		for _, d := range c.lines[line] {
			if seen[d.key()] {
				continue
			}
			seen[d.key()] = true
			diags = append(diags, d)
		}
		sort.SliceStable(diags, func(i, j int) bool {
			return diags[i].key() < diags[j].key()
		})
		result = append(result, LineDiagnostics{Line: line, Diagnostics: diags})
	}
	return result
}
