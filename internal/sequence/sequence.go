// Package sequence produces year-scoped sequential record codes of the form
// PREFIX-YY-NNN.
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const padWidth = 3

// Generator derives the next code for one prefix from the codes already
// issued.
type Generator struct {
	Prefix string
	// AcceptLegacy also counts codes written as PREFIX_YY_NNN.
	AcceptLegacy bool

	pattern *regexp.Regexp
}

func NewGenerator(prefix string, acceptLegacy bool) *Generator {
	body := `-(\d{2})-`
	if acceptLegacy {
		body = `(?:-(\d{2})-|_(\d{2})_)`
	}
	pattern := regexp.MustCompile(fmt.Sprintf(`^%s%s(\d{%d,})$`, regexp.QuoteMeta(prefix), body, padWidth))
	return &Generator{Prefix: prefix, AcceptLegacy: acceptLegacy, pattern: pattern}
}

// YearTag returns the two-digit year used in codes issued at t.
func YearTag(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// LikePattern is the SQL LIKE pattern matching this prefix's codes for year.
// In legacy mode "_" is the single-character wildcard, so both separators match.
func (g *Generator) LikePattern(year string) string {
	if g.AcceptLegacy {
		return g.Prefix + "_" + year + "_%"
	}
	return g.Prefix + "-" + year + "-%"
}

// Parse extracts the year tag and sequence number from code. Both separators
// of a code must match and the sequence has at least padWidth digits.
func (g *Generator) Parse(code string) (string, int, bool) {
	m := g.pattern.FindStringSubmatch(code)
	if m == nil {
		return "", 0, false
	}
	// Legacy mode has a second year group for the underscore form
	year := m[1]
	if year == "" && len(m) > 3 {
		year = m[2]
	}
	n, err := strconv.Atoi(m[len(m)-1])
	if err != nil {
		return "", 0, false
	}
	return year, n, true
}

// Format renders the code for year and sequence number n.
func (g *Generator) Format(year string, n int) string {
	return fmt.Sprintf("%s-%s-%0*d", g.Prefix, year, padWidth, n)
}

// Next returns the code following the highest sequence issued in year.
// Codes of other years or prefixes, and malformed codes, are ignored.
func (g *Generator) Next(existing []string, year string) string {
	max := 0
	for _, code := range existing {
		y, n, ok := g.Parse(code)
		if !ok || y != year {
			continue
		}
		if n > max {
			max = n
		}
	}
	return g.Format(year, max+1)
}
