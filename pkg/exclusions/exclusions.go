// Package exclusions implements the administrative change-exemption
// registry: plate/field/user/date tuples that exempt a blank-to-value
// data change from being counted as a declined change, matching
// exclusions.c/.h in the original toolkit.
package exclusions

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Exclusion is one plate/field/user/date exemption entry.
type Exclusion struct {
	Plate int
	Field int
	User  string
	Date  string // normalized to YYYYMMDD
}

// Registry holds the loaded exclusions, matched in registration order.
type Registry struct {
	entries []Exclusion
}

// NewRegistry returns an empty exclusion registry. A nil *Registry also
// behaves as empty (IsExcluded always false), so an unset --exclusion flag
// needs no special-casing at call sites.
func NewRegistry() *Registry {
	return &Registry{}
}

// Load reads a pipe-delimited exclusions file: plate|field|user|date per
// line. Lines with fewer than 4 columns, a zero plate/field, an empty
// user, or a date that doesn't normalize to an 8-digit "20YYMMDD" string
// are skipped (matching load_exclusions's validation), not treated as a
// hard parse error.
func Load(r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "|")
		if len(cols) < 4 {
			continue
		}
		plate, _ := strconv.Atoi(strings.TrimSpace(cols[0]))
		field, _ := strconv.Atoi(strings.TrimSpace(cols[1]))
		user := strings.TrimSpace(cols[2])
		date := normalizeDate(cols[3])

		if plate == 0 || field == 0 || user == "" || date == "" {
			continue
		}
		if len(date) != 8 || !strings.HasPrefix(date, "20") {
			continue
		}
		reg.entries = append(reg.entries, Exclusion{
			Plate: plate, Field: field, User: user, Date: date,
		})
	}
	if err := scanner.Err(); err != nil {
		return reg, err
	}
	return reg, nil
}

// normalizeDate strips slashes and carriage returns, matching the
// original's in-place "/" and "\r" removal.
func normalizeDate(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '/' || c == '\r' {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// IsExcluded reports whether plate+field+user+date match a loaded
// exclusion AND the old value position is empty — exclusions only exempt
// blank-to-value transitions, matching is_excluded.
func (r *Registry) IsExcluded(plate, field int, user, date, oldValue string) bool {
	if r == nil || oldValue != "" {
		return false
	}
	return lo.ContainsBy(r.entries, func(e Exclusion) bool {
		return e.Plate == plate && e.Field == field && e.User == user && e.Date == date
	})
}
