// Package sigconfig holds the signature-configuration registry: one entry
// per "signature" statement in the configuration file, matching eSigConfig
// in the original toolkit.
package sigconfig

import (
	"github.com/samber/lo"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
)

// Config describes one signature configuration: the covered plate and the
// visit range it applies to, the plate/fields that carry the actual
// signature, and which fields on the covered plate are exempt from
// tracking.
type Config struct {
	// Handle is this config's stable registry serial (assigned in
	// registration order, starting at 1, never reused). The relational
	// mirror records it as the signature id; nodes hold a pointer to the
	// Config itself.
	Handle int

	Name string

	Plate        int
	Visits       rangeset.Set
	IgnoreFields rangeset.Set

	SigPlate  int
	SigFields rangeset.Set
}

// NSigFields returns the number of individual signature fields this config
// expects completed, matching eSigConfig.n_sig_fields.
func (c *Config) NSigFields() int {
	return c.SigFields.Width()
}

// Applies reports whether this config governs the given plate/visit/field
// combination: the plate matches, the visit falls in range, and the field
// is not in the ignore list.
func (c *Config) Applies(plate, visit, field int) bool {
	if c.Plate != plate {
		return false
	}
	if !c.Visits.Contains(visit) {
		return false
	}
	if c.IgnoreFields.Contains(field) {
		return false
	}
	return true
}

// Registry is an ordered collection of Configs, in registration order —
// the order in which write_drf/esc_priority_file walk them.
type Registry struct {
	configs []*Config
	serial  int
}

// NewRegistry returns an empty configuration registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a new config to the registry, assigning it the next handle.
func (r *Registry) Add(c *Config) *Config {
	r.serial++
	c.Handle = r.serial
	r.configs = append(r.configs, c)
	return c
}

// All returns the configs in registration order.
func (r *Registry) All() []*Config {
	return r.configs
}

// Matching returns every config applicable to the given plate/visit/field.
func (r *Registry) Matching(plate, visit, field int) []*Config {
	return lo.Filter(r.configs, func(c *Config, _ int) bool {
		return c.Applies(plate, visit, field)
	})
}
