package diff

import "github.com/sqldef/stateql/equivalence"

// Config carries the knobs the diff engine takes: enable_drop,
// schema_search_path, and a shared equivalence policy.
type Config struct {
	EnableDrop       bool
	SchemaSearchPath []string
	Policy           equivalence.Policy
}

func (c Config) policy() equivalence.Policy {
	if c.Policy == nil {
		return equivalence.Strict
	}
	return c.Policy
}
