// Package stateconfig loads the runtime generator/diff configuration
// (enable_drop, schema_search_path, target/skip filters) from YAML, the way
// sqldef's database.ParseGeneratorConfig/MergeGeneratorConfig do. This
// is distinct from the out-of-scope YAML test-case loader: it configures a
// single diff run, not a suite of fixtures.
package stateconfig

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/equivalence"
	"github.com/sqldef/stateql/stateerr"
)

// RuntimeConfig is the generator configuration the diff engine's Config comes
// from, plus the filters and privilege scope the orchestrator needs before
// it ever builds a diff.Config.
type RuntimeConfig struct {
	TargetTables      []string
	SkipTables        []string
	SkipViews         []string
	TargetSchema      []string
	SchemaSearchPath  []string
	Algorithm         string
	Lock              string
	DumpConcurrency   int
	IncludePrivileges []string // roles for which to manage privileges
	EnableDrop        bool
	PolicyName        string // dialect equivalence policy override, "" means the dialect default
}

// DiffConfig narrows RuntimeConfig down to what package diff needs to run.
// policy is passed through unchanged as diff.Config.Policy; PolicyName is
// not consulted here. A nil policy means strict structural equality only.
func (c RuntimeConfig) DiffConfig(policy equivalence.Policy) diff.Config {
	return diff.Config{
		EnableDrop:       c.EnableDrop,
		SchemaSearchPath: c.SchemaSearchPath,
		Policy:           policy,
	}
}

// ParseString parses a runtime config from an in-memory YAML document; an
// empty string yields the zero RuntimeConfig, matching sqldef's
// ParseGeneratorConfigString("") == GeneratorConfig{} behavior.
func ParseString(yamlDoc string) (RuntimeConfig, error) {
	if yamlDoc == "" {
		return RuntimeConfig{}, nil
	}
	return parseFromBytes([]byte(yamlDoc))
}

// Parse reads and parses a runtime config file; an empty path yields the
// zero RuntimeConfig so callers can pass an optional --config flag through
// unconditionally.
func Parse(configFile string) (RuntimeConfig, error) {
	if configFile == "" {
		return RuntimeConfig{}, nil
	}
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return RuntimeConfig{}, stateerr.FromIO(fmt.Errorf("read config %s: %w", configFile, err))
	}
	return parseFromBytes(buf)
}

// yamlDoc mirrors sqldef's newline-separated-list convention for every
// multi-valued field (target_tables, skip_tables, ...): one entry per line
// rather than a YAML sequence, so existing sqldef config files keep working
// unmodified for the fields stateql shares with it.
type yamlDoc struct {
	TargetTables      string `yaml:"target_tables"`
	SkipTables        string `yaml:"skip_tables"`
	SkipViews         string `yaml:"skip_views"`
	TargetSchema      string `yaml:"target_schema"`
	SchemaSearchPath  string `yaml:"schema_search_path"`
	Algorithm         string `yaml:"algorithm"`
	Lock              string `yaml:"lock"`
	DumpConcurrency   int    `yaml:"dump_concurrency"`
	IncludePrivileges string `yaml:"include_privileges"`
	EnableDrop        bool   `yaml:"enable_drop"`
	Policy            string `yaml:"equivalence_policy"`
}

func parseFromBytes(buf []byte) (RuntimeConfig, error) {
	var doc yamlDoc
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.SetStrict(true)
	if err := dec.Decode(&doc); err != nil {
		return RuntimeConfig{}, stateerr.FromConfig(fmt.Errorf("parse config: %w", err))
	}
	return RuntimeConfig{
		TargetTables:      splitLines(doc.TargetTables),
		SkipTables:        splitLines(doc.SkipTables),
		SkipViews:         splitLines(doc.SkipViews),
		TargetSchema:      splitLines(doc.TargetSchema),
		SchemaSearchPath:  splitLines(doc.SchemaSearchPath),
		Algorithm:         strings.Trim(doc.Algorithm, "\n"),
		Lock:              strings.Trim(doc.Lock, "\n"),
		DumpConcurrency:   doc.DumpConcurrency,
		IncludePrivileges: splitLines(doc.IncludePrivileges),
		EnableDrop:        doc.EnableDrop,
		PolicyName:        strings.Trim(doc.Policy, "\n"),
	}, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.Trim(s, "\n"), "\n")
}

// Merge combines configs with override taking precedence field-by-field,
// matching database.MergeGeneratorConfig's "nil/zero means unset" rule. A
// CLI flag (override) beats a config file (base); a config file beats the
// RuntimeConfig{} zero value.
func Merge(base, override RuntimeConfig) RuntimeConfig {
	result := base
	if override.TargetTables != nil {
		result.TargetTables = override.TargetTables
	}
	if override.SkipTables != nil {
		result.SkipTables = override.SkipTables
	}
	if override.SkipViews != nil {
		result.SkipViews = override.SkipViews
	}
	if override.TargetSchema != nil {
		result.TargetSchema = override.TargetSchema
	}
	if override.SchemaSearchPath != nil {
		result.SchemaSearchPath = override.SchemaSearchPath
	}
	if override.Algorithm != "" {
		result.Algorithm = override.Algorithm
	}
	if override.Lock != "" {
		result.Lock = override.Lock
	}
	if override.DumpConcurrency != 0 {
		result.DumpConcurrency = override.DumpConcurrency
	}
	if override.IncludePrivileges != nil {
		result.IncludePrivileges = override.IncludePrivileges
	}
	if override.EnableDrop {
		result.EnableDrop = override.EnableDrop
	}
	if override.PolicyName != "" {
		result.PolicyName = override.PolicyName
	}
	return result
}

// MergeAll folds a sequence of configs left to right, each taking
// precedence over everything before it — e.g. [defaults, file, CLI flags].
func MergeAll(configs ...RuntimeConfig) RuntimeConfig {
	var result RuntimeConfig
	for _, c := range configs {
		result = Merge(result, c)
	}
	return result
}

// TableTargeted reports whether name passes the target/skip table filters:
// empty TargetTables means "all tables", and SkipTables always wins even
// over an explicit TargetTables entry.
func (c RuntimeConfig) TableTargeted(name string) bool {
	for _, skip := range c.SkipTables {
		if skip == name {
			return false
		}
	}
	if len(c.TargetTables) == 0 {
		return true
	}
	for _, t := range c.TargetTables {
		if t == name {
			return true
		}
	}
	return false
}

// ViewTargeted mirrors TableTargeted for the skip_views filter, which spec
// §4.4's view diff has no "target" counterpart for (only skip).
func (c RuntimeConfig) ViewTargeted(name string) bool {
	for _, skip := range c.SkipViews {
		if skip == name {
			return false
		}
	}
	return true
}
