// Package ir defines the schema intermediate representation: immutable
// schema objects, identifier and qualified-name types, and the value and
// expression algebra diffed by package diff.
package ir

import "strings"

// Identifier is a (value, quoted) pair, matching sqldef's TableIdent /
// ColIdent split between raw text and quoting. Equality requires both
// components to match; case-folding is a dialect concern (see the
// Normalize hook on dialect.Dialect), never applied here.
type Identifier struct {
	Value  string
	Quoted bool
}

// NewIdentifier builds an unquoted identifier.
func NewIdentifier(value string) Identifier {
	return Identifier{Value: value}
}

// NewQuotedIdentifier builds a quoted identifier.
func NewQuotedIdentifier(value string) Identifier {
	return Identifier{Value: value, Quoted: true}
}

// Equal compares both components.
func (id Identifier) Equal(other Identifier) bool {
	return id.Value == other.Value && id.Quoted == other.Quoted
}

func (id Identifier) String() string {
	return id.Value
}

// IsZero reports whether id is the empty identifier.
func (id Identifier) IsZero() bool {
	return id.Value == "" && !id.Quoted
}

// QualifiedName is (optional schema identifier, name identifier).
type QualifiedName struct {
	Schema Identifier // zero value means "unqualified"
	Name   Identifier
}

// NewQualifiedName builds an unqualified name.
func NewQualifiedName(name string) QualifiedName {
	return QualifiedName{Name: NewIdentifier(name)}
}

// NewSchemaQualifiedName builds a schema-qualified name.
func NewSchemaQualifiedName(schema, name string) QualifiedName {
	return QualifiedName{Schema: NewIdentifier(schema), Name: NewIdentifier(name)}
}

// HasSchema reports whether the name carries an explicit schema.
func (q QualifiedName) HasSchema() bool {
	return !q.Schema.IsZero()
}

// Equal compares both components exactly (schema and name).
func (q QualifiedName) Equal(other QualifiedName) bool {
	return q.Schema.Equal(other.Schema) && q.Name.Equal(other.Name)
}

// String renders "schema.name" or "name" for diagnostics; it is never used
// as a map key (callers use Key()).
func (q QualifiedName) String() string {
	if q.HasSchema() {
		return q.Schema.Value + "." + q.Name.Value
	}
	return q.Name.Value
}

// Key returns a deterministic string usable as a map key. Two qualified
// names with the same Key() are not necessarily Equal() if quoting differs,
// but the diff engine's name-resolution protocol operates on Key() because
// it must compare across quoted/unquoted spellings of the same identifier
// once the dialect's normalize hook has run (normalize is expected to have
// already collapsed quoting differences that the dialect considers
// equivalent; Key merely flattens the (schema, name) pair for lookups).
func (q QualifiedName) Key() string {
	var b strings.Builder
	if q.HasSchema() {
		b.WriteString(q.Schema.Value)
		b.WriteByte('\x00')
	}
	b.WriteString(q.Name.Value)
	return b.String()
}
