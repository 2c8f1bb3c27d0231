package ir

// This file collects the structural Equal methods the diff engine uses to
// decide whether a matched pair needs an intra-object diff at all must be []). Each Equal method
// compares every field that participates in identity; RenamedFrom is never
// compared (it is a lookup key, not ownership) which
// is why callers normally compare ToKey() results rather than the raw
// struct.

func exprEq(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func stringsEq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func constraintOptionsEq(a, b *ConstraintOptions) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal compares two columns structurally, ignoring Position and
// RenamedFrom (the diff engine computes position hints separately; RenamedFrom is
// a lookup key).
func (c Column) Equal(o Column) bool {
	if !c.Name.Equal(o.Name) {
		return false
	}
	if c.DataType != o.DataType || c.NotNull != o.NotNull {
		return false
	}
	if !exprEq(c.Default, o.Default) {
		return false
	}
	if (c.Identity == nil) != (o.Identity == nil) {
		return false
	}
	if c.Identity != nil && *c.Identity != *o.Identity {
		return false
	}
	if (c.Generated == nil) != (o.Generated == nil) {
		return false
	}
	if c.Generated != nil && (c.Generated.Kind != o.Generated.Kind || !c.Generated.Expr.Equal(o.Generated.Expr)) {
		return false
	}
	if c.Collation != o.Collation || c.Comment != o.Comment {
		return false
	}
	return extrasEq(c.Extras, o.Extras)
}

func extrasEq(a, b ExtrasMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Equal compares two indexes structurally, including the owner and extras
// (callers wanting rename-aware comparison use ToKey() first; the rename
// §4.4.2).
func (i Index) Equal(o Index) bool {
	if !i.Owner.Equal(o.Owner) || i.OwnerKind != o.OwnerKind || !i.Name.Equal(o.Name) {
		return false
	}
	if i.Primary != o.Primary || i.Unique != o.Unique || i.Constraint != o.Constraint {
		return false
	}
	if i.Where != o.Where || i.Clustered != o.Clustered {
		return false
	}
	if !constraintOptionsEq(i.Deferrable, o.Deferrable) {
		return false
	}
	if !stringsEq(i.Included, o.Included) {
		return false
	}
	if len(i.Columns) != len(o.Columns) {
		return false
	}
	for k := range i.Columns {
		if i.Columns[k] != o.Columns[k] {
			return false
		}
	}
	if len(i.Options) != len(o.Options) {
		return false
	}
	for k := range i.Options {
		if i.Options[k].Name != o.Options[k].Name || !i.Options[k].Value.Equal(o.Options[k].Value) {
			return false
		}
	}
	return extrasEq(i.Extras, o.Extras)
}

// Equal compares two foreign keys structurally. ConstraintName
// participates in equality: a rename of the constraint alone is still a
// change (there is no "rename a foreign key" primitive in the diff
// operation sum).
func (f ForeignKey) Equal(o ForeignKey) bool {
	return f.ConstraintName == o.ConstraintName &&
		stringsEq(f.Columns, o.Columns) &&
		f.ReferenceTable.Equal(o.ReferenceTable) &&
		stringsEq(f.ReferenceColumns, o.ReferenceColumns) &&
		f.OnDelete == o.OnDelete &&
		f.OnUpdate == o.OnUpdate &&
		f.NotForReplication == o.NotForReplication &&
		constraintOptionsEq(f.Deferrable, o.Deferrable)
}

// Equal compares two check constraints by name and expression; spec
// §4.4.7 diffs checks by (name match, expression difference), so name
// equality here is the identity the caller already matched on and
// expression equality (structural, or dialect-relaxed via
// equivalence.ExprsEquivalent at the call site) is the payload.
func (c CheckDefinition) Equal(o CheckDefinition) bool {
	return c.Name == o.Name && c.Expr.Equal(o.Expr) &&
		c.NoInherit == o.NoInherit && c.NotForReplication == o.NotForReplication
}

func (e ExclusionConstraint) Equal(o ExclusionConstraint) bool {
	if e.Name != o.Name || e.Where != o.Where || e.Using != o.Using {
		return false
	}
	if len(e.Elements) != len(o.Elements) {
		return false
	}
	for i := range e.Elements {
		if e.Elements[i].Operator != o.Elements[i].Operator || !e.Elements[i].Expr.Equal(o.Elements[i].Expr) {
			return false
		}
	}
	return true
}

func (p PartitionDescriptor) Equal(o PartitionDescriptor) bool {
	if p.Strategy != o.Strategy || !stringsEq(p.Columns, o.Columns) {
		return false
	}
	if len(p.Elements) != len(o.Elements) {
		return false
	}
	for i := range p.Elements {
		if p.Elements[i] != o.Elements[i] {
			return false
		}
	}
	return true
}

// Equal compares two tables' name plus columns, primary key, foreign keys,
// checks, exclusions, options and partition.
// RenamedFrom is excluded.
func (t Table) Equal(o Table) bool {
	if !t.Name.Equal(o.Name) {
		return false
	}
	if len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Columns {
		if !t.Columns[i].Equal(o.Columns[i]) {
			return false
		}
	}
	if (t.PrimaryKey == nil) != (o.PrimaryKey == nil) {
		return false
	}
	if t.PrimaryKey != nil && !t.PrimaryKey.Equal(*o.PrimaryKey) {
		return false
	}
	if len(t.ForeignKeys) != len(o.ForeignKeys) {
		return false
	}
	for i := range t.ForeignKeys {
		if !t.ForeignKeys[i].Equal(o.ForeignKeys[i]) {
			return false
		}
	}
	if len(t.Checks) != len(o.Checks) {
		return false
	}
	for i := range t.Checks {
		if !t.Checks[i].Equal(o.Checks[i]) {
			return false
		}
	}
	if len(t.Exclusions) != len(o.Exclusions) {
		return false
	}
	for i := range t.Exclusions {
		if !t.Exclusions[i].Equal(o.Exclusions[i]) {
			return false
		}
	}
	if len(t.Options) != len(o.Options) {
		return false
	}
	for k, v := range t.Options {
		if ov, ok := o.Options[k]; !ok || ov != v {
			return false
		}
	}
	if (t.Partition == nil) != (o.Partition == nil) {
		return false
	}
	if t.Partition != nil && !t.Partition.Equal(*o.Partition) {
		return false
	}
	return true
}
