package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqldef/stateql/ir"
)

// ToSQL renders a single schema object for export, under flavor f. It
// covers every ir.SchemaObject variant; new variants must be added here and
// to GenerateGeneric together, since both switches are meant to stay
// exhaustive against ir.ObjectKind.
func ToSQL(f *Flavor, obj ir.SchemaObject) (string, error) {
	switch o := obj.(type) {
	case *ir.Table:
		return tableSQL(f, o), nil
	case *ir.View:
		return fmt.Sprintf("CREATE VIEW %s AS %s", f.QName(o.Name), o.Definition), nil
	case *ir.MaterializedView:
		return fmt.Sprintf("CREATE MATERIALIZED VIEW %s AS %s", f.QName(o.Name), o.Definition), nil
	case *ir.Index:
		return indexSQL(f, o), nil
	case *ir.Sequence:
		return sequenceSQL(f, o), nil
	case *ir.Trigger:
		return triggerSQL(f, o), nil
	case *ir.Function:
		return functionSQL(f, o), nil
	case *ir.TypeDef:
		return typeSQL(f, o), nil
	case *ir.Domain:
		return domainSQL(f, o), nil
	case *ir.Extension:
		v := ""
		if o.Version != "" {
			v = fmt.Sprintf(" VERSION %s", quoteLit(o.Version))
		}
		return fmt.Sprintf("CREATE EXTENSION %s%s", f.Qi(o.Name.Value), v), nil
	case *ir.SchemaDecl:
		return fmt.Sprintf("CREATE SCHEMA %s", f.Qi(o.Name.Value)), nil
	case *ir.Comment:
		return commentSQL(f, o), nil
	case *ir.Privilege:
		return privilegeSQL(f, o), nil
	case *ir.Policy:
		return policySQL(f, o), nil
	default:
		return "", fmt.Errorf("common.ToSQL: unsupported object %T", obj)
	}
}

func quoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func tableSQL(f *Flavor, t *ir.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", f.QName(t.Name))
	var lines []string
	for _, c := range t.Columns {
		lines = append(lines, "  "+ColumnDefSQL(f, c))
	}
	if t.PrimaryKey != nil {
		lines = append(lines, "  PRIMARY KEY ("+joinIdentColumns(t.PrimaryKey.Columns)+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, "  "+foreignKeySQL(f, fk))
	}
	for _, chk := range t.Checks {
		lines = append(lines, "  "+checkSQL(chk))
	}
	for _, ex := range t.Exclusions {
		lines = append(lines, "  "+exclusionSQL(f, ex))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	if t.Partition != nil && len(t.Partition.Columns) > 0 {
		b.WriteString(" PARTITION BY " + partitionStrategyName(t.Partition.Strategy) + " (" + strings.Join(t.Partition.Columns, ", ") + ")")
	}
	return b.String()
}

// ColumnDefSQL renders a single column definition. Exported so sqlite's
// shadow-table rebuild can reuse it without re-deriving column syntax.
func ColumnDefSQL(f *Flavor, c ir.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", f.Qi(c.Name.Value), c.DataType)
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT " + RenderExpr(*c.Default))
	}
	if c.Identity != nil {
		if f.AutoIncrementClause != nil {
			if clause := f.AutoIncrementClause(c.Identity); clause != "" {
				b.WriteString(" " + clause)
			}
		} else {
			behavior := strings.ToUpper(c.Identity.Behavior)
			if behavior == "" {
				behavior = "BY DEFAULT"
			}
			b.WriteString(fmt.Sprintf(" GENERATED %s AS IDENTITY", behavior))
		}
	}
	if c.Generated != nil {
		kind := "VIRTUAL"
		if c.Generated.Kind == ir.GeneratedStored {
			kind = "STORED"
		}
		fmt.Fprintf(&b, " GENERATED ALWAYS AS (%s) %s", RenderExpr(c.Generated.Expr), kind)
	}
	if c.Collation != "" {
		b.WriteString(" COLLATE " + c.Collation)
	}
	return b.String()
}

func joinIdentColumns(cols []ir.IndexColumn) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		d := ""
		if c.Direction == ir.DirectionDesc {
			d = " DESC"
		}
		parts[i] = c.Column + d
	}
	return strings.Join(parts, ", ")
}

func foreignKeySQL(f *Flavor, fk ir.ForeignKey) string {
	var b strings.Builder
	if fk.ConstraintName != "" {
		fmt.Fprintf(&b, "CONSTRAINT %s ", f.Qi(fk.ConstraintName))
	}
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)",
		strings.Join(quoteAll(f, fk.Columns), ", "), f.QName(fk.ReferenceTable), strings.Join(quoteAll(f, fk.ReferenceColumns), ", "))
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE " + fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + fk.OnUpdate)
	}
	if fk.Deferrable != nil && fk.Deferrable.Deferrable {
		b.WriteString(" DEFERRABLE")
		if fk.Deferrable.InitiallyDeferred {
			b.WriteString(" INITIALLY DEFERRED")
		}
	}
	return b.String()
}

func quoteAll(f *Flavor, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = f.Qi(n)
	}
	return out
}

func checkSQL(c ir.CheckDefinition) string {
	var b strings.Builder
	if c.Name != "" {
		fmt.Fprintf(&b, "CONSTRAINT %s ", c.Name)
	}
	fmt.Fprintf(&b, "CHECK (%s)", RenderExpr(c.Expr))
	if c.NoInherit {
		b.WriteString(" NO INHERIT")
	}
	return b.String()
}

func exclusionSQL(f *Flavor, ex ir.ExclusionConstraint) string {
	var b strings.Builder
	if ex.Name != "" {
		fmt.Fprintf(&b, "CONSTRAINT %s ", ex.Name)
	}
	b.WriteString("EXCLUDE ")
	if ex.Using != "" {
		fmt.Fprintf(&b, "USING %s ", ex.Using)
	}
	parts := make([]string, len(ex.Elements))
	for i, el := range ex.Elements {
		parts[i] = fmt.Sprintf("%s WITH %s", RenderExpr(el.Expr), el.Operator)
	}
	fmt.Fprintf(&b, "(%s)", strings.Join(parts, ", "))
	if ex.Where != "" {
		b.WriteString(" WHERE (" + ex.Where + ")")
	}
	return b.String()
}

func partitionStrategyName(s ir.PartitionStrategy) string {
	switch s {
	case ir.PartitionRange:
		return "RANGE"
	case ir.PartitionList:
		return "LIST"
	case ir.PartitionHash:
		return "HASH"
	default:
		return "RANGE"
	}
}

func indexSQL(f *Flavor, idx *ir.Index) string {
	var b strings.Builder
	if idx.Constraint {
		kw := "UNIQUE"
		if idx.Primary {
			kw = "PRIMARY KEY"
		}
		fmt.Fprintf(&b, "ALTER TABLE %s ADD CONSTRAINT %s %s (%s)", f.QName(idx.Owner), f.Qi(idx.Name.Value), kw, joinIdentColumns(idx.Columns))
		return b.String()
	}
	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX %s ON %s (%s)", f.Qi(idx.Name.Value), f.QName(idx.Owner), joinIdentColumns(idx.Columns))
	if idx.Where != "" {
		b.WriteString(" WHERE " + idx.Where)
	}
	return b.String()
}

func sequenceSQL(f *Flavor, s *ir.Sequence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE SEQUENCE %s", f.QName(s.Name))
	if s.DataType != "" {
		b.WriteString(" AS " + s.DataType)
	}
	writeOptInt(&b, " INCREMENT BY ", s.IncrementBy)
	if s.NoMinValue {
		b.WriteString(" NO MINVALUE")
	} else {
		writeOptInt(&b, " MINVALUE ", s.MinValue)
	}
	if s.NoMaxValue {
		b.WriteString(" NO MAXVALUE")
	} else {
		writeOptInt(&b, " MAXVALUE ", s.MaxValue)
	}
	writeOptInt(&b, " START WITH ", s.StartWith)
	writeOptInt(&b, " CACHE ", s.Cache)
	if s.Cycle {
		b.WriteString(" CYCLE")
	}
	if s.OwnedBy != "" {
		b.WriteString(" OWNED BY " + s.OwnedBy)
	}
	return b.String()
}

func writeOptInt(b *strings.Builder, prefix string, v *int64) {
	if v == nil {
		return
	}
	b.WriteString(prefix + strconv.FormatInt(*v, 10))
}

func triggerSQL(f *Flavor, t *ir.Trigger) string {
	return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW %s",
		f.Qi(t.Name.Value), strings.ToUpper(t.Timing), strings.Join(t.Events, " OR "), f.QName(t.Table), t.Body)
}

func functionSQL(f *Flavor, fn *ir.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE FUNCTION %s(%s)", f.QName(fn.Name), fn.Args)
	if fn.ReturnType != "" {
		b.WriteString(" RETURNS " + fn.ReturnType)
	}
	if fn.Language != "" {
		b.WriteString(" LANGUAGE " + fn.Language)
	}
	b.WriteString(" AS " + quoteLit(fn.Body))
	return b.String()
}

func typeSQL(f *Flavor, t *ir.TypeDef) string {
	if t.Kind == ir.TypeKindEnum {
		vals := make([]string, len(t.EnumValues))
		for i, v := range t.EnumValues {
			vals[i] = quoteLit(v)
		}
		return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", f.QName(t.Name), strings.Join(vals, ", "))
	}
	return fmt.Sprintf("CREATE TYPE %s AS ()", f.QName(t.Name))
}

func domainSQL(f *Flavor, d *ir.Domain) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE DOMAIN %s AS %s", f.QName(d.Name), d.BaseType)
	if d.NotNull {
		b.WriteString(" NOT NULL")
	}
	if d.Default != nil {
		b.WriteString(" DEFAULT " + RenderExpr(*d.Default))
	}
	for _, chk := range d.Checks {
		b.WriteString(" " + checkSQL(chk))
	}
	return b.String()
}

func commentSQL(f *Flavor, c *ir.Comment) string {
	var target string
	switch c.TargetKind {
	case ir.CommentOnTable:
		target = "TABLE " + f.QName(c.Target)
	case ir.CommentOnColumn:
		target = "COLUMN " + c.Target.Name.Value
	case ir.CommentOnView:
		target = "VIEW " + f.QName(c.Target)
	case ir.CommentOnIndex:
		target = "INDEX " + f.QName(c.Target)
	}
	return fmt.Sprintf("COMMENT ON %s IS %s", target, quoteLit(c.Text))
}

func privilegeSQL(f *Flavor, p *ir.Privilege) string {
	ops := make([]string, len(p.Operations))
	for i, o := range p.Operations {
		ops[i] = string(o)
	}
	return fmt.Sprintf("GRANT %s ON %s TO %s", strings.Join(ops, ", "), f.QName(p.Object), p.Grantee)
}

func policySQL(f *Flavor, p *ir.Policy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE POLICY %s ON %s", f.Qi(p.Name.Value), f.QName(p.Table))
	if p.Permissive != "" {
		b.WriteString(" AS " + p.Permissive)
	}
	if p.Scope != "" {
		b.WriteString(" FOR " + p.Scope)
	}
	if len(p.Roles) > 0 {
		b.WriteString(" TO " + strings.Join(p.Roles, ", "))
	}
	if p.Using != "" {
		b.WriteString(" USING (" + p.Using + ")")
	}
	if p.WithCheck != "" {
		b.WriteString(" WITH CHECK (" + p.WithCheck + ")")
	}
	return b.String()
}

// Normalize applies the flavor's case-folding rule to every identifier an
// object carries, the way each dialect's export/parse path is expected to
// agree on a single canonical case before objects are compared. Dialects
// with no folding (the common case: Postgres/SQLite are case-sensitive once
// quoting is accounted for) pass a nil FoldCase and this is a no-op.
func Normalize(f *Flavor, obj ir.SchemaObject) {
	if f.FoldCase == nil {
		return
	}
	switch o := obj.(type) {
	case *ir.Table:
		o.Name = foldQName(f, o.Name)
		for i := range o.Columns {
			o.Columns[i].Name = foldIdent(f, o.Columns[i].Name)
		}
	case *ir.View:
		o.Name = foldQName(f, o.Name)
	case *ir.MaterializedView:
		o.Name = foldQName(f, o.Name)
	case *ir.Index:
		o.Owner = foldQName(f, o.Owner)
		o.Name = foldIdent(f, o.Name)
	case *ir.Sequence:
		o.Name = foldQName(f, o.Name)
	case *ir.Trigger:
		o.Table = foldQName(f, o.Table)
		o.Name = foldIdent(f, o.Name)
	case *ir.Function:
		o.Name = foldQName(f, o.Name)
	case *ir.TypeDef:
		o.Name = foldQName(f, o.Name)
	case *ir.Domain:
		o.Name = foldQName(f, o.Name)
	case *ir.SchemaDecl:
		o.Name = foldIdent(f, o.Name)
	case *ir.Policy:
		o.Table = foldQName(f, o.Table)
		o.Name = foldIdent(f, o.Name)
	}
}

func foldIdent(f *Flavor, id ir.Identifier) ir.Identifier {
	if id.Quoted {
		return id
	}
	return ir.Identifier{Value: f.FoldCase(id.Value), Quoted: id.Quoted}
}

func foldQName(f *Flavor, q ir.QualifiedName) ir.QualifiedName {
	return ir.QualifiedName{Schema: foldIdent(f, q.Schema), Name: foldIdent(f, q.Name)}
}
