package common

import (
	"fmt"
	"strings"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/ir"
	"github.com/sqldef/stateql/stateerr"
	"github.com/sqldef/stateql/stateexec"
)

// GenerateGeneric turns a planned op sequence into the Statement stream,
// under flavor f. It is the shared body behind postgres/mysql/mssql's
// GenerateDDL; sqlite does not call this for column/constraint-altering ops
// (see dialect/sqlite/rebuild.go) since SQLite cannot express those via
// ALTER TABLE at all, but it reuses this for every op SQLite can render
// directly (table/view/index/sequence create-drop, and the handful of
// ALTER TABLE forms SQLite does support).
func GenerateGeneric(dialectName string, ops []diff.Op, f *Flavor) ([]stateexec.Statement, error) {
	var out []stateexec.Statement
	txn := f.SupportsTransactionalDDL
	for _, op := range ops {
		stmts, err := generateOne(dialectName, op, f)
		if err != nil {
			return nil, err
		}
		for _, s := range stmts {
			out = append(out, sqlStmt(s, txn))
		}
	}
	return out, nil
}

func generateOne(dialectName string, op diff.Op, f *Flavor) ([]string, error) {
	switch o := op.(type) {
	case diff.CreateTable:
		return []string{tableSQL(f, o.Table)}, nil
	case diff.DropTable:
		return []string{"DROP TABLE " + f.QName(o.Name)}, nil
	case diff.RenameTable:
		return []string{f.renameTableSQL(o.From, o.To)}, nil
	case diff.AlterTableOptions:
		return alterTableOptionsSQL(f, o), nil

	case diff.AddColumn:
		clause := "ALTER TABLE " + f.QName(o.Table) + " ADD COLUMN " + ColumnDefSQL(f, o.Column)
		if f.AddColumnAfterClause != nil {
			clause += f.AddColumnAfterClause(o.After)
		}
		return []string{clause}, nil
	case diff.DropColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", f.QName(o.Table), f.Qi(o.Column.Value))}, nil
	case diff.RenameColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", f.QName(o.Table), f.Qi(o.From.Value), f.Qi(o.To.Value))}, nil
	case diff.AlterColumn:
		if f.AlterColumnSQL == nil {
			return nil, stateerr.FromGenerate(&stateerr.GenerateError{DiffOp: "AlterColumn", Target: o.Column.Value, Dialect: dialectName})
		}
		stmts, ok := f.AlterColumnSQL(f, o.Table, ir.Column{Name: o.Column}, o.Changes)
		if !ok {
			return nil, stateerr.FromGenerate(&stateerr.GenerateError{DiffOp: "AlterColumn", Target: o.Column.Value, Dialect: dialectName})
		}
		return stmts, nil

	case diff.AddIndex:
		return []string{indexSQL(f, o.Index)}, nil
	case diff.DropIndex:
		return []string{dropIndexSQL(f, o)}, nil
	case diff.RenameIndex:
		return []string{fmt.Sprintf("ALTER INDEX %s RENAME TO %s", f.Qi(o.From.Value), f.Qi(o.To.Value))}, nil

	case diff.AddForeignKey:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD %s", f.QName(o.Table), foreignKeySQL(f, o.FK))}, nil
	case diff.DropForeignKey:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", f.QName(o.Table), f.Qi(o.ConstraintName))}, nil

	case diff.AddCheck:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD %s", f.QName(o.Table), checkSQL(o.Check))}, nil
	case diff.DropCheck:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", f.QName(o.Table), f.Qi(o.Name))}, nil

	case diff.AddExclusion:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD %s", f.QName(o.Table), exclusionSQL(f, o.Exclusion))}, nil
	case diff.DropExclusion:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", f.QName(o.Table), f.Qi(o.Name))}, nil

	case diff.SetPrimaryKey:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", f.QName(o.Table), joinIdentColumns(o.Index.Columns))}, nil
	case diff.DropPrimaryKey:
		return []string{"ALTER TABLE " + f.QName(o.Table) + " DROP CONSTRAINT " + f.Qi(o.Table.Name.Value+"_pkey")}, nil

	case diff.AddPartitionElement:
		return []string{fmt.Sprintf("ALTER TABLE %s ATTACH PARTITION %s %s", f.QName(o.Table), f.Qi(o.Element.Name), o.Element.Bound)}, nil
	case diff.DropPartitionElement:
		return []string{fmt.Sprintf("ALTER TABLE %s DETACH PARTITION %s", f.QName(o.Table), f.Qi(o.Name))}, nil
	case diff.SetPartitionScheme:
		return []string{fmt.Sprintf("ALTER TABLE %s PARTITION BY %s (%s)", f.QName(o.Table), partitionStrategyName(o.Descriptor.Strategy), strings.Join(o.Descriptor.Columns, ", "))}, nil

	case diff.CreateView:
		return []string{fmt.Sprintf("CREATE VIEW %s AS %s", f.QName(o.View.Name), o.View.Definition)}, nil
	case diff.DropView:
		return []string{"DROP VIEW " + f.QName(o.Name)}, nil
	case diff.RenameView:
		return []string{f.renameTableSQL(o.From, o.To)}, nil

	case diff.CreateMaterializedView:
		return []string{fmt.Sprintf("CREATE MATERIALIZED VIEW %s AS %s", f.QName(o.View.Name), o.View.Definition)}, nil
	case diff.DropMaterializedView:
		return []string{"DROP MATERIALIZED VIEW " + f.QName(o.Name)}, nil
	case diff.RenameMaterializedView:
		return []string{f.renameTableSQL(o.From, o.To)}, nil

	case diff.CreateSequence:
		return []string{sequenceSQL(f, o.Sequence)}, nil
	case diff.DropSequence:
		return []string{"DROP SEQUENCE " + f.QName(o.Name)}, nil
	case diff.RenameSequence:
		return []string{f.renameTableSQL(o.From, o.To)}, nil
	case diff.AlterSequence:
		return alterSequenceSQL(f, o), nil

	case diff.CreateTrigger:
		return []string{triggerSQL(f, o.Trigger)}, nil
	case diff.DropTrigger:
		return []string{fmt.Sprintf("DROP TRIGGER %s ON %s", f.Qi(o.Name.Value), f.QName(o.Table))}, nil

	case diff.CreateFunction:
		return []string{functionSQL(f, o.Function)}, nil
	case diff.DropFunction:
		return []string{fmt.Sprintf("DROP FUNCTION %s(%s)", f.QName(o.Name), o.Args)}, nil

	case diff.CreateType:
		return []string{typeSQL(f, o.Type)}, nil
	case diff.DropType:
		return []string{"DROP TYPE " + f.QName(o.Name)}, nil
	case diff.AlterType:
		return alterTypeSQL(f, o), nil

	case diff.CreateDomain:
		return []string{domainSQL(f, o.Domain)}, nil
	case diff.DropDomain:
		return []string{"DROP DOMAIN " + f.QName(o.Name)}, nil
	case diff.AlterDomain:
		return alterDomainSQL(f, o), nil

	case diff.CreateExtension:
		return []string{fmt.Sprintf("CREATE EXTENSION %s", f.Qi(o.Extension.Name.Value))}, nil
	case diff.DropExtension:
		return []string{"DROP EXTENSION " + f.Qi(o.Name.Value)}, nil

	case diff.CreateSchema:
		return []string{"CREATE SCHEMA " + f.Qi(o.Schema.Name.Value)}, nil
	case diff.DropSchema:
		return []string{"DROP SCHEMA " + f.Qi(o.Name.Value)}, nil

	case diff.SetComment:
		return []string{commentSQL(f, o.Comment)}, nil
	case diff.DropComment:
		return []string{commentSQL(f, &ir.Comment{TargetKind: o.TargetKind, Target: o.Target, Text: ""})}, nil

	case diff.Grant:
		ops := make([]string, len(o.Operations))
		for i, p := range o.Operations {
			ops[i] = string(p)
		}
		stmt := fmt.Sprintf("GRANT %s ON %s TO %s", strings.Join(ops, ", "), f.QName(o.Object), o.Grantee)
		if o.WithGrantOption {
			stmt += " WITH GRANT OPTION"
		}
		return []string{stmt}, nil
	case diff.Revoke:
		if o.RevokeGrantOptionOnly {
			return []string{fmt.Sprintf("REVOKE GRANT OPTION FOR %s ON %s FROM %s", opList(o.Operations), f.QName(o.Object), o.Grantee)}, nil
		}
		return []string{fmt.Sprintf("REVOKE %s ON %s FROM %s", opList(o.Operations), f.QName(o.Object), o.Grantee)}, nil

	case diff.CreatePolicy:
		return []string{policySQL(f, o.Policy)}, nil
	case diff.DropPolicy:
		return []string{fmt.Sprintf("DROP POLICY %s ON %s", f.Qi(o.Name.Value), f.QName(o.Table))}, nil

	default:
		return nil, stateerr.FromGenerate(&stateerr.GenerateError{DiffOp: fmt.Sprintf("%T", op), Target: "", Dialect: dialectName})
	}
}

func opList(ops []ir.PrivilegeOp) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}

func dropIndexSQL(f *Flavor, o diff.DropIndex) string {
	if o.OwnerKind == ir.OwnerTable {
		return fmt.Sprintf("DROP INDEX %s", f.Qi(o.Name.Value))
	}
	return fmt.Sprintf("DROP INDEX %s ON %s", f.Qi(o.Name.Value), f.QName(o.Owner))
}

func alterTableOptionsSQL(f *Flavor, o diff.AlterTableOptions) []string {
	if len(o.Changes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(o.Changes))
	for k := range o.Changes {
		keys = append(keys, k)
	}
	sortStrings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %s", k, o.Changes[k].New)
	}
	return []string{fmt.Sprintf("ALTER TABLE %s %s", f.QName(o.Table), strings.Join(parts, " "))}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func alterSequenceSQL(f *Flavor, o diff.AlterSequence) []string {
	var parts []string
	for _, c := range o.Changes {
		switch c.Kind {
		case diff.SequenceDataTypeChanged:
			parts = append(parts, "AS "+c.NewText)
		case diff.SequenceIncrementByChanged:
			parts = append(parts, "INCREMENT BY "+c.NewText)
		case diff.SequenceMinValueChanged:
			parts = append(parts, "MINVALUE "+c.NewText)
		case diff.SequenceMaxValueChanged:
			parts = append(parts, "MAXVALUE "+c.NewText)
		case diff.SequenceStartWithChanged:
			parts = append(parts, "START WITH "+c.NewText)
		case diff.SequenceCacheChanged:
			parts = append(parts, "CACHE "+c.NewText)
		case diff.SequenceCycleChanged:
			if c.NewText == "true" {
				parts = append(parts, "CYCLE")
			} else {
				parts = append(parts, "NO CYCLE")
			}
		case diff.SequenceOwnedByChanged:
			parts = append(parts, "OWNED BY "+c.NewText)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("ALTER SEQUENCE %s %s", f.QName(o.Name), strings.Join(parts, " "))}
}

func alterTypeSQL(f *Flavor, o diff.AlterType) []string {
	var stmts []string
	for _, c := range o.Changes {
		switch c.Kind {
		case diff.TypeEnumValueAdded:
			if c.After != "" {
				stmts = append(stmts, fmt.Sprintf("ALTER TYPE %s ADD VALUE %s AFTER %s", f.QName(o.Name), quoteLit(c.Value), quoteLit(c.After)))
			} else {
				stmts = append(stmts, fmt.Sprintf("ALTER TYPE %s ADD VALUE %s", f.QName(o.Name), quoteLit(c.Value)))
			}
		case diff.TypeEnumValueRemoved:
			// Postgres has no DROP VALUE; dialects that can express this
			// override via their own GenerateDDL. The generic form documents
			// the intent as a comment so DryRun output stays informative.
			stmts = append(stmts, fmt.Sprintf("-- cannot remove enum value %s from %s without a type rebuild", quoteLit(c.Value), f.QName(o.Name)))
		}
	}
	return stmts
}

func alterDomainSQL(f *Flavor, o diff.AlterDomain) []string {
	var stmts []string
	for _, c := range o.Changes {
		switch c.Kind {
		case diff.DomainBaseTypeChanged:
			stmts = append(stmts, fmt.Sprintf("-- base type change for domain %s requires DROP/CREATE (old=%s new=%s)", f.QName(o.Name), c.OldText, c.NewText))
		case diff.DomainNotNullChanged:
			if c.NewText == "true" {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s SET NOT NULL", f.QName(o.Name)))
			} else {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s DROP NOT NULL", f.QName(o.Name)))
			}
		case diff.DomainDefaultChanged:
			if c.NewText == "" {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s DROP DEFAULT", f.QName(o.Name)))
			} else {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s SET DEFAULT %s", f.QName(o.Name), c.NewText))
			}
		case diff.DomainCheckAdded:
			if c.Check != nil {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s ADD %s", f.QName(o.Name), checkSQL(*c.Check)))
			}
		case diff.DomainCheckRemoved:
			if c.Check != nil && c.Check.Name != "" {
				stmts = append(stmts, fmt.Sprintf("ALTER DOMAIN %s DROP CONSTRAINT %s", f.QName(o.Name), f.Qi(c.Check.Name)))
			}
		}
	}
	return stmts
}
