// Package render emits a deterministic textual rendering of a statement
// stream: an optional skipped-ops header, each SQL statement
// followed by a newline, and a dialect-supplied batch separator wherever
// the stream carries a BatchBoundary hint.
package render

import (
	"fmt"
	"strings"

	"github.com/sqldef/stateql/diff"
	"github.com/sqldef/stateql/stateexec"
)

// BatchSeparator is the one dialect method the renderer needs; it is
// declared locally rather than importing package dialect to avoid a
// render→dialect→render cycle (dialects render export SQL through this
// package too).
type BatchSeparator interface {
	BatchSeparator() string
}

// Render writes the skipped-ops header (if diagnostics is non-empty)
// followed by the statement stream.
func Render(stmts []stateexec.Statement, diagnostics []diff.SkippedOpDiagnostic, dialect BatchSeparator) string {
	var b strings.Builder
	if len(diagnostics) > 0 {
		b.WriteString("-- Skipped operations (enable_drop=false):\n")
		for _, d := range diagnostics {
			fmt.Fprintf(&b, "-- Skipped: %s\n", skippedTag(d))
		}
		b.WriteString("\n")
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case stateexec.Sql:
			b.WriteString(s.SQL)
			b.WriteString("\n")
		case stateexec.BatchBoundary:
			sep := dialect.BatchSeparator()
			if sep == "" {
				continue
			}
			b.WriteString(sep)
			if !strings.HasSuffix(sep, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// skippedTag renders the `<tag>` that goes after `-- Skipped: `. It
// names the op kind and, where the op type carries one, the target.
func skippedTag(d diff.SkippedOpDiagnostic) string {
	return fmt.Sprintf("%s %s", opKindName(d.Kind), opTarget(d.Op))
}

func opKindName(k diff.OpKind) string {
	switch k {
	case diff.OpDropTable:
		return "DropTable"
	case diff.OpDropColumn:
		return "DropColumn"
	case diff.OpDropIndex:
		return "DropIndex"
	case diff.OpDropForeignKey:
		return "DropForeignKey"
	case diff.OpDropCheck:
		return "DropCheck"
	case diff.OpDropExclusion:
		return "DropExclusion"
	case diff.OpDropPrimaryKey:
		return "DropPrimaryKey"
	case diff.OpDropPartitionElement:
		return "DropPartitionElement"
	case diff.OpDropView:
		return "DropView"
	case diff.OpDropMaterializedView:
		return "DropMaterializedView"
	case diff.OpDropSequence:
		return "DropSequence"
	case diff.OpDropTrigger:
		return "DropTrigger"
	case diff.OpDropFunction:
		return "DropFunction"
	case diff.OpDropType:
		return "DropType"
	case diff.OpDropDomain:
		return "DropDomain"
	case diff.OpDropExtension:
		return "DropExtension"
	case diff.OpDropSchema:
		return "DropSchema"
	case diff.OpDropComment:
		return "DropComment"
	case diff.OpDropPolicy:
		return "DropPolicy"
	case diff.OpRevoke:
		return "Revoke"
	default:
		return "Unknown"
	}
}

// opTarget best-efforts a human-readable target string for the diagnostic
// line; it does not need to be exhaustive over every field shape, only
// informative for the operator reading dry-run output.
func opTarget(op diff.Op) string {
	switch v := op.(type) {
	case diff.DropTable:
		return v.Name.String()
	case diff.DropColumn:
		return v.Table.String() + "." + v.Column.String()
	case diff.DropIndex:
		return v.Owner.String() + "." + v.Name.String()
	case diff.DropForeignKey:
		return v.Table.String() + "." + v.ConstraintName
	case diff.DropCheck:
		return v.Table.String() + "." + v.Name
	case diff.DropExclusion:
		return v.Table.String() + "." + v.Name
	case diff.DropPrimaryKey:
		return v.Table.String()
	case diff.DropPartitionElement:
		return v.Table.String() + "." + v.Name
	case diff.DropView:
		return v.Name.String()
	case diff.DropMaterializedView:
		return v.Name.String()
	case diff.DropSequence:
		return v.Name.String()
	case diff.DropTrigger:
		return v.Table.String() + "." + v.Name.String()
	case diff.DropFunction:
		return v.Name.String()
	case diff.DropType:
		return v.Name.String()
	case diff.DropDomain:
		return v.Name.String()
	case diff.DropExtension:
		return v.Name.String()
	case diff.DropSchema:
		return v.Name.String()
	case diff.DropComment:
		return v.Target.String()
	case diff.DropPolicy:
		return v.Table.String() + "." + v.Name.String()
	case diff.Revoke:
		return v.Object.String() + " from " + v.Grantee
	default:
		return ""
	}
}
