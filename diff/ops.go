// Package diff implements the schema diff engine: matching
// desired objects against current ones via name resolution and the rename
// protocol, computing intra-object deltas, and running the cross-object
// passes (foreign-key cycle breaking, view rebuild closure, partition
// reconciliation) that the matching pass alone cannot express.
package diff

import "github.com/sqldef/stateql/ir"

// Op is the closed sum of diff operations. Kind() lets callers (the
// planner, the diagnostics classifier, the renderer) switch on the variant
// without a type assertion when only the category matters.
type Op interface {
	isOp()
	Kind() OpKind
}

// OpKind enumerates every Op variant. Diagnostics reuses it directly for
// the destructive subset (SkippedOpDiagnostic.Kind); there is no separate,
// smaller enumeration.
type OpKind int

const (
	OpCreateTable OpKind = iota
	OpDropTable
	OpRenameTable
	OpAddColumn
	OpDropColumn
	OpAlterColumn
	OpRenameColumn
	OpAddIndex
	OpDropIndex
	OpRenameIndex
	OpAddForeignKey
	OpDropForeignKey
	OpAddCheck
	OpDropCheck
	OpAddExclusion
	OpDropExclusion
	OpSetPrimaryKey
	OpDropPrimaryKey
	OpAddPartitionElement
	OpDropPartitionElement
	OpSetPartitionScheme
	OpCreateView
	OpDropView
	OpRenameView
	OpCreateMaterializedView
	OpDropMaterializedView
	OpRenameMaterializedView
	OpCreateSequence
	OpDropSequence
	OpRenameSequence
	OpAlterSequence
	OpCreateTrigger
	OpDropTrigger
	OpCreateFunction
	OpDropFunction
	OpCreateType
	OpDropType
	OpAlterType
	OpCreateDomain
	OpDropDomain
	OpAlterDomain
	OpCreateExtension
	OpDropExtension
	OpCreateSchema
	OpDropSchema
	OpSetComment
	OpDropComment
	OpGrant
	OpRevoke
	OpCreatePolicy
	OpDropPolicy
	OpAlterTableOptions
)

// --- Table lifecycle -------------------------------------------------------

type CreateTable struct{ Table *ir.Table }
type DropTable struct{ Name ir.QualifiedName }
type RenameTable struct{ From, To ir.QualifiedName }

func (CreateTable) isOp()   {}
func (DropTable) isOp()     {}
func (RenameTable) isOp()   {}
func (CreateTable) Kind() OpKind { return OpCreateTable }
func (DropTable) Kind() OpKind   { return OpDropTable }
func (RenameTable) Kind() OpKind { return OpRenameTable }

// AlterTableOptions carries per-key old/new storage option text (e.g.
// MySQL's ENGINE, Postgres's fillfactor) for a matched table whose
// Options map differs.
type OptionChange struct{ Old, New string }
type AlterTableOptions struct {
	Table   ir.QualifiedName
	Changes map[string]OptionChange
}

func (AlterTableOptions) isOp()       {}
func (AlterTableOptions) Kind() OpKind { return OpAlterTableOptions }

// --- Column lifecycle -------------------------------------------------------

// AddColumn carries a position hint: After == nil means append at the end,
// a non-nil After names the column the new one follows, mirroring sqldef's
// AddColumnAfter DDL shape for dialects that support positional ADD COLUMN.
type AddColumn struct {
	Table  ir.QualifiedName
	Column ir.Column
	After  *ir.Identifier
}
type DropColumn struct {
	Table  ir.QualifiedName
	Column ir.Identifier
}
type RenameColumn struct {
	Table    ir.QualifiedName
	From, To ir.Identifier
}

func (AddColumn) isOp()     {}
func (DropColumn) isOp()    {}
func (RenameColumn) isOp()  {}
func (AddColumn) Kind() OpKind    { return OpAddColumn }
func (DropColumn) Kind() OpKind   { return OpDropColumn }
func (RenameColumn) Kind() OpKind { return OpRenameColumn }

// ColumnChangeKind is the inner change sum for AlterColumn.
type ColumnChangeKind int

const (
	ColumnTypeChanged ColumnChangeKind = iota
	ColumnNotNullChanged
	ColumnDefaultChanged
	ColumnIdentityChanged
	ColumnGeneratedChanged
	ColumnCollationChanged
	ColumnCommentChanged
)

type ColumnChange struct {
	Kind ColumnChangeKind

	OldType, NewType string

	OldNotNull, NewNotNull bool

	OldDefault, NewDefault *ir.Expr

	OldIdentity, NewIdentity *ir.Identity

	OldGenerated, NewGenerated *ir.Generated

	OldCollation, NewCollation string

	OldComment, NewComment string
}

type AlterColumn struct {
	Table   ir.QualifiedName
	Column  ir.Identifier
	Changes []ColumnChange
}

func (AlterColumn) isOp()       {}
func (AlterColumn) Kind() OpKind { return OpAlterColumn }

// --- Index lifecycle ---------------------------------------------------

type AddIndex struct {
	Owner     ir.QualifiedName
	OwnerKind ir.IndexOwnerKind
	Index     *ir.Index
}
type DropIndex struct {
	Owner     ir.QualifiedName
	OwnerKind ir.IndexOwnerKind
	Name      ir.Identifier
}
type RenameIndex struct {
	Owner     ir.QualifiedName
	OwnerKind ir.IndexOwnerKind
	From, To  ir.Identifier
}

func (AddIndex) isOp()     {}
func (DropIndex) isOp()    {}
func (RenameIndex) isOp()  {}
func (AddIndex) Kind() OpKind    { return OpAddIndex }
func (DropIndex) Kind() OpKind   { return OpDropIndex }
func (RenameIndex) Kind() OpKind { return OpRenameIndex }

// --- Foreign key / check / exclusion / primary key ----------------------

type AddForeignKey struct {
	Table ir.QualifiedName
	FK    ir.ForeignKey
}
type DropForeignKey struct {
	Table          ir.QualifiedName
	ConstraintName string
}

func (AddForeignKey) isOp()  {}
func (DropForeignKey) isOp() {}
func (AddForeignKey) Kind() OpKind  { return OpAddForeignKey }
func (DropForeignKey) Kind() OpKind { return OpDropForeignKey }

type AddCheck struct {
	Table ir.QualifiedName
	Check ir.CheckDefinition
}
type DropCheck struct {
	Table ir.QualifiedName
	Name  string
}

func (AddCheck) isOp()  {}
func (DropCheck) isOp() {}
func (AddCheck) Kind() OpKind  { return OpAddCheck }
func (DropCheck) Kind() OpKind { return OpDropCheck }

type AddExclusion struct {
	Table     ir.QualifiedName
	Exclusion ir.ExclusionConstraint
}
type DropExclusion struct {
	Table ir.QualifiedName
	Name  string
}

func (AddExclusion) isOp()  {}
func (DropExclusion) isOp() {}
func (AddExclusion) Kind() OpKind  { return OpAddExclusion }
func (DropExclusion) Kind() OpKind { return OpDropExclusion }

type SetPrimaryKey struct {
	Table ir.QualifiedName
	Index ir.Index
}
type DropPrimaryKey struct{ Table ir.QualifiedName }

func (SetPrimaryKey) isOp()  {}
func (DropPrimaryKey) isOp() {}
func (SetPrimaryKey) Kind() OpKind  { return OpSetPrimaryKey }
func (DropPrimaryKey) Kind() OpKind { return OpDropPrimaryKey }

// --- Partitioning --------------------------------------------------------

type AddPartitionElement struct {
	Table   ir.QualifiedName
	Element ir.PartitionElement
}
type DropPartitionElement struct {
	Table ir.QualifiedName
	Name  string
}

// SetPartitionScheme replaces the entire partition descriptor, emitted when
// strategy or columns differ.
type SetPartitionScheme struct {
	Table      ir.QualifiedName
	Descriptor ir.PartitionDescriptor
}

func (AddPartitionElement) isOp()  {}
func (DropPartitionElement) isOp() {}
func (SetPartitionScheme) isOp()   {}
func (AddPartitionElement) Kind() OpKind  { return OpAddPartitionElement }
func (DropPartitionElement) Kind() OpKind { return OpDropPartitionElement }
func (SetPartitionScheme) Kind() OpKind   { return OpSetPartitionScheme }

// --- View / materialized view --------------------------------------------

type CreateView struct{ View *ir.View }
type DropView struct{ Name ir.QualifiedName }
type RenameView struct{ From, To ir.QualifiedName }

func (CreateView) isOp() {}
func (DropView) isOp()   {}
func (RenameView) isOp() {}
func (CreateView) Kind() OpKind { return OpCreateView }
func (DropView) Kind() OpKind   { return OpDropView }
func (RenameView) Kind() OpKind { return OpRenameView }

type CreateMaterializedView struct{ View *ir.MaterializedView }
type DropMaterializedView struct{ Name ir.QualifiedName }
type RenameMaterializedView struct{ From, To ir.QualifiedName }

func (CreateMaterializedView) isOp() {}
func (DropMaterializedView) isOp()   {}
func (RenameMaterializedView) isOp() {}
func (CreateMaterializedView) Kind() OpKind { return OpCreateMaterializedView }
func (DropMaterializedView) Kind() OpKind   { return OpDropMaterializedView }
func (RenameMaterializedView) Kind() OpKind { return OpRenameMaterializedView }

// --- Sequence -------------------------------------------------------------

type CreateSequence struct{ Sequence *ir.Sequence }
type DropSequence struct{ Name ir.QualifiedName }
type RenameSequence struct{ From, To ir.QualifiedName }

func (CreateSequence) isOp() {}
func (DropSequence) isOp()   {}
func (RenameSequence) isOp() {}
func (CreateSequence) Kind() OpKind { return OpCreateSequence }
func (DropSequence) Kind() OpKind   { return OpDropSequence }
func (RenameSequence) Kind() OpKind { return OpRenameSequence }

type SequenceChangeKind int

const (
	SequenceDataTypeChanged SequenceChangeKind = iota
	SequenceIncrementByChanged
	SequenceMinValueChanged
	SequenceMaxValueChanged
	SequenceStartWithChanged
	SequenceCacheChanged
	SequenceCycleChanged
	SequenceOwnedByChanged
)

type SequenceChange struct {
	Kind               SequenceChangeKind
	OldText, NewText   string // rendered representation, since most fields are *int64/bool
}

type AlterSequence struct {
	Name    ir.QualifiedName
	Changes []SequenceChange
}

func (AlterSequence) isOp()       {}
func (AlterSequence) Kind() OpKind { return OpAlterSequence }

// --- Trigger / function ---------------------------------------------------

type CreateTrigger struct{ Trigger *ir.Trigger }
type DropTrigger struct {
	Table ir.QualifiedName
	Name  ir.Identifier
}

func (CreateTrigger) isOp() {}
func (DropTrigger) isOp()   {}
func (CreateTrigger) Kind() OpKind { return OpCreateTrigger }
func (DropTrigger) Kind() OpKind   { return OpDropTrigger }

type CreateFunction struct{ Function *ir.Function }
type DropFunction struct {
	Name ir.QualifiedName
	Args string
}

func (CreateFunction) isOp() {}
func (DropFunction) isOp()   {}
func (CreateFunction) Kind() OpKind { return OpCreateFunction }
func (DropFunction) Kind() OpKind   { return OpDropFunction }

// --- Type / domain ----------------------------------------------------------

type CreateType struct{ Type *ir.TypeDef }
type DropType struct{ Name ir.QualifiedName }

func (CreateType) isOp() {}
func (DropType) isOp()   {}
func (CreateType) Kind() OpKind { return OpCreateType }
func (DropType) Kind() OpKind   { return OpDropType }

type TypeChangeKind int

const (
	TypeEnumValueAdded TypeChangeKind = iota
	TypeEnumValueRemoved
)

type TypeChange struct {
	Kind  TypeChangeKind
	Value string
	After string // for TypeEnumValueAdded: "" means append at the end
}

type AlterType struct {
	Name    ir.QualifiedName
	Changes []TypeChange
}

func (AlterType) isOp()       {}
func (AlterType) Kind() OpKind { return OpAlterType }

type CreateDomain struct{ Domain *ir.Domain }
type DropDomain struct{ Name ir.QualifiedName }

func (CreateDomain) isOp() {}
func (DropDomain) isOp()   {}
func (CreateDomain) Kind() OpKind { return OpCreateDomain }
func (DropDomain) Kind() OpKind   { return OpDropDomain }

type DomainChangeKind int

const (
	DomainBaseTypeChanged DomainChangeKind = iota
	DomainNotNullChanged
	DomainDefaultChanged
	DomainCheckAdded
	DomainCheckRemoved
)

type DomainChange struct {
	Kind             DomainChangeKind
	OldText, NewText string
	Check            *ir.CheckDefinition // for DomainCheckAdded / DomainCheckRemoved
}

type AlterDomain struct {
	Name    ir.QualifiedName
	Changes []DomainChange
}

func (AlterDomain) isOp()       {}
func (AlterDomain) Kind() OpKind { return OpAlterDomain }

// --- Extension / schema / comment -----------------------------------------

type CreateExtension struct{ Extension *ir.Extension }
type DropExtension struct{ Name ir.Identifier }

func (CreateExtension) isOp() {}
func (DropExtension) isOp()   {}
func (CreateExtension) Kind() OpKind { return OpCreateExtension }
func (DropExtension) Kind() OpKind   { return OpDropExtension }

type CreateSchema struct{ Schema *ir.SchemaDecl }
type DropSchema struct{ Name ir.Identifier }

func (CreateSchema) isOp() {}
func (DropSchema) isOp()   {}
func (CreateSchema) Kind() OpKind { return OpCreateSchema }
func (DropSchema) Kind() OpKind   { return OpDropSchema }

type SetComment struct{ Comment *ir.Comment }
type DropComment struct {
	TargetKind ir.CommentTargetKind
	Target     ir.QualifiedName
}

func (SetComment) isOp()  {}
func (DropComment) isOp() {}
func (SetComment) Kind() OpKind  { return OpSetComment }
func (DropComment) Kind() OpKind { return OpDropComment }

// --- Privilege / policy -----------------------------------------------------

type Grant struct {
	Object          ir.QualifiedName
	Grantee         string
	Operations      []ir.PrivilegeOp
	WithGrantOption bool
}

// Revoke with RevokeGrantOptionOnly == true
// means "revoke the grant option but keep the privilege"; otherwise it is a full revoke of
// Operations.
type Revoke struct {
	Object                ir.QualifiedName
	Grantee               string
	Operations            []ir.PrivilegeOp
	RevokeGrantOptionOnly bool
}

func (Grant) isOp()  {}
func (Revoke) isOp() {}
func (Grant) Kind() OpKind  { return OpGrant }
func (Revoke) Kind() OpKind { return OpRevoke }

type CreatePolicy struct{ Policy *ir.Policy }
type DropPolicy struct {
	Table ir.QualifiedName
	Name  ir.Identifier
}

func (CreatePolicy) isOp() {}
func (DropPolicy) isOp()   {}
func (CreatePolicy) Kind() OpKind { return OpCreatePolicy }
func (DropPolicy) Kind() OpKind   { return OpDropPolicy }
