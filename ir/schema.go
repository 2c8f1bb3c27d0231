package ir

// SchemaObject is the closed sum of schema object variants:
// Table, View, MaterializedView, Index, Sequence, Trigger, Function, Type,
// Domain, Extension, Schema, Comment, Privilege, Policy. It is sealed —
// only types in this package implement it — so that every `switch
// obj.(type)` a new caller writes is forced to be exhaustive against the
// variant set; the compiler will not catch a missing case (Go has no
// sum-type exhaustiveness check) but ObjectKind() gives callers an enum to
// switch on defensively in addition to the type switch.
type SchemaObject interface {
	isSchemaObject()
	// Key returns the map key the diff engine uses to correlate desired
	// and current objects of the same kind: qualified names for most
	// variants, (owner, name) for indexes, (object, grantee) for privileges.
	Key() string
	// ObjectKind names the variant for diagnostics.
	ObjectKind() ObjectKind
}

type ObjectKind int

const (
	KindTable ObjectKind = iota
	KindView
	KindMaterializedView
	KindIndex
	KindSequence
	KindTrigger
	KindFunction
	KindType
	KindDomain
	KindExtension
	KindSchema
	KindComment
	KindPrivilege
	KindPolicy
)

// ExtrasMap carries dialect-specific flags that don't warrant a dedicated
// struct field, keyed by a dotted namespace (e.g. the rename protocol's
// "stateql.renamed_from" key on Index).
type ExtrasMap map[string]string

// Clone returns a shallow copy safe to mutate independently.
func (e ExtrasMap) Clone() ExtrasMap {
	if e == nil {
		return nil
	}
	out := make(ExtrasMap, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// RenamedFromExtrasKey is the encoded extras key the rename protocol uses
// for Index, which has no dedicated RenamedFrom field because an index's
// identity key is (owner, name) rather than a bare qualified name.
const RenamedFromExtrasKey = "stateql.renamed_from"

// --- Table ---------------------------------------------------------------

type Table struct {
	Name        QualifiedName
	Columns     []Column
	PrimaryKey  *Index
	ForeignKeys []ForeignKey
	Checks      []CheckDefinition
	Exclusions  []ExclusionConstraint
	Options     map[string]string
	Partition   *PartitionDescriptor
	RenamedFrom *QualifiedName // weak back-reference; dropped by ToKey
}

// NewTable is a convenience constructor for building table literals in
// tests and dialect generators.
func NewTable(name QualifiedName, columns ...Column) *Table {
	return &Table{Name: name, Columns: columns}
}

func (*Table) isSchemaObject()       {}
func (t *Table) Key() string         { return t.Name.Key() }
func (*Table) ObjectKind() ObjectKind { return KindTable }

// QName and RenamedFromName satisfy the diff package's generic rename-match
// helper (diff.renamable) for the object kinds that support the rename
// protocol: Table, View, MaterializedView.
func (t *Table) QName() QualifiedName          { return t.Name }
func (t *Table) RenamedFromName() *QualifiedName { return t.RenamedFrom }

// ToKey returns t with RenamedFrom stripped and partition column order
// normalized into a deterministic tuple, suitable for use as a diff map
// key / equality comparison target.
func (t *Table) ToKey() *Table {
	cp := *t
	cp.RenamedFrom = nil
	if t.Partition != nil {
		p := t.Partition.normalized()
		cp.Partition = &p
	}
	return &cp
}

type Column struct {
	Name          Identifier
	Position      int
	DataType      string
	NotNull       bool
	Default       *Expr
	Identity      *Identity
	Generated     *Generated
	Collation     string
	Comment       string
	RenamedFrom   *Identifier
	Extras        ExtrasMap
}

type Identity struct {
	Behavior          string // e.g. "always", "by default"
	NotForReplication bool
}

type GeneratedKind int

const (
	GeneratedVirtual GeneratedKind = iota
	GeneratedStored
)

type Generated struct {
	Expr Expr
	Kind GeneratedKind
}

// --- Index -----------------------------------------------------------------

// IndexOwnerKind identifies what kind of object an index's owner is.
type IndexOwnerKind int

const (
	OwnerTable IndexOwnerKind = iota
	OwnerView
	OwnerMaterializedView
)

type Index struct {
	Owner      QualifiedName
	OwnerKind  IndexOwnerKind
	Name       Identifier
	Columns    []IndexColumn
	Primary    bool
	Unique     bool
	Constraint bool // Postgres ADD CONSTRAINT UNIQUE rendering
	Deferrable *ConstraintOptions
	Where      string   // partial index predicate
	Included   []string // MSSQL INCLUDE columns
	Clustered  bool
	Options    []IndexOption
	Extras     ExtrasMap
}

func (*Index) isSchemaObject() {}

// Key is (owner, name).
func (i *Index) Key() string         { return i.Owner.Key() + "\x01" + i.Name.Value }
func (*Index) ObjectKind() ObjectKind { return KindIndex }

// ToKey strips the rename extras key (column order is kept as declared) for
// structural comparison outside of the rename protocol itself.
func (i *Index) ToKey() *Index {
	cp := *i
	if i.Extras != nil {
		cp.Extras = i.Extras.Clone()
		delete(cp.Extras, RenamedFromExtrasKey)
		if len(cp.Extras) == 0 {
			cp.Extras = nil
		}
	}
	return &cp
}

type IndexColumn struct {
	Column    string
	Length    *int
	Direction IndexDirection
}

type IndexDirection int

const (
	DirectionAsc IndexDirection = iota
	DirectionDesc
)

type IndexOption struct {
	Name  string
	Value Value
}

type ConstraintOptions struct {
	Deferrable        bool
	InitiallyDeferred bool
}

// --- ForeignKey --------------------------------------------------------

type ForeignKey struct {
	ConstraintName    string // "" means anonymous
	Columns           []string
	ReferenceTable    QualifiedName
	ReferenceColumns  []string
	OnDelete          string
	OnUpdate          string
	NotForReplication bool
	Deferrable        *ConstraintOptions
}

// --- Checks / exclusions --------------------------------------------------

type CheckDefinition struct {
	Name              string
	Expr              Expr
	NoInherit         bool
	NotForReplication bool
}

type ExclusionElement struct {
	Expr     Expr
	Operator string
}

type ExclusionConstraint struct {
	Name     string
	Elements []ExclusionElement
	Where    string
	Using    string // access method, e.g. "gist"
}

// --- Partitioning ----------------------------------------------------------

type PartitionStrategy int

const (
	PartitionNone PartitionStrategy = iota
	PartitionRange
	PartitionList
	PartitionHash
)

type PartitionElement struct {
	Name   string
	Bound  string // opaque bound clause text (FOR VALUES ...)
	Column string // MSSQL IndexPartition-style single-column partitioning
}

// PartitionDescriptor supplements the base partitioning model with an
// MSSQL-style IndexPartition shape, unified with Postgres/MySQL PARTITION BY
// under one reconciliation algorithm.
type PartitionDescriptor struct {
	Strategy Strategy
	Columns  []string
	Elements []PartitionElement
}

type Strategy = PartitionStrategy

func (p PartitionDescriptor) normalized() PartitionDescriptor {
	cp := p
	cp.Columns = append([]string(nil), p.Columns...)
	return cp
}

// --- View / materialized view ---------------------------------------------

type View struct {
	Name        QualifiedName
	Definition  string // query text, used verbatim for rebuild dependency scanning
	Columns     []string
	RenamedFrom *QualifiedName
}

func (*View) isSchemaObject()       {}
func (v *View) Key() string          { return v.Name.Key() }
func (*View) ObjectKind() ObjectKind { return KindView }

func (v *View) ToKey() *View {
	cp := *v
	cp.RenamedFrom = nil
	return &cp
}

func (v *View) QName() QualifiedName           { return v.Name }
func (v *View) RenamedFromName() *QualifiedName { return v.RenamedFrom }

type MaterializedView struct {
	Name        QualifiedName
	Definition  string
	Columns     []string
	RenamedFrom *QualifiedName
}

func (*MaterializedView) isSchemaObject()       {}
func (v *MaterializedView) Key() string          { return v.Name.Key() }
func (*MaterializedView) ObjectKind() ObjectKind { return KindMaterializedView }

func (v *MaterializedView) ToKey() *MaterializedView {
	cp := *v
	cp.RenamedFrom = nil
	return &cp
}

func (v *MaterializedView) QName() QualifiedName           { return v.Name }
func (v *MaterializedView) RenamedFromName() *QualifiedName { return v.RenamedFrom }

// --- Sequence ----------------------------------------------------------

type Sequence struct {
	Name        QualifiedName
	DataType    string
	IncrementBy *int64
	MinValue    *int64
	NoMinValue  bool
	MaxValue    *int64
	NoMaxValue  bool
	StartWith   *int64
	Cache       *int64
	Cycle       bool
	OwnedBy     string // "table.column" or ""
}

func (*Sequence) isSchemaObject()       {}
func (s *Sequence) Key() string          { return s.Name.Key() }
func (*Sequence) ObjectKind() ObjectKind { return KindSequence }

// --- Trigger -------------------------------------------------------------

type Trigger struct {
	Name      Identifier
	Table     QualifiedName
	Timing    string // "before" | "after" | "instead of"
	Events    []string
	Body      string
}

func (*Trigger) isSchemaObject() {}
func (t *Trigger) Key() string   { return t.Table.Key() + "\x01" + t.Name.Value }
func (*Trigger) ObjectKind() ObjectKind {
	return KindTrigger
}

// --- Function --------------------------------------------------------------

type Function struct {
	Name       QualifiedName
	Args       string // opaque signature text, used for overload disambiguation
	ReturnType string
	Language   string
	Body       string
}

func (*Function) isSchemaObject() {}
func (f *Function) Key() string   { return f.Name.Key() + "\x01" + f.Args }
func (*Function) ObjectKind() ObjectKind {
	return KindFunction
}

// --- Type / Domain -----------------------------------------------------

type TypeKind int

const (
	TypeKindEnum TypeKind = iota
	TypeKindComposite
)

type TypeDef struct {
	Name       QualifiedName
	Kind       TypeKind
	EnumValues []string
}

func (*TypeDef) isSchemaObject()       {}
func (t *TypeDef) Key() string          { return t.Name.Key() }
func (*TypeDef) ObjectKind() ObjectKind { return KindType }

type Domain struct {
	Name     QualifiedName
	BaseType string
	NotNull  bool
	Default  *Expr
	Checks   []CheckDefinition
}

func (*Domain) isSchemaObject()       {}
func (d *Domain) Key() string          { return d.Name.Key() }
func (*Domain) ObjectKind() ObjectKind { return KindDomain }

// --- Extension / Schema --------------------------------------------------

type Extension struct {
	Name    Identifier
	Version string
}

func (*Extension) isSchemaObject()       {}
func (e *Extension) Key() string          { return e.Name.Value }
func (*Extension) ObjectKind() ObjectKind { return KindExtension }

type SchemaDecl struct {
	Name Identifier
}

func (*SchemaDecl) isSchemaObject()       {}
func (s *SchemaDecl) Key() string          { return s.Name.Value }
func (*SchemaDecl) ObjectKind() ObjectKind { return KindSchema }

// --- Comment -------------------------------------------------------------

type CommentTargetKind int

const (
	CommentOnTable CommentTargetKind = iota
	CommentOnColumn
	CommentOnView
	CommentOnIndex
)

type Comment struct {
	TargetKind CommentTargetKind
	Target     QualifiedName // for CommentOnColumn, Target.Name is "table.column"
	Text       string
}

func (*Comment) isSchemaObject() {}
func (c *Comment) Key() string {
	return string(rune('0'+int(c.TargetKind))) + "\x01" + c.Target.Key()
}
func (*Comment) ObjectKind() ObjectKind { return KindComment }

// --- Privilege -------------------------------------------------------------

// PrivilegeOp is one of the fixed 13-operation enumeration below.
type PrivilegeOp string

const (
	PrivSelect     PrivilegeOp = "SELECT"
	PrivInsert     PrivilegeOp = "INSERT"
	PrivUpdate     PrivilegeOp = "UPDATE"
	PrivDelete     PrivilegeOp = "DELETE"
	PrivTruncate   PrivilegeOp = "TRUNCATE"
	PrivReferences PrivilegeOp = "REFERENCES"
	PrivTrigger    PrivilegeOp = "TRIGGER"
	PrivUsage      PrivilegeOp = "USAGE"
	PrivCreate     PrivilegeOp = "CREATE"
	PrivConnect    PrivilegeOp = "CONNECT"
	PrivTemporary  PrivilegeOp = "TEMPORARY"
	PrivExecute    PrivilegeOp = "EXECUTE"
	PrivAll        PrivilegeOp = "ALL"
)

// AllPrivilegeOps lists the 12 individual operations of the 13-value
// enumeration (PrivAll excluded; it is the shorthand that expands to all 12,
// see diff/privilege.go).
var AllPrivilegeOps = []PrivilegeOp{
	PrivSelect, PrivInsert, PrivUpdate, PrivDelete, PrivTruncate,
	PrivReferences, PrivTrigger, PrivUsage, PrivCreate, PrivConnect,
	PrivTemporary, PrivExecute,
}

type Privilege struct {
	Operations       []PrivilegeOp // ordered vector, compared as a set
	Object           QualifiedName
	Grantee          string
	WithGrantOption  bool
}

func (*Privilege) isSchemaObject() {}
func (p *Privilege) Key() string   { return p.Object.Key() + "\x01" + p.Grantee }
func (*Privilege) ObjectKind() ObjectKind {
	return KindPrivilege
}

// --- Policy ------------------------------------------------------------

type Policy struct {
	Name       Identifier
	Table      QualifiedName
	Permissive string // "PERMISSIVE" | "RESTRICTIVE"
	Scope      string // command: ALL/SELECT/INSERT/UPDATE/DELETE
	Roles      []string
	Using      string
	WithCheck  string
}

func (*Policy) isSchemaObject() {}
func (p *Policy) Key() string   { return p.Table.Key() + "\x01" + p.Name.Value }
func (*Policy) ObjectKind() ObjectKind {
	return KindPolicy
}
