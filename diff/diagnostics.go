package diff

// SkippedOpDiagnostic records one destructive operation that was computed
// but not emitted because Config.EnableDrop was false. Kind reuses
// Op.Kind() directly rather than a parallel enum: the destructive variants
// named here are exactly the OpKind values destructive() below ever wraps.
type SkippedOpDiagnostic struct {
	Kind OpKind
	Op   Op
}

// Diagnostics is the richer diff_with_diagnostics result:
// Ops is the emitted, planner-ready operation vector; Skipped lists every
// destructive operation the full computation produced but enable_drop=false
// suppressed.
type Diagnostics struct {
	Ops     []Op
	Skipped []SkippedOpDiagnostic
}

// diffBuilder accumulates the full/emitted op lists and the diagnostics
// that fall out of their difference, in one pass, rather than computing the
// full list and then re-walking it.
type diffBuilder struct {
	cfg      Config
	emitted  []Op
	skipped  []SkippedOpDiagnostic
}

func newDiffBuilder(cfg Config) *diffBuilder {
	return &diffBuilder{cfg: cfg}
}

// keep appends a non-destructive operation (create, rename, alter that adds
// nothing destructive) unconditionally.
func (b *diffBuilder) keep(op Op) {
	b.emitted = append(b.emitted, op)
}

// destructive appends op only when EnableDrop is set; otherwise it is
// recorded as a skipped diagnostic.
func (b *diffBuilder) destructive(op Op) {
	if b.cfg.EnableDrop {
		b.emitted = append(b.emitted, op)
		return
	}
	b.skipped = append(b.skipped, SkippedOpDiagnostic{Kind: op.Kind(), Op: op})
}

// unconditional appends op regardless of EnableDrop and never diagnoses it
// as skipped — the check-constraint pairing override is the
// only caller.
func (b *diffBuilder) unconditional(op Op) {
	b.emitted = append(b.emitted, op)
}

func (b *diffBuilder) result() Diagnostics {
	return Diagnostics{Ops: b.emitted, Skipped: b.skipped}
}
