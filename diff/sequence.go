package diff

import (
	"strconv"

	"github.com/sqldef/stateql/ir"
)

// diffSequences matches by qualified name only — sequences carry no
// renamed_from in this IR, so a rename surfaces as drop+create rather than
// RenameSequence.
func diffSequences(b *diffBuilder, current, desired []*ir.Sequence) {
	available := make(map[string]*ir.Sequence, len(current))
	for _, s := range current {
		available[s.Name.Key()] = s
	}

	for _, d := range desired {
		if c, ok := available[d.Name.Key()]; ok {
			delete(available, d.Name.Key())
			if changes := diffSequenceBody(c, d); len(changes) > 0 {
				b.keep(AlterSequence{Name: d.Name, Changes: changes})
			}
			continue
		}
		b.keep(CreateSequence{Sequence: d})
	}

	drops := remainingInOrder(current, available, func(s *ir.Sequence) string { return s.Name.Key() })
	for _, c := range drops {
		b.destructive(DropSequence{Name: c.Name})
	}
}

func diffSequenceBody(c, d *ir.Sequence) []SequenceChange {
	var changes []SequenceChange
	if c.DataType != d.DataType {
		changes = append(changes, SequenceChange{Kind: SequenceDataTypeChanged, OldText: c.DataType, NewText: d.DataType})
	}
	if !int64PtrEqual(c.IncrementBy, d.IncrementBy) {
		changes = append(changes, SequenceChange{Kind: SequenceIncrementByChanged, OldText: int64PtrText(c.IncrementBy), NewText: int64PtrText(d.IncrementBy)})
	}
	if !int64PtrEqual(c.MinValue, d.MinValue) || c.NoMinValue != d.NoMinValue {
		changes = append(changes, SequenceChange{Kind: SequenceMinValueChanged, OldText: minMaxText(c.MinValue, c.NoMinValue), NewText: minMaxText(d.MinValue, d.NoMinValue)})
	}
	if !int64PtrEqual(c.MaxValue, d.MaxValue) || c.NoMaxValue != d.NoMaxValue {
		changes = append(changes, SequenceChange{Kind: SequenceMaxValueChanged, OldText: minMaxText(c.MaxValue, c.NoMaxValue), NewText: minMaxText(d.MaxValue, d.NoMaxValue)})
	}
	if !int64PtrEqual(c.StartWith, d.StartWith) {
		changes = append(changes, SequenceChange{Kind: SequenceStartWithChanged, OldText: int64PtrText(c.StartWith), NewText: int64PtrText(d.StartWith)})
	}
	if !int64PtrEqual(c.Cache, d.Cache) {
		changes = append(changes, SequenceChange{Kind: SequenceCacheChanged, OldText: int64PtrText(c.Cache), NewText: int64PtrText(d.Cache)})
	}
	if c.Cycle != d.Cycle {
		changes = append(changes, SequenceChange{Kind: SequenceCycleChanged, OldText: strconv.FormatBool(c.Cycle), NewText: strconv.FormatBool(d.Cycle)})
	}
	if c.OwnedBy != d.OwnedBy {
		changes = append(changes, SequenceChange{Kind: SequenceOwnedByChanged, OldText: c.OwnedBy, NewText: d.OwnedBy})
	}
	return changes
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrText(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func minMaxText(v *int64, none bool) string {
	if none {
		return "none"
	}
	return int64PtrText(v)
}
