package diff

import "github.com/sqldef/stateql/ir"

// diffIndexes matches desired against current indexes by (owner, name),
// using the extras-encoded rename key used for indexes (no
// dedicated RenamedFrom field, since an index's identity already includes
// its owner). Two indexes are "equivalent for rename" iff, after aligning
// names and stripping the rename extras key, they are structurally equal —
// anything else becomes a plain drop+add.
func diffIndexes(b *diffBuilder, current, desired []*ir.Index) {
	available := make(map[string]*ir.Index, len(current))
	for _, idx := range current {
		available[idx.Key()] = idx
	}

	for _, d := range desired {
		match, matchKey, renamed := resolveIndexMatch(d, available)
		if match == nil {
			b.keep(AddIndex{Owner: d.Owner, OwnerKind: d.OwnerKind, Index: d})
			continue
		}
		delete(available, matchKey)

		if renamed {
			aligned := *match
			aligned.Name = d.Name
			if aligned.ToKey().Equal(*d.ToKey()) {
				b.keep(RenameIndex{Owner: d.Owner, OwnerKind: d.OwnerKind, From: match.Name, To: d.Name})
				continue
			}
			b.destructive(DropIndex{Owner: match.Owner, OwnerKind: match.OwnerKind, Name: match.Name})
			b.keep(AddIndex{Owner: d.Owner, OwnerKind: d.OwnerKind, Index: d})
			continue
		}

		if !match.ToKey().Equal(*d.ToKey()) {
			b.destructive(DropIndex{Owner: match.Owner, OwnerKind: match.OwnerKind, Name: match.Name})
			b.keep(AddIndex{Owner: d.Owner, OwnerKind: d.OwnerKind, Index: d})
		}
	}

	drops := remainingInOrder(current, available, func(idx *ir.Index) string { return idx.Key() })
	for _, c := range drops {
		b.destructive(DropIndex{Owner: c.Owner, OwnerKind: c.OwnerKind, Name: c.Name})
	}
}

func resolveIndexMatch(d *ir.Index, available map[string]*ir.Index) (match *ir.Index, key string, renamed bool) {
	if rf, ok := d.Extras[ir.RenamedFromExtrasKey]; ok {
		candidate := d.Owner.Key() + "\x01" + rf
		if c, found := available[candidate]; found {
			return c, candidate, true
		}
	}
	if c, found := available[d.Key()]; found {
		return c, d.Key(), false
	}
	return nil, "", false
}
