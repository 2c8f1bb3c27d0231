package diff

import "github.com/sqldef/stateql/ir"

// breakForeignKeyCycles implements the foreign-key cycle fallback. It emits CreateTable for every table in creates (with cyclic
// foreign keys stripped) followed by AddForeignKey for the stripped edges,
// and mirrors the same graph over drops: DropForeignKey for named cyclic
// edges before DropTable.
func breakForeignKeyCycles(b *diffBuilder, creates, drops []*ir.Table) {
	createStrip := cyclicEdges(creates)
	for _, t := range creates {
		stripped := *t
		if cut, ok := createStrip[t.Name.Key()]; ok {
			stripped.ForeignKeys = withoutFKs(t.ForeignKeys, cut)
		}
		cp := stripped
		b.keep(CreateTable{Table: &cp})
	}
	for _, t := range creates {
		if cut, ok := createStrip[t.Name.Key()]; ok {
			for _, idx := range cut {
				b.keep(AddForeignKey{Table: t.Name, FK: t.ForeignKeys[idx]})
			}
		}
	}

	dropStrip := cyclicEdges(drops)
	for _, t := range drops {
		if cut, ok := dropStrip[t.Name.Key()]; ok {
			for _, idx := range cut {
				fk := t.ForeignKeys[idx]
				if fk.ConstraintName == "" {
					continue // anonymous FKs are skipped by cycle-break
				}
				b.destructive(DropForeignKey{Table: t.Name, ConstraintName: fk.ConstraintName})
			}
		}
	}
	for _, t := range drops {
		b.destructive(DropTable{Name: t.Name})
	}
}

// cyclicEdges builds the directed graph over tables using FK targets
// restricted to the set, ignores self-loops, and returns for each table the
// indexes into its ForeignKeys slice that form a cyclic edge: edge (u,v) is
// cyclic iff v can reach u.
func cyclicEdges(tables []*ir.Table) map[string][]int {
	index := make(map[string]*ir.Table, len(tables))
	for _, t := range tables {
		index[t.Name.Key()] = t
	}
	adjacency := make(map[string][]string, len(tables))
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			ref := fk.ReferenceTable.Key()
			if ref == t.Name.Key() {
				continue // self-loop, ignored
			}
			if _, inSet := index[ref]; !inSet {
				continue // target outside the restricted set
			}
			adjacency[t.Name.Key()] = append(adjacency[t.Name.Key()], ref)
		}
	}

	reach := make(map[string]map[string]bool, len(tables))
	for _, t := range tables {
		reach[t.Name.Key()] = reachableFrom(t.Name.Key(), adjacency)
	}

	cut := map[string][]int{}
	for _, t := range tables {
		u := t.Name.Key()
		for i, fk := range t.ForeignKeys {
			v := fk.ReferenceTable.Key()
			if v == u {
				continue
			}
			if _, inSet := index[v]; !inSet {
				continue
			}
			if reach[v][u] {
				cut[u] = append(cut[u], i)
			}
		}
	}
	return cut
}

func reachableFrom(start string, adjacency map[string][]string) map[string]bool {
	visited := map[string]bool{}
	var stack []string
	for _, n := range adjacency[start] {
		stack = append(stack, n)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, adjacency[n]...)
	}
	return visited
}

func withoutFKs(fks []ir.ForeignKey, cutIdx []int) []ir.ForeignKey {
	if len(cutIdx) == 0 {
		return fks
	}
	cut := make(map[int]bool, len(cutIdx))
	for _, i := range cutIdx {
		cut[i] = true
	}
	out := make([]ir.ForeignKey, 0, len(fks)-len(cutIdx))
	for i, fk := range fks {
		if !cut[i] {
			out = append(out, fk)
		}
	}
	return out
}
