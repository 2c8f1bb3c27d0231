package diff

import "github.com/sqldef/stateql/ir"

type matViewPair struct {
	key     string
	name    ir.QualifiedName
	body    string
	renamed bool
	oldName ir.QualifiedName
	oldBody string
}

// diffMaterializedViews mirrors diffViews' rebuild transitive closure for materialized views, which rebuild independently of plain
// views but follow the identical textual-dependency rule.
func diffMaterializedViews(b *diffBuilder, current, desired []*ir.MaterializedView) {
	available := make(map[string]*ir.MaterializedView, len(current))
	for _, v := range current {
		available[v.Name.Key()] = v
	}

	var pairs []matViewPair
	byKey := make(map[string]*ir.MaterializedView)

	for _, d := range desired {
		match, renamed, ok := resolveRename[*ir.MaterializedView](d, available, b.cfg.SchemaSearchPath)
		if !ok {
			b.keep(CreateMaterializedView{View: d})
			continue
		}
		pairs = append(pairs, matViewPair{
			key: d.Name.Key(), name: d.Name, body: d.Definition,
			renamed: renamed, oldName: match.Name, oldBody: match.Definition,
		})
		byKey[d.Name.Key()] = d
	}

	drops := remainingInOrder(current, available, func(v *ir.MaterializedView) string { return v.Name.Key() })

	rebuilt := map[string]bool{}
	for _, p := range pairs {
		if p.body != p.oldBody {
			rebuilt[p.key] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, p := range pairs {
			if rebuilt[p.key] {
				continue
			}
			for other := range rebuilt {
				if viewReferences(p.body, byKey[other].Name) {
					rebuilt[p.key] = true
					changed = true
					break
				}
			}
		}
	}

	var keys []string
	for _, p := range pairs {
		if rebuilt[p.key] {
			keys = append(keys, p.key)
		}
	}
	visited := map[string]bool{}
	var order []string
	var visit func(key string)
	visit = func(key string) {
		if visited[key] {
			return
		}
		visited[key] = true
		body := byKey[key].Definition
		for _, other := range keys {
			if other != key && viewReferences(body, byKey[other].Name) {
				visit(other)
			}
		}
		order = append(order, key)
	}
	for _, k := range keys {
		visit(k)
	}

	for i := len(order) - 1; i >= 0; i-- {
		p := findMatViewPair(pairs, order[i])
		b.destructive(DropMaterializedView{Name: p.oldName})
	}
	for _, key := range order {
		b.keep(CreateMaterializedView{View: byKey[key]})
	}

	for _, p := range pairs {
		if !rebuilt[p.key] && p.renamed {
			b.keep(RenameMaterializedView{From: p.oldName, To: p.name})
		}
	}

	for _, d := range drops {
		b.destructive(DropMaterializedView{Name: d.Name})
	}
}

func findMatViewPair(pairs []matViewPair, key string) matViewPair {
	for _, p := range pairs {
		if p.key == key {
			return p
		}
	}
	return matViewPair{}
}
