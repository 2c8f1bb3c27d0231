package diff

import (
	"strings"

	"github.com/sqldef/stateql/ir"
)

// viewPair is a matched (current, desired) view, carrying just enough to
// drive the rebuild transitive closure.
type viewPair struct {
	key       string
	name      ir.QualifiedName
	body      string
	renamed   bool
	oldName   ir.QualifiedName
	oldBody   string
}

// diffViews implements view lifecycle plus the rebuild transitive closure:
// a body change forces drop-then-create, and every view whose body
// textually references a rebuilt view is pulled into the same rebuild, in
// topologically consistent order.
func diffViews(b *diffBuilder, current, desired []*ir.View) {
	available := make(map[string]*ir.View, len(current))
	for _, v := range current {
		available[v.Name.Key()] = v
	}

	var pairs []viewPair
	byKey := make(map[string]*ir.View) // desired view, by its own key

	for _, d := range desired {
		match, renamed, ok := resolveRename[*ir.View](d, available, b.cfg.SchemaSearchPath)
		if !ok {
			b.keep(CreateView{View: d})
			continue
		}
		pairs = append(pairs, viewPair{
			key: d.Name.Key(), name: d.Name, body: d.Definition,
			renamed: renamed, oldName: match.Name, oldBody: match.Definition,
		})
		byKey[d.Name.Key()] = d
	}

	drops := remainingInOrder(current, available, func(v *ir.View) string { return v.Name.Key() })

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

	createOrder := topoOrderViews(pairs, byKey, rebuilt)
	for i := len(createOrder) - 1; i >= 0; i-- {
		p := findPair(pairs, createOrder[i])
		b.destructive(DropView{Name: p.oldName})
	}
	for _, key := range createOrder {
		b.keep(CreateView{View: byKey[key]})
	}

	for _, p := range pairs {
		if !rebuilt[p.key] && p.renamed {
			b.keep(RenameView{From: p.oldName, To: p.name})
		}
	}

	for _, d := range drops {
		b.destructive(DropView{Name: d.Name})
	}
}

func findPair(pairs []viewPair, key string) viewPair {
	for _, p := range pairs {
		if p.key == key {
			return p
		}
	}
	return viewPair{}
}

// viewReferences is the conservative textual reachability check spec
// §4.4.4 calls for: a qualified or unqualified reference to name's bare
// identifier appearing anywhere in body. False positives are acceptable
// and expected (they bias toward an unnecessary rebuild, never a missed
// one); a real parser-level dependency graph is explicitly not required.
func viewReferences(body string, name ir.QualifiedName) bool {
	return strings.Contains(strings.ToLower(body), strings.ToLower(name.Name.Value))
}

// topoOrderViews returns the rebuilt keys in dependency-first order: a
// view appears only after every other rebuilt view its body references.
// That order is exactly right for CREATE (dependencies before dependents);
// the caller walks it back-to-front for DROP (dependents before what they
// depend on).
func topoOrderViews(pairs []viewPair, byKey map[string]*ir.View, rebuilt map[string]bool) []string {
	var keys []string
	for _, p := range pairs {
		if rebuilt[p.key] {
			keys = append(keys, p.key)
		}
	}

	visited := map[string]bool{}
	var result []string
	var visit func(key string)
	visit = func(key string) {
		if visited[key] {
			return
		}
		visited[key] = true
		body := byKey[key].Definition
		for _, other := range keys {
			if other == key {
				continue
			}
			if viewReferences(body, byKey[other].Name) {
				visit(other)
			}
		}
		result = append(result, key)
	}
	for _, k := range keys {
		visit(k)
	}
	return result
}
