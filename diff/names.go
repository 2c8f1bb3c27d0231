package diff

import "github.com/sqldef/stateql/ir"

// renamable is satisfied by the object kinds that carry both a qualified
// name and an optional renamed_from back-reference: Table, View,
// MaterializedView. Index's rename support is handled
// separately (diff/index.go) since its identity key is (owner, name), not
// a bare qualified name.
type renamable interface {
	QName() ir.QualifiedName
	RenamedFromName() *ir.QualifiedName
}

// contains reports whether s appears in path.
func contains(path []string, s string) bool {
	for _, p := range path {
		if p == s {
			return true
		}
	}
	return false
}

// resolveMatch implements the name-resolution protocol: an
// unqualified desired name matches the earliest search-path schema that has
// an available current object under that name; a qualified desired name
// matches its exact current key, or an unqualified current key when its own
// schema is in the search path. available holds the keys of current
// objects not yet consumed by an earlier (necessarily declaration-earlier)
// desired object.
func resolveMatch(desired ir.QualifiedName, available map[string]bool, searchPath []string) (string, bool) {
	if exact := desired.Key(); available[exact] {
		return exact, true
	}
	if desired.HasSchema() {
		if contains(searchPath, desired.Schema.Value) {
			unqualified := ir.QualifiedName{Name: desired.Name}.Key()
			if available[unqualified] {
				return unqualified, true
			}
		}
		return "", false
	}
	for _, schema := range searchPath {
		key := ir.QualifiedName{Schema: ir.NewIdentifier(schema), Name: desired.Name}.Key()
		if available[key] {
			return key, true
		}
	}
	return "", false
}

// resolveRename runs the rename protocol ahead of plain name resolution: if
// desired carries renamed_from and that key is still available, the match
// is a rename; otherwise fall back to resolveMatch on desired's own name.
// The matched current object is removed from available so later desired
// objects cannot re-match it.
func resolveRename[T renamable](desired T, available map[string]T, searchPath []string) (match T, renamed bool, ok bool) {
	keys := make(map[string]bool, len(available))
	for k := range available {
		keys[k] = true
	}
	if rf := desired.RenamedFromName(); rf != nil {
		if key, found := resolveMatch(*rf, keys, searchPath); found {
			m := available[key]
			delete(available, key)
			return m, true, true
		}
	}
	if key, found := resolveMatch(desired.QName(), keys, searchPath); found {
		m := available[key]
		delete(available, key)
		return m, false, true
	}
	var zero T
	return zero, false, false
}

// remainingInOrder filters original down to the entries whose key (per
// keyFunc) is still present in remaining, preserving original's order —
// used after a matching pass to recover the declaration-stable order of
// leftover (to-be-dropped) current objects, since map iteration order is
// not stable.
func remainingInOrder[T any](original []T, remaining map[string]T, keyFunc func(T) string) []T {
	var out []T
	for _, o := range original {
		if _, ok := remaining[keyFunc(o)]; ok {
			out = append(out, o)
		}
	}
	return out
}
