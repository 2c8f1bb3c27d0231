package diff

import "github.com/sqldef/stateql/ir"

// This file covers the object kinds whose lifecycle is create/drop only
// (trigger, function, extension, schema, policy: a body change is simply a
// drop followed by a create, there being no dedicated Alter op for them in
// the closed operation sum) plus type/domain, which do carry an inner
// change sum.

func diffTriggers(b *diffBuilder, current, desired []*ir.Trigger) {
	available := make(map[string]*ir.Trigger, len(current))
	for _, t := range current {
		available[t.Key()] = t
	}
	for _, d := range desired {
		if c, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			if c.Timing != d.Timing || !stringSlicesEqual(c.Events, d.Events) || c.Body != d.Body {
				b.destructive(DropTrigger{Table: c.Table, Name: c.Name})
				b.keep(CreateTrigger{Trigger: d})
			}
			continue
		}
		b.keep(CreateTrigger{Trigger: d})
	}
	drops := remainingInOrder(current, available, func(t *ir.Trigger) string { return t.Key() })
	for _, c := range drops {
		b.destructive(DropTrigger{Table: c.Table, Name: c.Name})
	}
}

func diffFunctions(b *diffBuilder, current, desired []*ir.Function) {
	available := make(map[string]*ir.Function, len(current))
	for _, f := range current {
		available[f.Key()] = f
	}
	for _, d := range desired {
		if c, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			if c.ReturnType != d.ReturnType || c.Language != d.Language || c.Body != d.Body {
				b.destructive(DropFunction{Name: c.Name, Args: c.Args})
				b.keep(CreateFunction{Function: d})
			}
			continue
		}
		b.keep(CreateFunction{Function: d})
	}
	drops := remainingInOrder(current, available, func(f *ir.Function) string { return f.Key() })
	for _, c := range drops {
		b.destructive(DropFunction{Name: c.Name, Args: c.Args})
	}
}

// diffTypes handles the enum-value inner change sum; composite types (and
// an enum/composite kind change) have no finer-grained alteration and fall
// back to drop+create.
func diffTypes(b *diffBuilder, current, desired []*ir.TypeDef) {
	available := make(map[string]*ir.TypeDef, len(current))
	for _, t := range current {
		available[t.Key()] = t
	}
	for _, d := range desired {
		c, ok := available[d.Key()]
		if !ok {
			b.keep(CreateType{Type: d})
			continue
		}
		delete(available, d.Key())
		if c.Kind != d.Kind {
			b.destructive(DropType{Name: c.Name})
			b.keep(CreateType{Type: d})
			continue
		}
		if c.Kind != ir.TypeKindEnum {
			continue // composite types carry nothing further to compare here
		}
		changes := diffEnumValues(c.EnumValues, d.EnumValues)
		if len(changes) == 0 {
			continue
		}
		hasRemoval := false
		for _, ch := range changes {
			if ch.Kind == TypeEnumValueRemoved {
				hasRemoval = true
			}
		}
		if hasRemoval {
			b.destructive(AlterType{Name: d.Name, Changes: changes})
		} else {
			b.keep(AlterType{Name: d.Name, Changes: changes})
		}
	}
	drops := remainingInOrder(current, available, func(t *ir.TypeDef) string { return t.Key() })
	for _, c := range drops {
		b.destructive(DropType{Name: c.Name})
	}
}

func diffEnumValues(current, desired []string) []TypeChange {
	currentSet := make(map[string]bool, len(current))
	for _, v := range current {
		currentSet[v] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, v := range desired {
		desiredSet[v] = true
	}
	var changes []TypeChange
	var after string
	for _, v := range desired {
		if !currentSet[v] {
			changes = append(changes, TypeChange{Kind: TypeEnumValueAdded, Value: v, After: after})
		}
		after = v
	}
	for _, v := range current {
		if !desiredSet[v] {
			changes = append(changes, TypeChange{Kind: TypeEnumValueRemoved, Value: v})
		}
	}
	return changes
}

// diffDomains handles the domain inner change sum (base type, not-null,
// default, and per-check add/remove). Only check removal is treated as
// destructive; the others are plain alterations.
func diffDomains(b *diffBuilder, current, desired []*ir.Domain) {
	available := make(map[string]*ir.Domain, len(current))
	for _, d := range current {
		available[d.Key()] = d
	}
	for _, d := range desired {
		c, ok := available[d.Key()]
		if !ok {
			b.keep(CreateDomain{Domain: d})
			continue
		}
		delete(available, d.Key())
		changes := diffDomainBody(c, d)
		if len(changes) == 0 {
			continue
		}
		hasRemoval := false
		for _, ch := range changes {
			if ch.Kind == DomainCheckRemoved {
				hasRemoval = true
			}
		}
		if hasRemoval {
			b.destructive(AlterDomain{Name: d.Name, Changes: changes})
		} else {
			b.keep(AlterDomain{Name: d.Name, Changes: changes})
		}
	}
	drops := remainingInOrder(current, available, func(d *ir.Domain) string { return d.Key() })
	for _, c := range drops {
		b.destructive(DropDomain{Name: c.Name})
	}
}

func diffDomainBody(c, d *ir.Domain) []DomainChange {
	var changes []DomainChange
	if c.BaseType != d.BaseType {
		changes = append(changes, DomainChange{Kind: DomainBaseTypeChanged, OldText: c.BaseType, NewText: d.BaseType})
	}
	if c.NotNull != d.NotNull {
		nn := DomainChange{Kind: DomainNotNullChanged, OldText: "false", NewText: "false"}
		if c.NotNull {
			nn.OldText = "true"
		}
		if d.NotNull {
			nn.NewText = "true"
		}
		changes = append(changes, nn)
	}
	if !exprPtrsEquivalent(nil, c.Default, d.Default) {
		changes = append(changes, DomainChange{Kind: DomainDefaultChanged})
	}
	matched := make([]bool, len(c.Checks))
	for _, dc := range d.Checks {
		found := -1
		for i, cc := range c.Checks {
			if !matched[i] && cc.Name == dc.Name {
				found = i
				break
			}
		}
		if found < 0 {
			check := dc
			changes = append(changes, DomainChange{Kind: DomainCheckAdded, Check: &check})
			continue
		}
		matched[found] = true
	}
	for i, cc := range c.Checks {
		if !matched[i] {
			check := cc
			changes = append(changes, DomainChange{Kind: DomainCheckRemoved, Check: &check})
		}
	}
	return changes
}

func diffExtensions(b *diffBuilder, current, desired []*ir.Extension) {
	available := make(map[string]*ir.Extension, len(current))
	for _, e := range current {
		available[e.Key()] = e
	}
	for _, d := range desired {
		if c, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			if c.Version != d.Version {
				b.destructive(DropExtension{Name: c.Name})
				b.keep(CreateExtension{Extension: d})
			}
			continue
		}
		b.keep(CreateExtension{Extension: d})
	}
	drops := remainingInOrder(current, available, func(e *ir.Extension) string { return e.Key() })
	for _, c := range drops {
		b.destructive(DropExtension{Name: c.Name})
	}
}

func diffSchemas(b *diffBuilder, current, desired []*ir.SchemaDecl) {
	available := make(map[string]*ir.SchemaDecl, len(current))
	for _, s := range current {
		available[s.Key()] = s
	}
	for _, d := range desired {
		if _, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			continue
		}
		b.keep(CreateSchema{Schema: d})
	}
	drops := remainingInOrder(current, available, func(s *ir.SchemaDecl) string { return s.Key() })
	for _, c := range drops {
		b.destructive(DropSchema{Name: c.Name})
	}
}

func diffComments(b *diffBuilder, current, desired []*ir.Comment) {
	available := make(map[string]*ir.Comment, len(current))
	for _, c := range current {
		available[c.Key()] = c
	}
	for _, d := range desired {
		if c, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			if c.Text != d.Text {
				b.keep(SetComment{Comment: d})
			}
			continue
		}
		b.keep(SetComment{Comment: d})
	}
	drops := remainingInOrder(current, available, func(c *ir.Comment) string { return c.Key() })
	for _, c := range drops {
		b.destructive(DropComment{TargetKind: c.TargetKind, Target: c.Target})
	}
}

func diffPolicies(b *diffBuilder, current, desired []*ir.Policy) {
	available := make(map[string]*ir.Policy, len(current))
	for _, p := range current {
		available[p.Key()] = p
	}
	for _, d := range desired {
		if c, ok := available[d.Key()]; ok {
			delete(available, d.Key())
			if c.Permissive != d.Permissive || c.Scope != d.Scope || !stringSlicesEqual(c.Roles, d.Roles) ||
				c.Using != d.Using || c.WithCheck != d.WithCheck {
				b.destructive(DropPolicy{Table: c.Table, Name: c.Name})
				b.keep(CreatePolicy{Policy: d})
			}
			continue
		}
		b.keep(CreatePolicy{Policy: d})
	}
	drops := remainingInOrder(current, available, func(p *ir.Policy) string { return p.Key() })
	for _, c := range drops {
		b.destructive(DropPolicy{Table: c.Table, Name: c.Name})
	}
}
