package diff

import "github.com/sqldef/stateql/ir"

// diffPrivileges implements the privilege set algebra: for
// each matched (object, grantee), a Grant carries operations present only
// in desired, a Revoke carries operations present only in current, and a
// with_grant_option upgrade/downgrade on shared operations becomes its own
// Grant/Revoke. PrivAll expands to the fixed 12-operation enumeration
// before comparison so an expanded-ALL privilege is equal to an otherwise
// equal one spelled out explicitly.
func diffPrivileges(b *diffBuilder, current, desired []*ir.Privilege) {
	available := make(map[string]*ir.Privilege, len(current))
	for _, p := range current {
		available[p.Key()] = p
	}

	for _, d := range desired {
		key := d.Key()
		c, ok := available[key]
		if !ok {
			b.keep(Grant{Object: d.Object, Grantee: d.Grantee, Operations: d.Operations, WithGrantOption: d.WithGrantOption})
			continue
		}
		delete(available, key)

		desiredSet := expandPrivilegeSet(d.Operations)
		currentSet := expandPrivilegeSet(c.Operations)
		var added, removed, shared []ir.PrivilegeOp
		for _, op := range ir.AllPrivilegeOps {
			inD, inC := desiredSet[op], currentSet[op]
			switch {
			case inD && !inC:
				added = append(added, op)
			case !inD && inC:
				removed = append(removed, op)
			case inD && inC:
				shared = append(shared, op)
			}
		}

		if len(added) > 0 {
			b.keep(Grant{Object: d.Object, Grantee: d.Grantee, Operations: added, WithGrantOption: d.WithGrantOption})
		}
		if len(removed) > 0 {
			b.destructive(Revoke{Object: d.Object, Grantee: d.Grantee, Operations: removed})
		}
		if len(shared) > 0 {
			switch {
			case d.WithGrantOption && !c.WithGrantOption:
				b.keep(Grant{Object: d.Object, Grantee: d.Grantee, Operations: shared, WithGrantOption: true})
			case !d.WithGrantOption && c.WithGrantOption:
				b.destructive(Revoke{Object: d.Object, Grantee: d.Grantee, Operations: shared, RevokeGrantOptionOnly: true})
			}
		}
	}

	drops := remainingInOrder(current, available, func(p *ir.Privilege) string { return p.Key() })
	for _, c := range drops {
		b.destructive(Revoke{Object: c.Object, Grantee: c.Grantee, Operations: c.Operations})
	}
}

func expandPrivilegeSet(ops []ir.PrivilegeOp) map[ir.PrivilegeOp]bool {
	set := make(map[ir.PrivilegeOp]bool, len(ir.AllPrivilegeOps))
	for _, op := range ops {
		if op == ir.PrivAll {
			for _, full := range ir.AllPrivilegeOps {
				set[full] = true
			}
			continue
		}
		set[op] = true
	}
	return set
}
