package sqlddl

import (
	"testing"

	"github.com/sqldef/stateql/ir"
)

func TestParseCreateExtensionBasic(t *testing.T) {
	ext, ok := parseCreateExtension(NewScanner("create extension if not exists pgcrypto with version '1.3'"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ext.Name.Value != "pgcrypto" {
		t.Errorf("name = %q", ext.Name.Value)
	}
	if ext.Version != "1.3" {
		t.Errorf("version = %q", ext.Version)
	}
}

func TestParseCreateSchemaBasic(t *testing.T) {
	sd, ok := parseCreateSchema(NewScanner("create schema if not exists billing"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if sd.Name.Value != "billing" {
		t.Errorf("name = %q", sd.Name.Value)
	}
}

func TestParseCommentOnTable(t *testing.T) {
	c, ok := parseComment(NewScanner("comment on table users is 'application users'"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if c.TargetKind != ir.CommentOnTable {
		t.Errorf("target kind = %v", c.TargetKind)
	}
	if c.Target.Name.Value != "users" {
		t.Errorf("target = %+v", c.Target)
	}
	if c.Text != "application users" {
		t.Errorf("text = %q", c.Text)
	}
}

func TestParseCommentOnColumn(t *testing.T) {
	c, ok := parseComment(NewScanner("comment on column users.email is 'login identifier'"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if c.TargetKind != ir.CommentOnColumn {
		t.Errorf("target kind = %v", c.TargetKind)
	}
	if c.Target.Name.Value != "users.email" {
		t.Errorf("target name = %q", c.Target.Name.Value)
	}
}

func TestParseGrantBasic(t *testing.T) {
	p, ok := parseGrant(NewScanner("grant select, insert on table users to app_role with grant option"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(p.Operations) != 2 || p.Operations[0] != ir.PrivSelect || p.Operations[1] != ir.PrivInsert {
		t.Errorf("operations = %+v", p.Operations)
	}
	if p.Object.Name.Value != "users" {
		t.Errorf("object = %+v", p.Object)
	}
	if p.Grantee != "app_role" {
		t.Errorf("grantee = %q", p.Grantee)
	}
	if !p.WithGrantOption {
		t.Error("expected WithGrantOption true")
	}
}

func TestParseRevokeBasic(t *testing.T) {
	p, ok := parseRevoke(NewScanner("revoke grant option for select on table users from app_role"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(p.Operations) != 1 || p.Operations[0] != ir.PrivSelect {
		t.Errorf("operations = %+v", p.Operations)
	}
	if p.Grantee != "app_role" {
		t.Errorf("grantee = %q", p.Grantee)
	}
}

func TestParseCreatePolicyBasic(t *testing.T) {
	pol, ok := parseCreatePolicy(NewScanner("create policy p_own on orders as restrictive for select to app_role using (owner_id = current_user_id()) with check (owner_id = current_user_id())"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if pol.Name.Value != "p_own" {
		t.Errorf("name = %q", pol.Name.Value)
	}
	if pol.Table.Name.Value != "orders" {
		t.Errorf("table = %+v", pol.Table)
	}
	if pol.Permissive != "RESTRICTIVE" {
		t.Errorf("permissive = %q", pol.Permissive)
	}
	if pol.Scope != "SELECT" {
		t.Errorf("scope = %q", pol.Scope)
	}
	if len(pol.Roles) != 1 || pol.Roles[0] != "app_role" {
		t.Errorf("roles = %+v", pol.Roles)
	}
	if pol.Using != "owner_id = current_user_id()" {
		t.Errorf("using = %q", pol.Using)
	}
	if pol.WithCheck != "owner_id = current_user_id()" {
		t.Errorf("with check = %q", pol.WithCheck)
	}
}

func TestParseCreatePolicyDefaultsToPermissive(t *testing.T) {
	pol, ok := parseCreatePolicy(NewScanner("create policy p on t"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if pol.Permissive != "PERMISSIVE" {
		t.Errorf("permissive = %q", pol.Permissive)
	}
}
