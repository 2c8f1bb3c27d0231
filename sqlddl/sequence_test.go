package sqlddl

import "testing"

func TestParseSequenceCreateBasic(t *testing.T) {
	seq, ok := parseSequence(NewScanner("create sequence seq_id as integer increment by 1 start with 100 cache 20 cycle"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if seq.Name.Name.Value != "seq_id" {
		t.Errorf("name = %+v", seq.Name)
	}
	if seq.DataType != "integer" {
		t.Errorf("data type = %q", seq.DataType)
	}
	if seq.IncrementBy == nil || *seq.IncrementBy != 1 {
		t.Errorf("increment by = %v", seq.IncrementBy)
	}
	if seq.StartWith == nil || *seq.StartWith != 100 {
		t.Errorf("start with = %v", seq.StartWith)
	}
	if seq.Cache == nil || *seq.Cache != 20 {
		t.Errorf("cache = %v", seq.Cache)
	}
	if !seq.Cycle {
		t.Error("expected cycle = true")
	}
}

func TestParseSequenceNoMinMaxValue(t *testing.T) {
	seq, ok := parseSequence(NewScanner("create sequence s no minvalue no maxvalue"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if !seq.NoMinValue || !seq.NoMaxValue {
		t.Errorf("got NoMinValue=%v NoMaxValue=%v", seq.NoMinValue, seq.NoMaxValue)
	}
}

func TestParseSequenceOwnedBy(t *testing.T) {
	seq, ok := parseSequence(NewScanner("create sequence s owned by users.id"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if seq.OwnedBy != "users.id" {
		t.Errorf("owned by = %q", seq.OwnedBy)
	}
}

func TestParseSequenceAlterIfExists(t *testing.T) {
	seq, ok := parseSequence(NewScanner("alter sequence if exists s restart with 5 increment by 2"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if seq.Name.Name.Value != "s" {
		t.Errorf("name = %+v", seq.Name)
	}
	if seq.IncrementBy == nil || *seq.IncrementBy != 2 {
		t.Errorf("increment by = %v", seq.IncrementBy)
	}
}

func TestParseSequenceCreateIfNotExists(t *testing.T) {
	seq, ok := parseSequence(NewScanner("create sequence if not exists s"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if seq.Name.Name.Value != "s" {
		t.Errorf("name = %+v", seq.Name)
	}
}

func TestParseSequenceRejectsOtherStatement(t *testing.T) {
	if _, ok := parseSequence(NewScanner("create table t (a int)")); ok {
		t.Fatal("expected parse to fail for a CREATE TABLE statement")
	}
}
