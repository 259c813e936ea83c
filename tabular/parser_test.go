package tabular

import (
	"reflect"
	"testing"
)

func TestParseConceptList(t *testing.T) {
	names := ParseConceptList("Dog\n\n  Cat  \ndog\nMouse\nCAT\n")
	want := []string{"Dog", "Cat", "Mouse"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ParseConceptList = %v, want %v", names, want)
	}
}

func TestParseRowsTabDelimited(t *testing.T) {
	set := ParseRows("Dog\tis-a\tMammal\nDog\tchases\tCat\n")
	if len(set.Invalid) != 0 {
		t.Fatalf("unexpected invalid rows: %+v", set.Invalid)
	}
	if len(set.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(set.Rows))
	}
	if set.Rows[0] != (Row{Subject: "Dog", Relation: "is-a", Object: "Mammal", Line: 1}) {
		t.Errorf("unexpected first row: %+v", set.Rows[0])
	}
}

func TestParseRowsPipeDelimited(t *testing.T) {
	set := ParseRows("Dog | is-a | Mammal\n")
	if len(set.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d (invalid: %+v)", len(set.Rows), set.Invalid)
	}
	row := set.Rows[0]
	if row.Subject != "Dog" || row.Relation != "is-a" || row.Object != "Mammal" {
		t.Errorf("fields not trimmed: %+v", row)
	}
}

func TestParseRowsTabWinsOverPipe(t *testing.T) {
	// A tab-delimited row whose fields contain pipes must split on tab.
	set := ParseRows("A|B\tis-a\tC|D\n")
	if len(set.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d (invalid: %+v)", len(set.Rows), set.Invalid)
	}
	if set.Rows[0].Subject != "A|B" || set.Rows[0].Object != "C|D" {
		t.Errorf("tab should take precedence over pipe: %+v", set.Rows[0])
	}
}

func TestParseRowsInvalid(t *testing.T) {
	set := ParseRows("Dog|is-a\nDog|is-a|Mammal|extra\nDog| |Mammal\n \nCat|is-a|Mammal\n")

	if len(set.Rows) != 1 || set.Rows[0].Subject != "Cat" {
		t.Fatalf("valid rows must survive invalid neighbors: %+v", set.Rows)
	}
	if len(set.Invalid) != 3 {
		t.Fatalf("expected 3 invalid rows, got %d: %+v", len(set.Invalid), set.Invalid)
	}

	reasons := map[int]string{}
	for _, bad := range set.Invalid {
		reasons[bad.Line] = bad.Reason
	}
	if reasons[1] != "expected 3 fields, got 2" {
		t.Errorf("line 1 reason: %q", reasons[1])
	}
	if reasons[2] != "expected 3 fields, got 4" {
		t.Errorf("line 2 reason: %q", reasons[2])
	}
	if reasons[3] != "relation is blank" {
		t.Errorf("line 3 reason: %q", reasons[3])
	}
}
