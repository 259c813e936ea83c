package vocabulary

import "testing"

func TestIsSubclassType(t *testing.T) {
	tests := []struct {
		relType string
		want    bool
	}{
		{"is-a", true},
		{"isa", true},
		{"subclass-of", true},
		{"type", true},
		{"IS-A", true},
		{"  Type  ", true},
		{"has-part", false},
		{"chases", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSubclassType(tt.relType); got != tt.want {
			t.Errorf("IsSubclassType(%q) = %v, want %v", tt.relType, got, tt.want)
		}
	}
}

func TestXSDTypeRoundTrip(t *testing.T) {
	for _, dt := range []string{"integer", "decimal", "boolean", "date", "datetime", "string"} {
		if got := DataTypeFromXSD(XSDType(dt)); got != dt {
			t.Errorf("DataTypeFromXSD(XSDType(%q)) = %q", dt, got)
		}
	}
}

func TestXSDTypeFallback(t *testing.T) {
	if got := XSDType("whatever"); got != XSD+"string" {
		t.Errorf("unknown data type should fall back to xsd:string, got %s", got)
	}
	if got := DataTypeFromXSD("http://example.org/custom"); got != "string" {
		t.Errorf("unknown XSD IRI should map to string, got %s", got)
	}
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		iri  string
		want string
	}{
		{"http://example.org/onto#Dog", "Dog"},
		{"http://example.org/onto/Dog", "Dog"},
		{"http://example.org/onto/Dog/", "Dog"},
		{"Dog", "Dog"},
	}
	for _, tt := range tests {
		if got := LocalName(tt.iri); got != tt.want {
			t.Errorf("LocalName(%q) = %q, want %q", tt.iri, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"has-part", "Has part"},
		{"hasPart", "Has part"},
		{"has_part", "Has part"},
		{"Dog", "Dog"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeLocalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Golden Dog", "Golden-Dog"},
		{"  Dog  ", "Dog"},
		{"café au lait", "café-au-lait"},
		{"a/b#c", "abc"},
		{"snake_case", "snake_case"},
	}
	for _, tt := range tests {
		if got := SafeLocalName(tt.in); got != tt.want {
			t.Errorf("SafeLocalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrefixOrderStable(t *testing.T) {
	a := Prefixes()
	b := Prefixes()
	if len(a) != len(b) {
		t.Fatal("prefix tables differ in length")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("prefix table not stable at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}
