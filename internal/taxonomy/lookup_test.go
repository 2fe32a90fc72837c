package taxonomy

import "testing"

func TestLookup_Answers(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	tests := []struct {
		name       string
		keyPath    string
		answer     string
		breadcrumb string
	}{
		{
			name:       "top-level leaf path",
			keyPath:    "1.1",
			answer:     "Refunds take 3-5 days.",
			breadcrumb: "billing >>> refund",
		},
		{
			name:       "sibling leaf",
			keyPath:    "1.2",
			answer:     "Invoices are emailed monthly.",
			breadcrumb: "billing >>> invoices",
		},
		{
			name:       "deep leaf",
			keyPath:    "2.1.1",
			answer:     "Contact the carrier with your tracking number.",
			breadcrumb: "shipping >>> tracking >>> lost package",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tree.Lookup(tt.keyPath)
			if !m.OK {
				t.Fatalf("Lookup(%q) not OK, want answer %q", tt.keyPath, tt.answer)
			}
			if m.Answer != tt.answer {
				t.Errorf("Answer = %q, want %q", m.Answer, tt.answer)
			}
			if m.Breadcrumb != tt.breadcrumb {
				t.Errorf("Breadcrumb = %q, want %q", m.Breadcrumb, tt.breadcrumb)
			}
		})
	}
}

func TestLookup_NeverMatches(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	// Model output is untrusted: none of these may panic or error, all must
	// simply report no match.
	tests := []struct {
		name    string
		keyPath string
	}{
		{"sentinel", "0"},
		{"empty", ""},
		{"unknown path", "9.9.9"},
		{"unknown top level", "7"},
		{"non-digit segment", "1.a"},
		{"trailing dot", "1."},
		{"leading dot", ".1"},
		{"double dot", "1..1"},
		{"negative segment", "-1"},
		{"intermediate zero", "1.0.2"},
		{"whitespace", " 1.1"},
		{"too deep", "1.1.1.1"},
		{"garbage", "not a path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := tree.Lookup(tt.keyPath); m.OK {
				t.Errorf("Lookup(%q) = %+v, want no match", tt.keyPath, m)
			}
		})
	}
}

func TestLookup_IntermediateCategory(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	// "1" names a real category but carries no answer: no match, but the
	// breadcrumb reports what was resolved.
	m := tree.Lookup("1")
	if m.OK {
		t.Fatalf("Lookup(1) = %+v, want no match", m)
	}
	if m.Breadcrumb != "billing" {
		t.Errorf("Breadcrumb = %q, want %q", m.Breadcrumb, "billing")
	}
}

func TestLookup_TrailingZero(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	// "2.1.0": the model matched "tracking" but none of its sub-categories.
	m := tree.Lookup("2.1.0")
	if m.OK {
		t.Fatalf("Lookup(2.1.0) = %+v, want no match", m)
	}
	if want := "shipping >>> tracking >>> <none>"; m.Breadcrumb != want {
		t.Errorf("Breadcrumb = %q, want %q", m.Breadcrumb, want)
	}

	// Trailing ".0" under an unknown parent stays a plain miss.
	if m := tree.Lookup("9.0"); m.OK || m.Breadcrumb != "" {
		t.Errorf("Lookup(9.0) = %+v, want empty match", m)
	}
}
