package phone

import "testing"

func TestNormalizeAndFormat(t *testing.T) {
	cases := []struct {
		in, norm, formatted string
	}{
		{"(11) 99999-8888", "11999998888", "(11) 99999-8888"},
		{"11999998888", "11999998888", "(11) 99999-8888"},
		{"1133", "1133", "(11) 33"},
		{"1", "1", "(1"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.norm {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.norm)
		}
		if got := Format(tc.in); got != tc.formatted {
			t.Fatalf("Format(%q) = %q, want %q", tc.in, got, tc.formatted)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("(11) 99999-8888") {
		t.Fatal("expected valid")
	}
	if Valid("12345") {
		t.Fatal("expected invalid")
	}
}
