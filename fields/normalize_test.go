package fields

import "testing"

func TestNormalizeAadhaar(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"3425  0653  1151", "3425 0653 1151", true},
		{"342506531151", "3425 0653 1151", true},
		{"id: 3425-0653-1151.", "3425 0653 1151", true},
		{"1234 5678 9012", "1234 5678 9012", true}, // already canonical
		{"12345678901", "", false},                 // 11 digits
		{"1234567890123", "", false},               // 13 digits
		{"", "", false},
		{"no digits here", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeAadhaar(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Fatalf("NormalizeAadhaar(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}

func TestNormalizeAadhaarIdempotent(t *testing.T) {
	first, ok := NormalizeAadhaar("3425  0653  1151")
	if !ok {
		t.Fatalf("first pass failed")
	}
	second, ok := NormalizeAadhaar(first)
	if !ok || second != first {
		t.Fatalf("second pass = (%q, %v), want (%q, true)", second, ok, first)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"28/05/2000", "28/05/2000", true},
		{"28-05-2000", "28/05/2000", true},
		{"DOB: 28/05/00", "28/05/00", true},
		{"49a71987", "1987", true}, // bare-year fallback after digit extraction
		{"2000", "2000", true},
		{"abcxyz", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Fatalf("NormalizeDate(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}

func TestNormalizeGender(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"Female", "Female", true},
		{"FEMALE:", "Female", true},
		{"eeniale female", "Female", true},
		{"Male", "Male", true},
		{"femal", "Female", true}, // OCR-truncated
		{"male female", "Female", true},
		{"M", "Male", true},
		{"f", "Female", true},
		{"xyz", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeGender(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Fatalf("NormalizeGender(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}

func TestNormalizeFreeText(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"  john   DOE..", "John Doe", true},
		{"o'BRIEN", "O'Brien", true},
		{"jean-luc picard", "Jean-Luc Picard", true},
		{"RAJESH KUMAR 12345", "Rajesh Kumar", true},
		{"..,,''--", "", false},
		{"12345", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeFreeText(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Fatalf("NormalizeFreeText(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}

func TestNormalizeVID(t *testing.T) {
	got, ok := NormalizeVID("vid 9171 8000 1234 5678")
	if !ok || got != "9171 8000 1234 5678" {
		t.Fatalf("NormalizeVID() = (%q, %v)", got, ok)
	}
	if _, ok := NormalizeVID("9171 8000 1234"); ok {
		t.Fatalf("expected 12 digits to be rejected for VID")
	}
}

func TestNormalizePhone(t *testing.T) {
	got, ok := NormalizePhone("ph: 98765-43210")
	if !ok || got != "9876543210" {
		t.Fatalf("NormalizePhone() = (%q, %v)", got, ok)
	}
	if _, ok := NormalizePhone("12345"); ok {
		t.Fatalf("expected short number to be rejected")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got, ok := NormalizeWhitespace("  a \t b\nc  ")
	if !ok || got != "a b c" {
		t.Fatalf("NormalizeWhitespace() = (%q, %v)", got, ok)
	}
	if _, ok := NormalizeWhitespace("   "); ok {
		t.Fatalf("expected blank input to be rejected")
	}
}
