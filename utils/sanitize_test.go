package utils

import "testing"

// TestSanitizeHeaderFilename strips header-breaking characters.
func TestSanitizeHeaderFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.xlsx", "report.xlsx"},
		{"  padded.docx ", "padded.docx"},
		{"evil\r\nname.pptx", "evilname.pptx"},
		{`quo"ted.xlsx`, "quoted.xlsx"},
		{"", "download"},
	}
	for _, c := range cases {
		if got := SanitizeHeaderFilename(c.in); got != c.want {
			t.Fatalf("SanitizeHeaderFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
