package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+15551234567",
			want:  "+15551234567",
		},
		{
			name:  "with spaces",
			input: "+44 7911 123456",
			want:  "+447911123456",
		},
		{
			name:  "with dashes",
			input: "+1-212-555-1234",
			want:  "+12125551234",
		},
		{
			name:  "with parentheses",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "UK national format",
			input: "07911 123456",
			want:  "+447911123456",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +447911123456  ",
			want:  "+447911123456",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+447911123456", "+1 (212) 555-1234", "07911123456"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		twice := NormalizePhone(once)
		if once != twice {
			t.Errorf("NormalizePhone not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
