package locale

import "testing"

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{
			name:     "UK phone",
			phone:    "+447911123456",
			wantCode: "GB",
		},
		{
			name:     "UK phone without plus",
			phone:    "447911123456",
			wantCode: "GB",
		},
		{
			name:     "US phone",
			phone:    "+12125551234",
			wantCode: "US",
		},
		{
			name:     "Irish phone",
			phone:    "+353861234567",
			wantCode: "IE",
		},
		{
			name:    "unknown country",
			phone:   "+972541234567",
			wantNil: true,
		},
		{
			name:    "empty phone",
			phone:   "",
			wantNil: true,
		},
		{
			name:    "invalid phone",
			phone:   "not-a-phone",
			wantNil: true,
		},
		{
			name:     "formatted number with separators",
			phone:    "+44 (0) 7911-123456",
			wantCode: "GB",
		},
		{
			name:     "double zero international prefix",
			phone:    "0044 7911 123456",
			wantCode: "GB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if got != nil {
					t.Errorf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("InferCountryFromPhone(%q) = nil, want %s", tt.phone, tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("InferCountryFromPhone(%q).Code = %s, want %s", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+447911123456", "Europe/London"},
		{"+12125551234", "America/New_York"},
		{"+353861234567", "Europe/Dublin"},
		{"", DefaultTimezone},
		{"+972541234567", DefaultTimezone},
	}

	for _, tt := range tests {
		got := InferTimezoneFromPhone(tt.phone)
		if got != tt.want {
			t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}
