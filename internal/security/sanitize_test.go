package security

import (
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		wantErr bool
	}{
		// Valid cases
		{"simple name", "site", false},
		{"with dash", "my-site", false},
		{"with underscore", "brad_site", false},
		{"with numbers", "api2", false},
		{"mixed case", "MySite", false},
		{"max length", strings.Repeat("a", MaxProjectNameLength), false},

		// Invalid cases
		{"empty name", "", true},
		{"starts with dash", "-y", true},
		{"looks like a flag", "--force", true},
		{"starts with dot", ".site", true},
		{"with slash", "my/site", true},
		{"with space", "my site", true},
		{"with quote", `site"`, true},
		{"command injection", "site; rm -rf /", true},
		{"path traversal", "../etc/passwd", true},
		{"too long", strings.Repeat("a", MaxProjectNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.project)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkValidateProjectName(b *testing.B) {
	name := "my-site_123"
	for i := 0; i < b.N; i++ {
		_ = ValidateProjectName(name)
	}
}
