package validation

import (
	"strings"
	"testing"
)

func TestValidateNonEmptyString(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{"valid", "title", "Kot", false},
		{"empty", "title", "", true},
		{"whitespace only", "title", " \t\n", true},
		{"unicode space only", "title", "　", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonEmptyString(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonEmptyString(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.fieldName) {
				t.Errorf("Error message should contain field name %q: %v", tt.fieldName, err)
			}
		})
	}
}

func TestValidateEntryID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"numeric", "1", false},
		{"generated", "_a1b2c3d4e5f60718", false},
		{"empty", "", true},
		{"inner space", "a b", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateEntryID(tt.id); (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntryID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntryTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"ascii", "Title", false},
		{"polish", "Zażółć gęślą jaźń", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"at limit in runes", strings.Repeat("ż", MaxTitleLength), false},
		{"over limit", strings.Repeat("a", MaxTitleLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateEntryTitle(tt.title); (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntryTitle() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntryDescription(t *testing.T) {
	if err := ValidateEntryDescription(""); err != nil {
		t.Errorf("empty description should be valid: %v", err)
	}
	if err := ValidateEntryDescription(strings.Repeat("x", MaxDescriptionLength+1)); err == nil {
		t.Error("overlong description should be invalid")
	}
}

func TestValidateSourceLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantErr  bool
	}{
		{"https url", "https://example.com/data.json", false},
		{"http url", "http://localhost:8080/data.json", false},
		{"file url", "file:///tmp/data.json", false},
		{"relative path", "data.json", false},
		{"absolute path", "/srv/data.json", false},
		{"empty", "", true},
		{"unsupported scheme", "ftp://example.com/data.json", true},
		{"missing host", "https:///data.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSourceLocation(tt.location); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceLocation(%q) error = %v, wantErr %v", tt.location, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"cached", false},
		{"remote", false},
		{"Cached", true}, // Case-sensitive
		{"local", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			err := ValidateStrategy(tt.strategy)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "strategy") {
				t.Errorf("Error message should mention 'strategy': %v", err)
			}
		})
	}
}

func TestValidateLocale(t *testing.T) {
	for _, ok := range []string{"pl", "pl-PL", "en", "de-CH"} {
		if err := ValidateLocale(ok); err != nil {
			t.Errorf("ValidateLocale(%q) should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "not a locale", "12345678901"} {
		if err := ValidateLocale(bad); err == nil {
			t.Errorf("ValidateLocale(%q) should return error", bad)
		}
	}
}

func TestValidateExportFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"csv", false},
		{"JSON", true},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := ValidateExportFormat(tt.format); (err != nil) != tt.wantErr {
				t.Errorf("ValidateExportFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidation_ConcurrentAccess(t *testing.T) {
	done := make(chan bool)

	for i := 0; i < 50; i++ {
		go func() {
			_ = ValidateEntryTitle("title")
			_ = ValidateStrategy("cached")
			_ = ValidateLocale("pl")
			_ = ValidateSourceLocation("https://example.com/data.json")
			done <- true
		}()
	}

	for i := 0; i < 50; i++ {
		<-done
	}
}
