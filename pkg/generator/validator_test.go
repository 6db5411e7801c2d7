package generator

import "testing"

func TestValidArtifact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain_svg", "<svg viewBox='0 0 10 10'/>", true},
		{"surrounding_whitespace", "  <svg viewBox='0 0 10 10'/>  ", true},
		{"leading_newline", "\n<svg width='64' height='64'></svg>", true},
		{"prose", "not svg", false},
		{"empty", "", false},
		{"whitespace_only", "   \n\t ", false},
		{"markdown_fence", "```xml\n<svg/>\n```", false},
		{"xml_declaration", "<?xml version=\"1.0\"?><svg/>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidArtifact(tt.in); got != tt.want {
				t.Errorf("ValidArtifact(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
