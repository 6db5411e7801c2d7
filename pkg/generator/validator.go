package generator

import "strings"

// svgOpenTag is the literal marker an accepted artifact must begin with.
const svgOpenTag = "<svg"

// ValidArtifact reports whether the artifact text, after trimming surrounding
// whitespace, begins with the SVG open tag. No well-formedness check is
// performed; rejection is a normal negative outcome, not an error.
func ValidArtifact(artifact string) bool {
	return strings.HasPrefix(strings.TrimSpace(artifact), svgOpenTag)
}
