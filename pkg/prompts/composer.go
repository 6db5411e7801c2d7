package prompts

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Enumerated sets used to diversify successive idea prompts. Each prompt draws
// one element from each set independently; repeats across a run are fine.
var (
	shapes = []string{"circles", "triangles", "squares", "stars", "crescents", "hexagons"}
	colors = []string{"warm red", "deep blue", "golden yellow", "forest green", "soft purple", "bright orange"}
	themes = []string{"nature", "space", "the ocean", "the city", "weather", "animals"}
	styles = []string{"minimalist", "geometric", "playful", "abstract", "flat design", "retro"}
)

// Composer builds the idea and artifact prompts for a generation run.
// The random source is injected so prompt diversity is reproducible in tests.
type Composer struct {
	rng              *rand.Rand
	seedDescriptions []string
}

type ComposerOption func(*Composer)

// WithRand sets the random source used for prompt diversification.
func WithRand(rng *rand.Rand) ComposerOption {
	return func(c *Composer) {
		c.rng = rng
	}
}

// WithSeedDescriptions sets the example descriptions embedded in idea prompts.
func WithSeedDescriptions(descriptions []string) ComposerOption {
	return func(c *Composer) {
		c.seedDescriptions = descriptions
	}
}

// NewComposer creates a prompt composer.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// SystemPrompt returns the role instruction for idea generation.
func (c *Composer) SystemPrompt() string {
	return "You are a creative assistant that invents short, vivid descriptions of simple images. " +
		"Reply with exactly one single-sentence description and nothing else."
}

// ArtifactSystemPrompt returns the role instruction for SVG generation.
func (c *Composer) ArtifactSystemPrompt() string {
	return "You are an expert SVG illustrator. You output only raw SVG markup, never prose and never markdown fences."
}

// IdeaPrompt builds the instruction requesting one new, unique image idea.
// Previously accepted ideas are listed so the model steers away from them.
func (c *Composer) IdeaPrompt(previous []string) string {
	shape := shapes[c.rng.Intn(len(shapes))]
	color := colors[c.rng.Intn(len(colors))]
	theme := themes[c.rng.Intn(len(themes))]
	style := styles[c.rng.Intn(len(styles))]

	var b strings.Builder
	b.WriteString("Invent one new idea for a simple image, described in a single short sentence.\n")
	fmt.Fprintf(&b, "Draw inspiration from %s, a touch of %s, the theme of %s, and a %s style.\n", shape, color, theme, style)

	if len(c.seedDescriptions) > 0 {
		b.WriteString("\nExamples of the kind of description wanted:\n")
		for _, d := range c.seedDescriptions {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if len(previous) > 0 {
		b.WriteString("\nThe idea must be different from all of these already used ideas:\n")
		for _, idea := range previous {
			fmt.Fprintf(&b, "- %s\n", idea)
		}
	}

	b.WriteString("\nRespond with the single-sentence description only.")
	return b.String()
}

// ArtifactPrompt builds the instruction requesting SVG markup for one idea.
func (c *Composer) ArtifactPrompt(idea string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create an SVG image of: %s\n\n", idea)
	b.WriteString("Requirements:\n")
	b.WriteString("- Keep it simple and clean, using only a few primitives (rect, circle, ellipse, line, polygon, path).\n")
	b.WriteString("- Include explicit width, height and viewBox attributes on the root element.\n")
	b.WriteString("- Vary the composition: randomize positions, sizes and colors a little so no two images look identical.\n")
	b.WriteString("- Output ONLY the SVG markup. No explanation, no commentary, no markdown code fences.\n")
	b.WriteString("- The response must start with <svg and end with </svg>.")
	return b.String()
}
