// Package stage infers a pipeline stage and progress percentage from the
// free-text progress messages emitted by the analysis backend.
//
// The backend does not send structured progress; it sends human-readable
// lines like "LAYER 2B: Analyzing audio stream...". Classification is an
// ordered rule table evaluated top to bottom: the first rule whose pattern
// is contained in the message wins. Matching is case-sensitive substring
// containment. When no rule matches, the raw message becomes the stage label
// and the caller-supplied prior percentage is returned unchanged, so an
// unknown message never regresses the display.
package stage

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Mapping is the classified stage for one progress message.
type Mapping struct {
	Label      string
	Percentage int
}

// Rule maps message patterns to a stage label and a fixed percentage.
// A message matches when it contains any of the patterns. A rule with
// FrameCounter set instead parses a "Processed X/Y" counter and
// interpolates its percentage within the frame-analysis band.
type Rule struct {
	Patterns     []string
	Label        string
	Percentage   int
	FrameCounter bool
}

// Frame-by-frame analysis owns the band
// [frameBandStart, frameBandStart+frameBandWidth], interpolated linearly
// over X/Y. Interpolated percentages are rounded half away from zero.
const (
	frameBandStart = 20
	frameBandWidth = 15
)

var frameCounterRe = regexp.MustCompile(`Processed (\d+)/(\d+)`)

// rules is evaluated in order; earlier rules take priority.
var rules = []Rule{
	{Patterns: []string{"metadata", "Metadata"}, Label: "Metadata analysis", Percentage: 10},
	{Patterns: []string{"Extracting"}, Label: "Extracting frames", Percentage: 20},
	{Patterns: []string{"Processed "}, FrameCounter: true, Percentage: frameBandStart},
	{Patterns: []string{"temporal"}, Label: "Checking temporal consistency", Percentage: 40},
	{Patterns: []string{"3D"}, Label: "Running 3D model analysis", Percentage: 50},
	{Patterns: []string{"audio"}, Label: "Analyzing audio", Percentage: 60},
	{Patterns: []string{"physiological"}, Label: "Analyzing physiological signals", Percentage: 70},
	{Patterns: []string{"physics"}, Label: "Checking physics consistency", Percentage: 80},
	{Patterns: []string{"boundar"}, Label: "Analyzing scene boundaries", Percentage: 85},
	{Patterns: []string{"compression"}, Label: "Analyzing compression", Percentage: 90},
	{Patterns: []string{"Finalizing", "Combining", "Generating report", "complete", "Complete"}, Label: "Finalizing analysis", Percentage: 95},
}

// Classify maps one raw progress message to a stage. prior is the percentage
// currently displayed; it is returned verbatim when no rule matches. The
// function is pure and stateless: it never enforces monotonicity across
// calls, that is the orchestrator's job.
func Classify(message string, prior int) Mapping {
	for _, r := range rules {
		for _, p := range r.Patterns {
			if !strings.Contains(message, p) {
				continue
			}
			if r.FrameCounter {
				return classifyFrameCounter(message, r)
			}
			return Mapping{Label: r.Label, Percentage: r.Percentage}
		}
	}

	return Mapping{Label: message, Percentage: prior}
}

// classifyFrameCounter handles "Processed X/Y" messages. A message that
// matched the counter pattern but carries no parsable counter, or a counter
// with Y = 0, maps to the start of the band with the raw message as label.
// A counter past its total stays at the end of the band; the percentage
// never leaves [frameBandStart, frameBandStart+frameBandWidth].
func classifyFrameCounter(message string, r Rule) Mapping {
	groups := frameCounterRe.FindStringSubmatch(message)
	if groups == nil {
		return Mapping{Label: message, Percentage: r.Percentage}
	}

	var x, y int
	fmt.Sscanf(groups[1], "%d", &x)
	fmt.Sscanf(groups[2], "%d", &y)

	pct := r.Percentage
	if y > 0 {
		ratio := float64(x) / float64(y)
		if ratio > 1 {
			ratio = 1
		}
		pct = int(math.Round(frameBandStart + frameBandWidth*ratio))
	}
	return Mapping{
		Label:      fmt.Sprintf("Analyzing frames (%d/%d)", x, y),
		Percentage: pct,
	}
}
