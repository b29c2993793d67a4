package knowledge

import (
	"fmt"
	"strings"
)

const disclaimer = "DISCLAIMER: This analysis is for informational purposes only. " +
	"Please consult a qualified dermatologist for professional medical advice."

// ExplanationGenerator composes plain-language explanations of a diagnosis
// from knowledge base entries. Output is deterministic for a given
// diagnosis and confidence.
type ExplanationGenerator struct {
	kb *Base
}

func NewExplanationGenerator(kb *Base) *ExplanationGenerator {
	return &ExplanationGenerator{kb: kb}
}

// Generate builds the full multi-line explanation: the identified class
// and confidence, its description, up to three characteristics, up to two
// risk factors, the recommendation, and a fixed disclaimer. An unknown
// diagnosis yields a single-sentence fallback.
func (g *ExplanationGenerator) Generate(diagnosis string, confidence float64) string {
	info, ok := g.kb.Retrieve(diagnosis)
	if !ok {
		return fmt.Sprintf("The model detected %s with %.1f%% confidence.", diagnosis, confidence*100)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The AI model identified this lesion as %s with %.1f%% confidence.\n", diagnosis, confidence*100)
	fmt.Fprintf(&b, "\n%s\n", info.Description)

	if len(info.Characteristics) > 0 {
		b.WriteString("\nKey characteristics observed:\n")
		for _, c := range firstN(info.Characteristics, 3) {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	if len(info.RiskFactors) > 0 {
		b.WriteString("\nRisk factors associated with this condition:\n")
		for _, f := range firstN(info.RiskFactors, 2) {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}

	if info.Recommendation != "" {
		fmt.Fprintf(&b, "\nRecommendation: %s\n", info.Recommendation)
	}

	fmt.Fprintf(&b, "\n%s", disclaimer)
	return b.String()
}

// GenerateShort builds a one-line summary of the diagnosis.
func (g *ExplanationGenerator) GenerateShort(diagnosis string, confidence float64) string {
	if info, ok := g.kb.Retrieve(diagnosis); ok {
		return fmt.Sprintf("%s (%.1f%% confidence): %s", diagnosis, confidence*100, info.Description)
	}
	return fmt.Sprintf("%s (%.1f%% confidence)", diagnosis, confidence*100)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
