package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Simplici0/webquote/internal/ratetable"
)

const instruction = `You review web project questionnaires and assess delivery complexity.
Return a single JSON object and nothing else, with these fields:
  "complexity_score": number 0-100,
  "confidence": number 0-1,
  "multipliers": object with one proposed level per factor,
  "factor_confidence": object mapping factor to a number 0-1,
  "highlights": array of short strings,
  "risks": array of short strings,
  "rationale": one short paragraph.
Only use these levels, listed from least to most effort:`

// BuildPrompt renders the model prompt for req.
func BuildPrompt(req Request) (string, error) {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n")
	for _, f := range ratetable.Factors() {
		fmt.Fprintf(&b, "  %s: %s\n", f, strings.Join(ratetable.Levels(f), ", "))
	}

	evidence, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal evidence: %w", err)
	}
	b.WriteString("\nThe deterministic classifier already proposed the multipliers and score below.\n")
	b.WriteString("Evidence:\n")
	b.Write(evidence)
	b.WriteString("\n")
	return b.String(), nil
}
