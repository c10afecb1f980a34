package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert ESG (ESRS S1) reporting analyst."

// BuildPrompt renders the user prompt for one section. historical may be nil.
func BuildPrompt(section string, current, historical any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an ESG reporting analyst. Write the '%s' section for an ESRS S1 Management Report.\n\n", section)
	fmt.Fprintf(&b, "Requirements: %s\n\n", Guidance(section))
	fmt.Fprintf(&b, "Current KPI Data:\n%s\n\n", toJSON(current))
	if historical == nil {
		historical = struct{}{}
	}
	fmt.Fprintf(&b, "Historical KPI Data (optional):\n%s\n\n", toJSON(historical))
	b.WriteString("Return only the section text, no JSON wrapper or additional formatting.")
	return b.String()
}

func toJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
