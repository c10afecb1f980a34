package narrative

import "strings"

const (
	SectionExecutiveSummary     = "executive_summary"
	SectionWorkforceComposition = "workforce_composition_and_diversity"
	SectionWorkingConditions    = "working_conditions_and_equal_opportunity"
	SectionTrainingDevelopment  = "training_and_development"
	SectionTurnoverRetention    = "turnover_and_retention"
	SectionHealthSafety         = "health_and_safety"
	SectionOutlookNextSteps     = "outlook_and_next_steps"
	SectionClosing              = "closing"
)

const defaultGuidance = "Write a professional ESG narrative section."

var sectionOrder = []string{
	SectionExecutiveSummary,
	SectionWorkforceComposition,
	SectionWorkingConditions,
	SectionTrainingDevelopment,
	SectionTurnoverRetention,
	SectionHealthSafety,
	SectionOutlookNextSteps,
	SectionClosing,
}

var guidance = map[string]string{
	SectionExecutiveSummary:     "Write a formal executive summary (max 5 sentences) that provides an overview of the company's ESRS S1 performance, highlighting key metrics and trends.",
	SectionWorkforceComposition: "Analyze workforce composition and diversity metrics (S1-1, S1-9) with gender distribution, inclusion considerations, and any material imbalances (max 5 sentences).",
	SectionWorkingConditions:    "Discuss working conditions and equal opportunity policies and outcomes, referencing S1-2 and S1-3 where applicable (max 5 sentences).",
	SectionTrainingDevelopment:  "Analyze training and development metrics, referencing S1-13 and observed trends in capability building (max 5 sentences).",
	SectionTurnoverRetention:    "Interpret turnover and retention dynamics with potential drivers, aligned with ESRS S1 concepts (max 5 sentences).",
	SectionHealthSafety:         "Summarize workplace health and safety metrics with emphasis on safe working environments, referencing S1-14 where relevant (max 5 sentences).",
	SectionOutlookNextSteps:     "Outline management's next steps to improve performance across S1 topics with clear follow-up actions (max 5 sentences).",
	SectionClosing:              "Write a concise but formal closing paragraph (max 5 sentences) that synthesizes insights, highlights progress/challenges, reaffirms commitment to continuous improvement, and maintains a confident, forward-looking tone.",
}

// SectionKeys lists the narrative sections in report order.
func SectionKeys() []string {
	return append([]string(nil), sectionOrder...)
}

func Guidance(section string) string {
	if g, ok := guidance[section]; ok {
		return g
	}
	return defaultGuidance
}

// Fallback is the text used when a section could not be generated.
func Fallback(section string) string {
	return "Analysis for " + TitleCase(section) + " section based on available KPI data."
}

// TitleCase turns a snake_case key into space separated title case words.
func TitleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Sections maps section keys to narrative text.
type Sections map[string]string

func (s Sections) Get(section string) string {
	if text, ok := s[section]; ok {
		return text
	}
	return ""
}
