package questiongen

import (
	"fmt"
	"strings"
)

// SourceLimit is the number of characters of source text embedded in the
// prompt. Longer sources are cut, not summarized.
const SourceLimit = 2500

const systemPrompt = "You generate high-quality academic questions using the selected Bloom's level only."

// BuildPrompt constructs the user message for one generation call. It is
// pure: the same inputs always produce the same prompt.
func BuildPrompt(source string, count int, level Level) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d academic questions from the text below, with a good mix of difficulty levels.\n", count)
	fmt.Fprintf(&b, "The selected level for this paper is %s.\n", level)

	b.WriteString("\n### IMPORTANT: USE BLOOM'S TAXONOMY CORRECTLY\n")
	b.WriteString("Use ONLY the correct action verbs for the selected level:\n")
	for _, t := range Taxonomy {
		fmt.Fprintf(&b, "\n%s (%s)\n", t.Level, t.Name)
		fmt.Fprintf(&b, "- %s. Assign %s marks.\n", strings.Join(t.Verbs, ", "), joinMarks(t.Marks))
	}

	b.WriteString("\n### QUESTION DISTRIBUTION:\n")
	b.WriteString("Generate a mix of questions from L1, L2, and L3.\n")
	b.WriteString("Aim for a balanced distribution across the levels.\n")

	b.WriteString("\n### DO NOT NUMBER THE QUESTIONS\n")
	b.WriteString("Do NOT add: \"1.\", \"Q1\", \"a)\", \"(1)\", \"-\", \"*\" or any numbering.\n")
	b.WriteString("Write exactly one question per line.\n")

	b.WriteString("\n### OUTPUT FORMAT RULE\n")
	b.WriteString("Each question MUST end with the level tag AND the marks tag.\n")
	b.WriteString("The format MUST be exactly:\n")
	b.WriteString("<question> (L<level>) [<marks>m]\n")

	b.WriteString("\n### EXAMPLES:\n")
	b.WriteString("What is a neural network? (L1) [5m]\n")
	b.WriteString("Explain the difference between supervised and unsupervised learning. (L2) [8m]\n")
	b.WriteString("Design a system to predict stock prices. (L3) [15m]\n")

	b.WriteString("\nNO EXCEPTIONS.\n")
	b.WriteString("Do NOT output incomplete tags like \"(L\" or \"( L\".\n")

	b.WriteString("\n### TEXT:\n")
	b.WriteString(truncateRunes(source, SourceLimit))
	b.WriteString("\n")

	return b.String()
}

// joinMarks renders {2, 5} as "2 or 5".
func joinMarks(marks []int) string {
	parts := make([]string, len(marks))
	for i, m := range marks {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return strings.Join(parts, " or ")
}

// truncateRunes keeps at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
