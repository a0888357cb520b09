package flags

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	choicePlaceholderTemplate = "<%s>"
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`%s`"
	choiceUsageFullTemplate   = "`%s` %s"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder,
// for example "`<debug|INFO|warn|error>` Logging level".
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral))
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	trimmedChoices := lo.Compact(lo.Map(choices, func(choice string, _ int) string {
		return strings.TrimSpace(choice)
	}))
	uniqueChoices := lo.UniqBy(trimmedChoices, strings.ToLower)

	return lo.Map(uniqueChoices, func(choice string, _ int) string {
		if strings.ToLower(choice) == normalizedDefault {
			return strings.ToUpper(choice)
		}
		return choice
	})
}
