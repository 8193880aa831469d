package assistant

import "strings"

// Keyword sets are matched as substrings of the lower-cased message, so stems
// like "motivat" cover "motivation" and "motivate". Russian stems are kept
// because most clients write to the bot in Russian.
var (
	clientAnalysisKeywords = []string{
		"client", "analy", "who is", "who's", "status", "lagging", "slacking",
		"клиент", "анализ",
	}
	progressKeywords = []string{
		"progress", "result", "how am i", "how i'm doing", "stats", "streak",
		"прогресс", "результат",
	}
	planKeywords = []string{
		"plan", "today", "workout", "schedule", "program", "exercise",
		"план", "сегодня", "тренировк", "расписани",
	}
	motivationKeywords = []string{
		"motivat", "tired", "lazy", "give up", "can't", "bored", "hard",
		"мотивац", "устал", "лень",
	}
)

func matchesAny(message string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(message, k) {
			return true
		}
	}
	return false
}
