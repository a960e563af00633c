package entity

import "fmt"

// SummaryUnavailable は要約を生成できなかった場合に返し、キャッシュもされる文言
const SummaryUnavailable = "Summary not available"

const (
	SummarySystemPrompt = "You are a helpful assistant."
	summaryUserPrompt   = "Summarize this article in 3–5 short sentences. If unable, say '%s':\n%s"
)

// SummaryPrompt は要約プロバイダに送るユーザーメッセージを組み立てます
func SummaryPrompt(text string) string {
	return fmt.Sprintf(summaryUserPrompt, SummaryUnavailable, text)
}
