package entity

import "strings"

const (
	DefaultCategory = "general"
	DefaultTopic    = "nation"
)

// Categories は利用者に提示するカテゴリ名(表示順)
var Categories = []string{
	"General",
	"UK news",
	"Business",
	"Sports",
	"Entertainment",
	"Technology",
	"Science",
}

var categoryTopics = map[string]string{
	"general":       "world",
	"uk news":       "nation",
	"business":      "business",
	"sports":        "sports",
	"entertainment": "entertainment",
	"technology":    "technology",
	"science":       "science",
}

// TopicForCategory はカテゴリ名をプロバイダのトピックに変換します。
// 大文字小文字は区別せず、不明なカテゴリはDefaultTopicになる
func TopicForCategory(category string) string {
	if topic, ok := categoryTopics[strings.ToLower(strings.TrimSpace(category))]; ok {
		return topic
	}
	return DefaultTopic
}
