package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxTextChars = 8000

// PlainText はHTML断片をテキストに変換し、空白を正規化します。
// パースできない入力は空白の正規化のみ行って返す
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return normalize(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalize(fragment)
	}
	doc.Find("script, style").Remove()

	return normalize(doc.Text())
}

// Truncate はテキストをmaxTextChars文字までに切り詰めます
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) > maxTextChars {
		return string(runes[:maxTextChars])
	}
	return text
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
