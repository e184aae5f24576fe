package inference

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRE 兩個字元以上的 word token
var tokenRE = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// TruncateAtWord 超過 maxChars 時在 maxChars 之前最後一個空白處截斷，不切斷單字
func TruncateAtWord(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}
	if unicode.IsSpace(runes[maxChars]) {
		return strings.TrimRightFunc(string(runes[:maxChars]), unicode.IsSpace)
	}

	cut := runes[:maxChars]
	for i := len(cut) - 1; i >= 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	// 沒有空白的超長 token
	return string(cut)
}

// Tokenize 小寫化並移除英文停用詞
func Tokenize(text string) []string {
	raw := tokenRE.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Candidates 產生 1-gram 與 2-gram 候選詞，依出現順序去重
func Candidates(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens)*2)
	out := make([]string, 0, len(tokens)*2)

	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, tok := range tokens {
		add(tok)
	}
	for i := 0; i+1 < len(tokens); i++ {
		add(tokens[i] + " " + tokens[i+1])
	}
	return out
}
