package news

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment labels.
const (
	Bullish = "Bullish"
	Bearish = "Bearish"
	Neutral = "Neutral"
)

var (
	bullishWords = []string{"bullish", "surge", "rally", "gains", "up", "rise", "positive", "breakthrough"}
	bearishWords = []string{"bearish", "crash", "drop", "fall", "decline", "negative", "loss", "concern"}
)

// categoryRules are checked in order; the first hit wins.
var categoryRules = []struct {
	category, tag, label string
}{
	{"BTC", "Bitcoin", "Bitcoin"},
	{"ETH", "Ethereum", "Ethereum"},
	{"DeFi", "DeFi", "DeFi"},
	{"NFT", "NFT", "NFT"},
	{"Regulation", "Regulation", "Regulation"},
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MainCategory picks a display category from the categories and tags of a,
// or General.
func MainCategory(a Article) string {
	for _, r := range categoryRules {
		if containsFold(a.Categories, r.category) || containsFold(a.Tags, r.tag) {
			return r.label
		}
	}
	return "General"
}

// Sentiment counts the bullish and bearish keywords present in the title and
// body of a. Keywords match as substrings.
func Sentiment(a Article) string {
	content := strings.ToLower(a.Title + " " + a.Body)
	var bull, bear int
	for _, w := range bullishWords {
		if strings.Contains(content, w) {
			bull++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(content, w) {
			bear++
		}
	}
	switch {
	case bull > bear:
		return Bullish
	case bear > bull:
		return Bearish
	default:
		return Neutral
	}
}

// Age renders how long ago a was published relative to now.
func Age(a Article, now time.Time) string {
	d := now.Sub(time.Unix(a.PublishedOn, 0))
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", d/time.Minute)
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", d/time.Hour)
	default:
		return fmt.Sprintf("%d days ago", d/(24*time.Hour))
	}
}
