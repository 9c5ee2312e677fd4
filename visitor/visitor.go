// Package visitor classifies HTTP clients by their User-Agent so crawler
// traffic can be kept out of view counts.
package visitor

import "strings"

// knownBots maps a lowercase User-Agent fragment to a display name. Specific
// crawlers come before the generic fragments that would also match them.
var knownBots = []struct {
	pattern string
	name    string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"crawl", "Generic Crawler"},
	{"spider", "Generic Spider"},
	{"scrape", "Generic Scraper"},
	{"bot", "Other Bot"},
}

// IsBot reports whether ua looks like a crawler. An empty User-Agent counts
// as a bot: browsers always send one.
func IsBot(ua string) bool {
	return BotName(ua) != ""
}

// BotName returns the display name of the crawler behind ua, or "" for a
// regular browser.
func BotName(ua string) string {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return "Unknown"
	}
	for _, b := range knownBots {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	return ""
}
