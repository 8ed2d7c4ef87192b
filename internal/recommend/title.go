package recommend

import "strings"

// siteName derives a display name from a domain: the first label, capitalized.
func siteName(domain string) string {
	if strings.Contains(domain, "economictimes") {
		return "Economic Times"
	}
	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
}

// articleTitle builds "<Site> Guide: <topic>", marking the second hit of a domain.
func articleTitle(domain, topic string, second bool) string {
	title := siteName(domain) + " Guide: " + topic
	if second {
		title += " (Part 2)"
	}
	return title
}
