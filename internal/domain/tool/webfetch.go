package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// mockPage holds the canned content served by the web_fetch capability.
// Fetching is simulated: no network traffic ever leaves the process.
type mockPage struct {
	Title   string
	Summary string
	Content string
}

var mockPages = map[string]mockPage{
	"example.com": {
		Title:   "Example Domain",
		Summary: "This domain is for use in illustrative examples in documents.",
		Content: "Example Domain. This domain is for use in illustrative examples in documents. You may use this domain in literature without prior coordination or asking for permission.",
	},
	"python.org": {
		Title:   "Welcome to Python.org",
		Summary: "The official home of the Python Programming Language.",
		Content: "Python is a programming language that lets you work quickly and integrate systems more effectively. Python is powerful and fast, plays well with others, runs everywhere, is friendly and easy to learn, and is Open.",
	},
	"github.com": {
		Title:   "GitHub: Let's build from here",
		Summary: "GitHub is where over 100 million developers shape the future of software.",
		Content: "GitHub is where over 100 million developers shape the future of software, together. Contribute to the open source community, manage your Git repositories, review code like a pro, track bugs and features, power your CI/CD and DevOps workflows, and secure code before you commit it.",
	},
}

// webFetch implements the web_fetch capability against the canned page set.
func webFetch(_ context.Context, args Args) (any, error) {
	url := args["url"].(string)
	extract := args["extract"].(string)

	page, ok := mockPages[normalizeURL(url)]
	if !ok {
		return nil, fmt.Errorf("fetch failed for %q: host not available (known hosts: %s)",
			url, strings.Join(knownHosts(), ", "))
	}

	var result string
	switch extract {
	case "title":
		result = page.Title
	case "summary":
		result = page.Summary
	case "content":
		result = page.Content
	}

	return map[string]any{
		"url":          url,
		"extract_type": extract,
		"content":      result,
	}, nil
}

// normalizeURL strips scheme, www prefix and trailing slashes so bare hosts
// and full URLs resolve to the same page.
func normalizeURL(url string) string {
	u := strings.TrimSpace(url)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimRight(u, "/")
}

func knownHosts() []string {
	hosts := make([]string, 0, len(mockPages))
	for host := range mockPages {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}
