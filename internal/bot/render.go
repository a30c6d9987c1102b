package bot

import (
	"fmt"
	"strings"

	"github.com/marketbrief/ideawatch/internal/ideas"
)

// FormatIdea renders one idea as a Markdown message. A positive index
// prefixes the title for numbered lists.
func FormatIdea(idea *ideas.Idea, index int) string {
	prefix := ""
	if index > 0 {
		prefix = fmt.Sprintf("%d. ", index)
	}

	expiry := "N/A"
	if idea.Expiry != nil {
		expiry = idea.Expiry.UTC().Format("2006-01-02T15:04:05Z")
	}

	lines := []string{
		fmt.Sprintf("%s*%s*", prefix, idea.Title),
		fmt.Sprintf("Category: %s", idea.Category),
		fmt.Sprintf("Expiry: %s", expiry),
		fmt.Sprintf("Resolution: %s", idea.Resolution),
	}

	if idea.Notes != "" {
		lines = append(lines, fmt.Sprintf("Notes: %s", idea.Notes))
	}

	if len(idea.SourceLinks) > 0 {
		lines = append(lines, "Sources:")
		for _, url := range idea.SourceLinks {
			lines = append(lines, "- "+url)
		}
	}

	return strings.Join(lines, "\n")
}
