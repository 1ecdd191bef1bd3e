package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquilax/truncate"
	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralize.NewClient()

// Count formats n followed by word, in plural when needed.
func Count(n int, word string) string {
	return fmt.Sprintf("%v %v", humanize.Comma(int64(n)), pluralizeClient.Pluralize(word, n, false))
}

// Subject returns the first line of a commit message, truncated to max
// characters.
func Subject(message string, max int) string {
	subject, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	subject = strings.TrimSpace(subject)
	return truncate.Truncate(subject, max, truncate.DEFAULT_OMISSION, truncate.PositionEnd)
}

func RelativeTime(t time.Time) string {
	return humanize.Time(t)
}
