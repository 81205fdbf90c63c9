package main

import (
	"strings"

	"github.com/clipask/clipask/internal/poll"
	"github.com/clipask/clipask/internal/proxy"
)

const previewLen = 50

// consoleReporter prints one line per question event.
type consoleReporter struct{}

func (consoleReporter) Dispatched(q poll.Question) {
	printStep("Question: %s", preview(q.Text))
}

func (consoleReporter) Answered(_ poll.Question, a proxy.Answer, copied bool) {
	if !copied {
		printWarning("Answer received but not copied: %s", preview(a.Content))
		return
	}
	printSuccess("Answer copied! (%d chars)", len([]rune(a.Content)))
}

func (consoleReporter) Failed(_ poll.Question, err error) {
	printWarning("%v", err)
}

// preview flattens text to one line and shortens it to previewLen runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= previewLen {
		return text
	}
	return string(r[:previewLen]) + "..."
}
