package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func containsText(rendered, want string) bool {
	return strings.Contains(ansi.Strip(rendered), want)
}
