// Package ui provides colored terminal output helpers for the CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const headerWidth = 60

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgWhite)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	stepColor    = color.New(color.FgBlue)
)

// Header prints a banner with the given title centered
func Header(title string) {
	line := strings.Repeat("=", headerWidth)
	headerColor.Println(line)
	headerColor.Println(center(title, headerWidth))
	headerColor.Println(line)
}

// Step prints a numbered progress step
func Step(current, total int, message string) {
	stepColor.Printf("[%d/%d] %s\n", current, total, message)
}

// Success prints a success message with a check mark
func Success(message string) {
	successColor.Printf("✓ %s\n", message)
}

// Info prints an informational message
func Info(message string) {
	infoColor.Printf("  %s\n", message)
}

// Warning prints a warning message
func Warning(message string) {
	warningColor.Printf("⚠ %s\n", message)
}

// Error prints an error message
func Error(message string) {
	errorColor.Printf("✗ %s\n", message)
}

// BlueText returns the text wrapped in blue color codes
func BlueText(text string) string {
	return color.BlueString("%s", text)
}

// YellowText returns the text wrapped in yellow color codes
func YellowText(text string) string {
	return color.YellowString("%s", text)
}

// center left-pads text so it sits in the middle of width. Text wider than
// width is returned unchanged.
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return fmt.Sprintf("%s%s", strings.Repeat(" ", padding), text)
}
