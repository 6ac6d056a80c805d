package ui

import (
	"strings"
	"testing"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{
			name:     "short title gets left padding",
			text:     "Resumo",
			width:    20,
			expected: "       Resumo",
		},
		{
			name:     "exact fit is unchanged",
			text:     "Extrato",
			width:    7,
			expected: "Extrato",
		},
		{
			name:     "overflow is returned as-is",
			text:     "Importing Bank Statements",
			width:    10,
			expected: "Importing Bank Statements",
		},
		{
			name:     "odd remainder rounds the padding down",
			text:     "Conta",
			width:    12,
			expected: "   Conta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := center(tt.text, tt.width)
			if result != tt.expected {
				t.Errorf("center(%q, %d) = %q; want %q", tt.text, tt.width, result, tt.expected)
			}
		})
	}
}

func TestOutputHelpers(t *testing.T) {
	// The helpers write straight to stdout; this only pins that none of
	// them panic on ordinary messages.
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "Header", fn: func() { Header("Importing Bank Statements") }},
		{name: "Step", fn: func() { Step(2, 4, "Parsing statements") }},
		{name: "Success", fn: func() { Success("12 transactions imported") }},
		{name: "Info", fn: func() { Info("3 duplicates skipped") }},
		{name: "Warning", fn: func() { Warning("no statements found") }},
		{name: "Error", fn: func() { Error("unrecognized format") }},
		{name: "BlueText", fn: func() { BlueText("Conta Corrente") }},
		{name: "YellowText", fn: func() { YellowText("dry run") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn()
		})
	}
}

func TestHeaderBannerWidth(t *testing.T) {
	centered := center("Resumo da Conta", headerWidth)
	if !strings.HasSuffix(centered, "Resumo da Conta") {
		t.Errorf("centered title lost its text: %q", centered)
	}
	if len(centered) >= headerWidth {
		t.Errorf("left-padded title should stay short of the banner width, got %d", len(centered))
	}
}
