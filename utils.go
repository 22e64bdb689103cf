package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanPastedCode turns clipboard text into editor text: rich-text wrappers
// are stripped, control characters dropped and line endings normalized.
func cleanPastedCode(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

// stripRTF removes RTF groups and control words, keeping literal text and
// turning \par into newlines. Plain text passes through unchanged.
func stripRTF(text string) string {
	if !strings.HasPrefix(text, "{\\rtf") {
		return text
	}
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
			continue
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				result.WriteRune(next)
				i++
				continue
			}
			j := i + 1
			for j < len(runes) && ((runes[j] >= 'a' && runes[j] <= 'z') || (runes[j] >= 'A' && runes[j] <= 'Z')) {
				j++
			}
			word := string(runes[i+1 : j])
			for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				result.WriteRune('\n')
			case "tab":
				result.WriteRune('\t')
			}
			i = j - 1
		case r == '\n' || r == '\r':
			continue
		default:
			result.WriteRune(r)
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// splitLines splits code into display lines without a trailing empty line.
func splitLines(code string) []string {
	if code == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(code, "\n"), "\n")
}
