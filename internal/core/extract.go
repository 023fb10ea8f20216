// ABOUTME: Text extraction from uploaded files (txt, md, pdf)
// ABOUTME: Normalizes control characters and whitespace before chunking
package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/documind/documind/internal/models"
)

// ExtractFile extracts plain text from a stored file based on its type.
// Unknown types fail with models.ErrUnsupportedFormat.
func ExtractFile(path, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "txt", "md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return CleanText(string(data)), nil
	case "pdf":
		text, err := extractPDF(path)
		if err != nil {
			return "", fmt.Errorf("reading pdf %s: %w", path, err)
		}
		return CleanText(text), nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, fileType)
	}
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	b, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// CleanText replaces control characters with spaces and collapses runs of
// whitespace so offsets into the cleaned text are stable across platforms.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) {
			sb.WriteRune(' ')
		} else {
			sb.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// QuickSummary returns the first maxSentences sentences of text
func QuickSummary(text string, maxSentences int) string {
	if text == "" || maxSentences <= 0 {
		return ""
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sb strings.Builder
	count := 0
	for _, sentence := range sentences {
		if count >= maxSentences {
			break
		}
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sb.WriteString(sentence)
		sb.WriteString(". ")
		count++
	}

	return strings.TrimSpace(sb.String())
}

// CountWords counts whitespace-separated words in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
