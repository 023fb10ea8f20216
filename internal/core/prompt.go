// ABOUTME: Prompt assembly for retrieval-augmented chat completions
// ABOUTME: Distinct system prompts for context-present and context-absent turns
package core

import (
	"fmt"
	"strings"
)

// ContextSeparator joins context excerpts when stored with an assistant message
const ContextSeparator = "\n---\n"

const baseSystemPrompt = "You are a helpful AI assistant that answers questions based on the " +
	"user's uploaded documents. Answer accurately, concisely, and clearly. " +
	"If the information is not found in the documents, say so explicitly."

// BuildSystemMessage returns the system prompt for a turn. The prompt
// states whether document context was retrieved so the model never
// fabricates sourcing claims when nothing was found.
func BuildSystemMessage(hasContext bool) string {
	var sb strings.Builder
	sb.WriteString(baseSystemPrompt)

	if hasContext {
		sb.WriteString("\n\nRelevant excerpts from the user's documents are included in the ")
		sb.WriteString("message. Ground your answer in those excerpts. Be honest, cite the ")
		sb.WriteString("excerpts, and do not refuse when the answer is present in them.")
	} else {
		sb.WriteString("\n\nNo relevant excerpts were found in the document collection for ")
		sb.WriteString("this question. Tell the user you can only answer based on their ")
		sb.WriteString("uploaded documents, and do not invent sources.")
	}

	return sb.String()
}

// BuildContextualPrompt interleaves numbered context excerpts before the
// verbatim question. With no excerpts the question passes through unchanged.
func BuildContextualPrompt(question string, excerpts []string) string {
	if len(excerpts) == 0 {
		return question
	}

	var sb strings.Builder
	sb.WriteString("Based on the following excerpts from the documents:\n\n")

	for i, excerpt := range excerpts {
		sb.WriteString(fmt.Sprintf("--- Excerpt %d ---\n", i+1))
		sb.WriteString(excerpt)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Answer this question:\n")
	sb.WriteString(question)

	return sb.String()
}

// BuildSummarizationPrompt asks the model for a short document summary
func BuildSummarizationPrompt(content string) string {
	return "Summarize the main content of the following document briefly and clearly:\n\n" + content
}

// SessionTitle derives a session title from the first user message.
// Truncation counts runes so a multibyte character is never split.
func SessionTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > 50 {
		return string(runes[:47]) + "..."
	}
	return firstMessage
}
