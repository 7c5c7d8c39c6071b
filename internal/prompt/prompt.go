// Package prompt builds the canned prompts used by the one-shot CLI
// commands. The commands carry no conversation state; each builder returns
// a complete, self-contained prompt.
package prompt

import (
	"fmt"
	"strings"
)

// Analyze asks for a project-wide code review rooted at path.
func Analyze(path string) string {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the project at %s for:\n", path)
	b.WriteString("1. Circular dependencies\n")
	b.WriteString("2. Type errors\n")
	b.WriteString("3. Database schema issues\n")
	b.WriteString("4. Performance problems\n\n")
	b.WriteString("Provide specific files, line numbers, and solutions.\n")
	return b.String()
}

// Fix asks for a concrete fix for the described issue.
func Fix(issue string) string {
	if strings.TrimSpace(issue) == "" {
		issue = "bugs"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Fix this issue in a Node.js/React/PostgreSQL project:\n%s\n\n", issue)
	b.WriteString("Provide:\n")
	b.WriteString("1. Complete file path\n")
	b.WriteString("2. Full corrected code\n")
	b.WriteString("3. Explanation\n\n")
	b.WriteString("Format as:\n")
	b.WriteString("FILE: path/to/file.ts\n")
	b.WriteString("```\ncode here\n```\n")
	b.WriteString("EXPLANATION: Why this works\n")
	return b.String()
}

// Feature asks for production-ready code implementing the named feature.
func Feature(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "new feature"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate complete, production-ready code for this feature in a Node.js/React/TypeScript project:\n%s\n\n", name)
	b.WriteString("Include:\n")
	b.WriteString("1. Database schema (Drizzle ORM)\n")
	b.WriteString("2. tRPC router procedures\n")
	b.WriteString("3. React component\n")
	b.WriteString("4. Type definitions\n")
	b.WriteString("5. API integration\n\n")
	b.WriteString("Stack: React + Node.js + tRPC + PostgreSQL\n")
	return b.String()
}

// Tests asks for a comprehensive test suite covering target.
func Tests(target string) string {
	if strings.TrimSpace(target) == "" {
		target = "code"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write comprehensive Vitest tests for:\n%s\n\n", target)
	b.WriteString("Include:\n")
	b.WriteString("- Unit tests\n")
	b.WriteString("- Integration tests\n")
	b.WriteString("- Edge cases\n")
	b.WriteString("- Error handling\n\n")
	b.WriteString("Format ready for copy-paste into test file.\n")
	return b.String()
}

// Schema asks for a database migration matching the description.
func Schema(desc string) string {
	if strings.TrimSpace(desc) == "" {
		desc = "new table"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a Drizzle ORM migration for:\n%s\n\n", desc)
	b.WriteString("Include:\n")
	b.WriteString("1. Table definitions\n")
	b.WriteString("2. Indexes\n")
	b.WriteString("3. Foreign keys\n")
	b.WriteString("4. Rollback migration\n\n")
	b.WriteString("Format: Drizzle migration syntax\n")
	return b.String()
}

// ImproveImage asks the text backend to rewrite a raw image prompt into a
// detailed, cinematic one.
func ImproveImage(base string) string {
	return fmt.Sprintf("Improve this image generation prompt for a 3D artistic website. Make it detailed and cinematic: %s", base)
}
