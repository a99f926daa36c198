package command

import (
	"strings"
	"unicode"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Line is the whole input with surrounding whitespace removed.
	Line string
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for shell).
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexFunc(line, unicode.IsSpace)
	if spaceIdx < 0 {
		return ParseResult{Line: line, Command: strings.ToLower(line)}
	}

	rest := strings.TrimSpace(line[spaceIdx:])
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Line:    line,
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		RawArgs: rest,
	}
}
