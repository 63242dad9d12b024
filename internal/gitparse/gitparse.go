// Package gitparse extracts branch names and commit headlines from the raw
// strings found in github event payloads.
package gitparse

import (
	"fmt"
	"strings"
)

const branchRefPrefix = "refs/heads/"

// ParseError is returned when an input string does not have the expected
// shape. It aborts the current invocation, it is not fatal for the process.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q failed: %s", e.Input, e.Reason)
}

// ReferenceName returns the branch short-name of a full git reference.
// The reference must start with the "refs/heads/" prefix.
func ReferenceName(ref string) (string, error) {
	branch := strings.TrimPrefix(ref, branchRefPrefix)
	if branch == ref {
		return "", &ParseError{
			Input:  ref,
			Reason: fmt.Sprintf("reference does not start with %q", branchRefPrefix),
		}
	}

	return branch, nil
}

// CommitHeadline returns the first line of a commit message.
func CommitHeadline(message string) (string, error) {
	if message == "" {
		return "", &ParseError{
			Input:  message,
			Reason: "commit message is empty",
		}
	}

	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx], nil
	}

	return message, nil
}
