package brinefile

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a parse or validation failure.
type ErrorCode string

const (
	// CodeUnknownSection indicates a `%keyword` marker that is not a
	// recognized section name.
	CodeUnknownSection ErrorCode = "UNKNOWN_SECTION"

	// CodeInvalidModifierCombination indicates a line that combines the
	// leading `-` (absent) modifier with a trailing `=value` attribute.
	// An absent item cannot carry an attribute.
	CodeInvalidModifierCombination ErrorCode = "INVALID_MODIFIER_COMBINATION"

	// CodeMalformedSymlink indicates a `%symlinks` line without exactly
	// one `->` separator.
	CodeMalformedSymlink ErrorCode = "MALFORMED_SYMLINK"

	// CodeMalformedSysctl indicates a `%sysctl` line without a
	// `key=value` assignment.
	CodeMalformedSysctl ErrorCode = "MALFORMED_SYSCTL"

	// CodeMalformedCronjob indicates a `%cronjobs` line with fewer than
	// the seven crontab fields (minute hour daymonth month dayweek user
	// command).
	CodeMalformedCronjob ErrorCode = "MALFORMED_CRONJOB"

	// CodeEmptyIdentitySection indicates a `%rolename` or `%elementname`
	// section with no content line.
	CodeEmptyIdentitySection ErrorCode = "EMPTY_IDENTITY_SECTION"

	// CodeConflictingIdentity indicates a document declaring both
	// `%rolename` and `%elementname`.
	CodeConflictingIdentity ErrorCode = "CONFLICTING_IDENTITY"

	// CodeMissingIdentity indicates a document declaring neither
	// `%rolename` nor `%elementname`.
	CodeMissingIdentity ErrorCode = "MISSING_IDENTITY"

	// CodeMissingDescription indicates a document without a non-empty
	// `%description` section.
	CodeMissingDescription ErrorCode = "MISSING_DESCRIPTION"
)

// ParseError is a classified Brinefile parse or validation failure with
// the section and line it originated from.
type ParseError struct {
	// Code is the error classification.
	Code ErrorCode

	// Section is the section name the error occurred in, without the
	// `%` prefix. Empty for whole-document validation errors.
	Section string

	// Line is the 1-based source line number, or 0 when the error is
	// not tied to a single line.
	Line int

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Section != "" && e.Line > 0:
		return fmt.Sprintf("[%s] %%%s (line %d): %s", e.Code, e.Section, e.Line, e.Message)
	case e.Section != "":
		return fmt.Sprintf("[%s] %%%s: %s", e.Code, e.Section, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Is implements error equality for errors.Is: two ParseErrors match
// when their codes match, so callers can compare against a bare
// &ParseError{Code: ...} sentinel.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the ErrorCode carried by err, or the empty string when
// err is not a ParseError.
func CodeOf(err error) ErrorCode {
	var e *ParseError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newUnknownSectionError(keyword string, line int) *ParseError {
	return &ParseError{
		Code:    CodeUnknownSection,
		Section: keyword,
		Line:    line,
		Message: fmt.Sprintf("unknown section %%%s", keyword),
	}
}

func newInvalidModifierCombinationError(section, text string, line int) *ParseError {
	return &ParseError{
		Code:    CodeInvalidModifierCombination,
		Section: section,
		Line:    line,
		Message: fmt.Sprintf("%q combines the - (absent) modifier with an =value attribute; an absent item cannot carry an attribute", text),
	}
}

func newMalformedSymlinkError(text string, line int) *ParseError {
	return &ParseError{
		Code:    CodeMalformedSymlink,
		Section: sectionSymlinks,
		Line:    line,
		Message: fmt.Sprintf("%q has no target; use \"linkname->targetname\"", text),
	}
}

func newMalformedSysctlError(text string, line int) *ParseError {
	return &ParseError{
		Code:    CodeMalformedSysctl,
		Section: sectionSysctl,
		Line:    line,
		Message: fmt.Sprintf("%q has no value; use \"setting=value\"", text),
	}
}

func newMalformedCronjobError(text string, line int) *ParseError {
	return &ParseError{
		Code:    CodeMalformedCronjob,
		Section: sectionCronjobs,
		Line:    line,
		Message: fmt.Sprintf("%q has fewer than 7 fields; use \"minute hour daymonth month dayweek user command\"", text),
	}
}

func newEmptyIdentitySectionError(section string, line int) *ParseError {
	return &ParseError{
		Code:    CodeEmptyIdentitySection,
		Section: section,
		Line:    line,
		Message: "identity section has no name line",
	}
}

func newConflictingIdentityError(line int) *ParseError {
	return &ParseError{
		Code:    CodeConflictingIdentity,
		Line:    line,
		Message: "conflicting identity sections; declare exactly one of %rolename or %elementname, once",
	}
}

func newMissingIdentityError() *ParseError {
	return &ParseError{
		Code:    CodeMissingIdentity,
		Message: "missing required section; choose one of: %rolename, %elementname",
	}
}

func newMissingDescriptionError() *ParseError {
	return &ParseError{
		Code:    CodeMissingDescription,
		Message: "missing required section %description",
	}
}
