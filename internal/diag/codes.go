package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Expansion
	ExpInfo                Code = 1000
	ExpUnknownMacro        Code = 1001
	ExpWrongFragment       Code = 1002
	ExpArgCount            Code = 1003
	ExpArgType             Code = 1004
	ExpRecursionLimit      Code = 1005
	ExpTraceNote           Code = 1006
	ExpUnstableFeatureList Code = 1007
	ExpDeriveNotAllowed    Code = 1008
	ExpExpectedComma       Code = 1009
	ExpWrongMacroKind      Code = 1010
	ExpDeprecatedMacro     Code = 1011
	ExpCompileError        Code = 1012

	// Lexical (macro argument streams)
	LexUnknownChar        Code = 2001
	LexUnterminatedString Code = 2002
	LexUnclosedDelimiter  Code = 2003
	LexExpectedExpr       Code = 2004

	// Error-code registry
	RegInfo             Code = 3000
	RegDuplicateCode    Code = 3001
	RegUnregisteredCode Code = 3002
	RegCodeReuse        Code = 3003
	RegBadDescription   Code = 3004

	// I/O
	IOLoadFileError Code = 4001

	// Internal
	IntBug    Code = 9001
	IntUnimpl Code = 9002
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ExpInfo:                "Expansion information",
	ExpUnknownMacro:        "Unknown macro",
	ExpWrongFragment:       "Macro produced the wrong fragment kind",
	ExpArgCount:            "Wrong number of macro arguments",
	ExpArgType:             "Wrong macro argument type",
	ExpRecursionLimit:      "Macro recursion limit reached",
	ExpTraceNote:           "Macro trace",
	ExpUnstableFeatureList: "allow_internal_unstable expects feature names",
	ExpDeriveNotAllowed:    "Derive is not allowed on this item",
	ExpExpectedComma:       "Expected comma between macro arguments",
	ExpWrongMacroKind:      "Macro kind does not fit the invocation form",
	ExpDeprecatedMacro:     "Use of deprecated macro",
	ExpCompileError:        "Explicit compile error",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string",
	LexUnclosedDelimiter:   "Unclosed delimiter",
	LexExpectedExpr:        "Expected an expression",
	RegInfo:                "Registry information",
	RegDuplicateCode:       "Diagnostic code already registered",
	RegUnregisteredCode:    "Diagnostic code not registered",
	RegCodeReuse:           "Diagnostic code already used",
	RegBadDescription:      "Malformed diagnostic code description",
	IOLoadFileError:        "I/O load file error",
	IntBug:                 "Internal compiler error",
	IntUnimpl:              "Unimplemented",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("EXP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
