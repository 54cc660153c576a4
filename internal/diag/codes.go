package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnmatchedCurly      Code = 1001
	LexUnterminatedComment Code = 1002
	LexUnterminatedString  Code = 1003
	LexBadCharacter        Code = 1004

	// Препроцессор
	PreproInfo            Code = 2000
	PreproUnexpectedThen  Code = 2001
	PreproEOFInCondition  Code = 2002
	PreproEOFInDiscard    Code = 2003
	PreproBadDefined      Code = 2004
	PreproBadCondition    Code = 2005
	PreproUnknownFunction Code = 2006
	PreproMessage         Code = 2007
	PreproEvalError       Code = 2008
	PreproUnmatchedElse   Code = 2009
	PreproBadDefault      Code = 2010

	// Ошибки I/O
	IOInfo             Code = 3000
	IOLoadFileError    Code = 3001
	IOIncludeNotFound  Code = 3002
	IOXCodeEncountered Code = 3003

	// Observability
	ObsInfo    Code = 4000
	ObsTimings Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnmatchedCurly:      "Unmatched curly brace",
	LexUnterminatedComment: "Missing end of comment",
	LexUnterminatedString:  "Unmatched quote",
	LexBadCharacter:        "Character conversion error",
	PreproInfo:             "Preprocessor information",
	PreproUnexpectedThen:   "Unexpected &THEN",
	PreproEOFInCondition:   "Unexpected end of input after &IF or &ELSEIF",
	PreproEOFInDiscard:     "Unexpected end of input when consuming discarded &IF/&ELSEIF/&ELSE text",
	PreproBadDefined:       "Bad DEFINED function in &IF preprocessor condition",
	PreproBadCondition:     "Unparsable &IF condition, treated as false",
	PreproUnknownFunction:  "Unsupported function in &IF condition, evaluated as FALSE",
	PreproMessage:          "&MESSAGE",
	PreproEvalError:        "Error while evaluating &IF condition",
	PreproUnmatchedElse:    "&ELSEIF or &ELSE without &IF",
	PreproBadDefault:       "Bad DEFAULT function in &IF preprocessor condition",
	IOInfo:                 "I/O information",
	IOLoadFileError:        "I/O load file error",
	IOIncludeNotFound:      "Include file not found",
	IOXCodeEncountered:     "Unable to read xcoded include",
	ObsInfo:                "Observability information",
	ObsTimings:             "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PPR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
