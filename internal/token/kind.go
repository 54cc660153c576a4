package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint16

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the compile unit. It is repeated forever.
	EOF

	// WS is a run of whitespace.
	WS
	// Comment is a block comment /* ... */ (nesting allowed) or a // line comment.
	Comment

	// ID is an identifier that is not a keyword.
	ID
	// Number is a numeric literal.
	Number
	// QString is a quoted string including quotes and an optional :attribute suffix.
	QString
	// FileName is any run of characters that only makes sense as a path or unknown text.
	FileName
	// LexDate is a date literal such as 12/31/2024.
	LexDate
	// UnknownValue is the '?' literal.
	UnknownValue

	// NameDot is a '.' immediately followed by a non-space character.
	NameDot
	// Period ends a statement.
	Period
	// LexColon is ':' followed by whitespace.
	LexColon
	// ObjColon is ':' followed by a member name.
	ObjColon
	// DoubleColon is '::'.
	DoubleColon
	LeftParen
	RightParen
	// LeftBrace is '['.
	LeftBrace
	// RightBrace is ']'.
	RightBrace
	Caret
	Comma
	Exclamation
	Equal
	Semi
	Star
	Plus
	Minus
	// Slash is '/' followed by whitespace or '('.
	Slash
	LeftAngle
	RightAngle
	// GTorLT is '<>'.
	GTorLT
	LTorEqual
	GTorEqual
	Backtick
	// LexAt is a lone '@'.
	LexAt
	// Annotation is '@' followed by a name.
	Annotation

	preproBegin
	// AmpIf is the &IF directive.
	AmpIf
	// AmpThen is the &THEN directive.
	AmpThen
	// AmpElseIf is the &ELSEIF directive.
	AmpElseIf
	// AmpElse is the &ELSE directive.
	AmpElse
	// AmpEndIf is the &ENDIF directive.
	AmpEndIf
	// AmpGlobalDefine is a whole &GLOBAL-DEFINE line.
	AmpGlobalDefine
	// AmpScopedDefine is a whole &SCOPED-DEFINE line.
	AmpScopedDefine
	// AmpUndefine is &UNDEFINE with its name.
	AmpUndefine
	// AmpAnalyzeSuspend is a whole &ANALYZE-SUSPEND line.
	AmpAnalyzeSuspend
	// AmpAnalyzeResume is a whole &ANALYZE-RESUME line.
	AmpAnalyzeResume
	// AmpMessage is a whole &MESSAGE line.
	AmpMessage
	// PreproExprTrue carries the rendered condition of a taken &IF/&ELSEIF.
	PreproExprTrue
	// PreproExprFalse carries the rendered condition of a skipped &IF/&ELSEIF.
	PreproExprFalse
	// DefinedArg is the raw argument text of DEFINED( ... ) inside a condition.
	DefinedArg
	preproEnd

	// ProparseDirective is the payload of a {&_proparse_ ...} reference.
	ProparseDirective
	// IncludeDirective is a raw {include.i ...} reference in lex-only mode.
	IncludeDirective

	keywordBegin
	KwAbsolute
	KwAnd
	KwAs
	KwAssign
	KwBegins
	KwCase
	KwCharacter
	KwCreate
	KwDBType
	KwDecimal
	KwDefine
	KwDefined
	KwDelete
	KwDisplay
	KwDo
	KwEach
	KwElse
	KwEnd
	KwEntry
	KwEQ
	KwFalse
	KwFileInformation
	KwFind
	KwFirst
	KwFor
	KwFormat
	KwFunction
	KwGE
	KwGT
	KwIf
	KwIndex
	KwInput
	KwInt64
	KwInteger
	KwKeyword
	KwKeywordAll
	KwLC
	KwLE
	KwLeftTrim
	KwLength
	KwLogical
	KwLookup
	KwLower
	KwLT
	KwMatches
	KwMaximum
	KwMessage
	KwMinimum
	KwModulo
	KwNE
	KwNo
	KwNoUndo
	KwNot
	KwNumEntries
	KwOpsys
	KwOr
	KwOutput
	KwParameter
	KwProcedure
	KwProcessArchitecture
	KwPropath
	KwProversion
	KwRandom
	KwReplace
	KwReturn
	KwRightTrim
	KwRIndex
	KwRun
	KwSubstitute
	KwSubstring
	KwThen
	KwTransaction
	KwTrim
	KwTrue
	KwUpper
	KwVariable
	KwView
	KwWhere
	KwWith
	KwYes
	keywordEnd
)

var kindNames = map[Kind]string{
	Invalid:           "INVALID",
	EOF:               "EOF",
	WS:                "WS",
	Comment:           "COMMENT",
	ID:                "ID",
	Number:            "NUMBER",
	QString:           "QSTRING",
	FileName:          "FILENAME",
	LexDate:           "LEXDATE",
	UnknownValue:      "UNKNOWNVALUE",
	NameDot:           "NAMEDOT",
	Period:            "PERIOD",
	LexColon:          "LEXCOLON",
	ObjColon:          "OBJCOLON",
	DoubleColon:       "DOUBLECOLON",
	LeftParen:         "LEFTPAREN",
	RightParen:        "RIGHTPAREN",
	LeftBrace:         "LEFTBRACE",
	RightBrace:        "RIGHTBRACE",
	Caret:             "CARET",
	Comma:             "COMMA",
	Exclamation:       "EXCLAMATION",
	Equal:             "EQUAL",
	Semi:              "SEMI",
	Star:              "STAR",
	Plus:              "PLUS",
	Minus:             "MINUS",
	Slash:             "SLASH",
	LeftAngle:         "LEFTANGLE",
	RightAngle:        "RIGHTANGLE",
	GTorLT:            "GTORLT",
	LTorEqual:         "LTOREQUAL",
	GTorEqual:         "GTOREQUAL",
	Backtick:          "BACKTICK",
	LexAt:             "LEXAT",
	Annotation:        "ANNOTATION",
	AmpIf:             "AMPIF",
	AmpThen:           "AMPTHEN",
	AmpElseIf:         "AMPELSEIF",
	AmpElse:           "AMPELSE",
	AmpEndIf:          "AMPENDIF",
	AmpGlobalDefine:   "AMPGLOBALDEFINE",
	AmpScopedDefine:   "AMPSCOPEDDEFINE",
	AmpUndefine:       "AMPUNDEFINE",
	AmpAnalyzeSuspend: "AMPANALYZESUSPEND",
	AmpAnalyzeResume:  "AMPANALYZERESUME",
	AmpMessage:        "AMPMESSAGE",
	PreproExprTrue:    "PREPROEXPR_TRUE",
	PreproExprFalse:   "PREPROEXPR_FALSE",
	DefinedArg:        "DEFINEDARG",
	ProparseDirective: "PROPARSEDIRECTIVE",
	IncludeDirective:  "INCLUDEDIRECTIVE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k.IsKeyword() {
		if kw, ok := byKind[k]; ok {
			return kw.Name
		}
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is one of the keyword kinds.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsPreprocessor reports whether k is produced by a preprocessor directive.
func (k Kind) IsPreprocessor() bool { return k > preproBegin && k < preproEnd }
