package token

import "strings"

// Keyword describes one entry of the keyword table.
type Keyword struct {
	Kind Kind
	Name string // полное имя в верхнем регистре
	// Min is the shortest accepted abbreviation; 0 means the keyword cannot be abbreviated.
	Min      int
	Reserved bool
}

var keywordTable = []Keyword{
	{KwAbsolute, "ABSOLUTE", 0, false},
	{KwAnd, "AND", 0, true},
	{KwAs, "AS", 0, true},
	{KwAssign, "ASSIGN", 0, true},
	{KwBegins, "BEGINS", 0, true},
	{KwCase, "CASE", 0, true},
	{KwCharacter, "CHARACTER", 4, false},
	{KwCreate, "CREATE", 0, true},
	{KwDBType, "DBTYPE", 0, true},
	{KwDecimal, "DECIMAL", 3, false},
	{KwDefine, "DEFINE", 3, true},
	{KwDefined, "DEFINED", 0, true},
	{KwDelete, "DELETE", 3, true},
	{KwDisplay, "DISPLAY", 4, true},
	{KwDo, "DO", 0, true},
	{KwEach, "EACH", 0, true},
	{KwElse, "ELSE", 0, true},
	{KwEnd, "END", 0, true},
	{KwEntry, "ENTRY", 0, true},
	{KwEQ, "EQ", 0, true},
	{KwFalse, "FALSE", 0, true},
	{KwFileInformation, "FILE-INFORMATION", 9, true},
	{KwFind, "FIND", 0, true},
	{KwFirst, "FIRST", 0, true},
	{KwFor, "FOR", 0, true},
	{KwFormat, "FORMAT", 4, true},
	{KwFunction, "FUNCTION", 0, true},
	{KwGE, "GE", 0, true},
	{KwGT, "GT", 0, true},
	{KwIf, "IF", 0, true},
	{KwIndex, "INDEX", 0, true},
	{KwInput, "INPUT", 0, true},
	{KwInt64, "INT64", 0, false},
	{KwInteger, "INTEGER", 3, false},
	{KwKeyword, "KEYWORD", 0, true},
	{KwKeywordAll, "KEYWORD-ALL", 0, true},
	{KwLC, "LC", 0, true},
	{KwLE, "LE", 0, true},
	{KwLeftTrim, "LEFT-TRIM", 0, true},
	{KwLength, "LENGTH", 0, true},
	{KwLogical, "LOGICAL", 0, false},
	{KwLookup, "LOOKUP", 0, true},
	{KwLower, "LOWER", 0, false},
	{KwLT, "LT", 0, true},
	{KwMatches, "MATCHES", 0, true},
	{KwMaximum, "MAXIMUM", 3, true},
	{KwMessage, "MESSAGE", 0, true},
	{KwMinimum, "MINIMUM", 3, true},
	{KwModulo, "MODULO", 3, true},
	{KwNE, "NE", 0, true},
	{KwNo, "NO", 0, true},
	{KwNoUndo, "NO-UNDO", 0, true},
	{KwNot, "NOT", 0, true},
	{KwNumEntries, "NUM-ENTRIES", 0, true},
	{KwOpsys, "OPSYS", 0, true},
	{KwOr, "OR", 0, true},
	{KwOutput, "OUTPUT", 0, true},
	{KwParameter, "PARAMETER", 5, true},
	{KwProcedure, "PROCEDURE", 4, true},
	{KwProcessArchitecture, "PROCESS-ARCHITECTURE", 0, false},
	{KwPropath, "PROPATH", 0, true},
	{KwProversion, "PROVERSION", 0, true},
	{KwRandom, "RANDOM", 0, true},
	{KwReplace, "REPLACE", 0, false},
	{KwReturn, "RETURN", 0, true},
	{KwRightTrim, "RIGHT-TRIM", 0, true},
	{KwRIndex, "R-INDEX", 0, true},
	{KwRun, "RUN", 0, true},
	{KwSubstitute, "SUBSTITUTE", 5, false},
	{KwSubstring, "SUBSTRING", 6, true},
	{KwThen, "THEN", 0, true},
	{KwTransaction, "TRANSACTION", 5, true},
	{KwTrim, "TRIM", 0, true},
	{KwTrue, "TRUE", 0, true},
	{KwUpper, "UPPER", 0, false},
	{KwVariable, "VARIABLE", 3, false},
	{KwView, "VIEW", 0, true},
	{KwWhere, "WHERE", 0, true},
	{KwWith, "WITH", 0, true},
	{KwYes, "YES", 0, true},
}

var (
	exact  = map[string]*Keyword{} // полное имя -> ключевое слово
	abbrev = map[string]*Keyword{} // сокращение -> ключевое слово
	byKind = map[Kind]*Keyword{}
)

func init() {
	for i := range keywordTable {
		kw := &keywordTable[i]
		exact[strings.ToLower(kw.Name)] = kw
		byKind[kw.Kind] = kw
	}
	for i := range keywordTable {
		kw := &keywordTable[i]
		if kw.Min == 0 {
			continue
		}
		lower := strings.ToLower(kw.Name)
		for n := kw.Min; n < len(lower); n++ {
			prefix := lower[:n]
			if _, clash := exact[prefix]; clash {
				continue
			}
			abbrev[prefix] = kw
		}
	}
}

// LookupKeyword maps an identifier to its keyword kind, case-insensitively.
// abbreviated is true when text is a short form of the keyword.
func LookupKeyword(text string) (kind Kind, abbreviated, ok bool) {
	lower := strings.ToLower(text)
	if kw, found := exact[lower]; found {
		return kw.Kind, false, true
	}
	if kw, found := abbrev[lower]; found {
		return kw.Kind, true, true
	}
	return ID, false, false
}

// KeywordName returns the full upper-case keyword for text (which may be abbreviated).
// With reservedOnly, unreserved keywords are not reported.
func KeywordName(text string, reservedOnly bool) (string, bool) {
	kind, _, ok := LookupKeyword(text)
	if !ok {
		return "", false
	}
	kw := byKind[kind]
	if reservedOnly && !kw.Reserved {
		return "", false
	}
	return kw.Name, true
}
