package token

// Channel separates tokens seen by a parser from tokens kept for tooling.
type Channel uint8

const (
	// ChannelDefault carries the tokens a grammar consumes.
	ChannelDefault Channel = iota
	// ChannelHidden carries whitespace and comments.
	ChannelHidden
	// ChannelPreprocessor carries directive tokens (&GLOBAL-DEFINE, &IF, ...).
	ChannelPreprocessor
	// ChannelProparse carries {&_proparse_ ...} directives.
	ChannelProparse
)

func (c Channel) String() string {
	switch c {
	case ChannelDefault:
		return "default"
	case ChannelHidden:
		return "hidden"
	case ChannelPreprocessor:
		return "prepro"
	case ChannelProparse:
		return "proparse"
	default:
		return "unknown"
	}
}

// ChannelOf returns the channel a token of kind k belongs to.
func ChannelOf(k Kind) Channel {
	switch {
	case k == WS || k == Comment:
		return ChannelHidden
	case k == ProparseDirective:
		return ChannelProparse
	case k.IsPreprocessor():
		return ChannelPreprocessor
	default:
		return ChannelDefault
	}
}
