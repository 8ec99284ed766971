package compare

import (
	"fmt"
	"unicode/utf8"
)

const (
	FormatWKT  = "WKT"
	FormatESRI = "ESRI"
)

// ProjectionParseError is returned when projection text cannot be parsed
// in the encoding a comparison assumed for it. An unparseable projection
// is malformed input, not a mismatch.
type ProjectionParseError struct {
	Text   string
	Format string
	Err    error
}

func (e *ProjectionParseError) Error() string {
	return fmt.Sprintf("cannot parse projection as %s %q: %v", e.Format, truncate(e.Text, maxQuotedText), e.Err)
}

const maxQuotedText = 64

// truncate cuts text to at most n bytes without splitting a UTF-8 sequence.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n] + "..."
}

func (e *ProjectionParseError) Unwrap() error {
	return e.Err
}

// BandAccessError is returned when a dataset fails to produce the
// descriptor of a band that its band count says exists.
type BandAccessError struct {
	Index int
	Err   error
}

func (e *BandAccessError) Error() string {
	return fmt.Sprintf("cannot read band %d: %v", e.Index, e.Err)
}

func (e *BandAccessError) Unwrap() error {
	return e.Err
}
