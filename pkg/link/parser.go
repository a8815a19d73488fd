package link

// MaxLineLen is the longest line kept, terminator excluded. Extra bytes
// are dropped up to the next newline.
const MaxLineLen = 64

// LineState indicates the state of the line parser.
type LineState int

const (
	// LineIdle means nothing of the next line is received.
	LineIdle LineState = iota
	// LineReceiving means a line is partially received.
	LineReceiving
	// LineDiscarding means the current line overflowed.
	LineDiscarding
)

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State    LineState
	Complete bool
	Line     string
	// Truncated is set on a complete line which overflowed.
	Truncated bool
}

// Parser splits a byte stream into lines. A trailing '\r' is removed.
type Parser struct {
	buf   []byte
	state LineState
}

// State gets the current state.
func (p *Parser) State() LineState {
	return p.state
}

// Reset drops any partial line.
func (p *Parser) Reset() {
	p.buf, p.state = p.buf[:0], LineIdle
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	if b == '\n' {
		pr.Complete, pr.Truncated = true, p.state == LineDiscarding
		n := len(p.buf)
		if n > 0 && p.buf[n-1] == '\r' {
			n--
		}
		pr.Line = string(p.buf[:n])
		p.Reset()
		pr.State = p.state
		return
	}
	switch p.state {
	case LineIdle, LineReceiving:
		if len(p.buf) >= MaxLineLen {
			p.state = LineDiscarding
			break
		}
		p.buf = append(p.buf, b)
		p.state = LineReceiving
	}
	pr.State = p.state
	return
}

// ParseBytes consumes data and returns the complete lines in it.
func (p *Parser) ParseBytes(data []byte) (lines []ParseResult) {
	for _, b := range data {
		if pr := p.Parse(b); pr.Complete {
			lines = append(lines, pr)
		}
	}
	return
}
