package neck

import "fmt"

// #region input
// Input is the per-frame requirement on the external input.
// It labels graph edges and is the element type of every input sequence.
type Input uint8

const (
	// InputAny means either value works: both inputs lead to the same place.
	InputAny Input = iota
	// InputTrue means the input must be asserted this frame.
	InputTrue
	// InputFalse means the input must not be asserted this frame.
	InputFalse
)

// Require returns the Input that demands the given value.
func Require(v bool) Input {
	if v {
		return InputTrue
	}
	return InputFalse
}

// Value returns the demanded value and whether there is a demand at all.
func (in Input) Value() (v bool, ok bool) {
	switch in {
	case InputTrue:
		return true, true
	case InputFalse:
		return false, true
	}
	return false, false
}

func (in Input) String() string {
	switch in {
	case InputAny:
		return "any"
	case InputTrue:
		return "true"
	case InputFalse:
		return "false"
	}
	return fmt.Sprintf("Input(%d)", uint8(in))
}

// Symbol returns the single-character form used in tables and stored runs.
func (in Input) Symbol() byte {
	switch in {
	case InputTrue:
		return 'J'
	case InputFalse:
		return '-'
	}
	return '.'
}

// ParseSymbol is the inverse of Symbol.
func ParseSymbol(c byte) (Input, error) {
	switch c {
	case '.':
		return InputAny, nil
	case 'J':
		return InputTrue, nil
	case '-':
		return InputFalse, nil
	}
	return 0, fmt.Errorf("unknown input symbol %q", c)
}

// #endregion input

// #region sequence-codec
// EncodeSequence renders a sequence as a string of symbols.
func EncodeSequence(seq []Input) string {
	buf := make([]byte, len(seq))
	for i, in := range seq {
		buf[i] = in.Symbol()
	}
	return string(buf)
}

// DecodeSequence parses a string produced by EncodeSequence.
func DecodeSequence(s string) ([]Input, error) {
	seq := make([]Input, len(s))
	for i := 0; i < len(s); i++ {
		in, err := ParseSymbol(s[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seq[i] = in
	}
	return seq, nil
}

// #endregion sequence-codec
