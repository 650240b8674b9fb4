// Package trace reads per-frame reference data recorded from the game.
//
// A trace file has one record per frame and five unsigned 16-bit columns:
//
//	body_y  angle_delta  lower_angle  upper_angle  head_y
//
// The last three columns are ground truth used only for validation.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// #region types
// Frame is one recorded frame.
type Frame struct {
	BodyY      uint16
	AngleDelta uint16

	ExpectedLower uint16
	ExpectedUpper uint16
	ExpectedHeadY uint16
}

// Trace is an ordered list of frames.
type Trace []Frame

// Delta returns the step size applied on frame i. The game reads the delta
// one frame ahead, so this is the next record's delta, or the last record's
// when none remains.
func (t Trace) Delta(i int) uint16 {
	if i+1 < len(t) {
		return t[i+1].AngleDelta
	}
	return t[len(t)-1].AngleDelta
}

// #endregion types

// #region errors
// RecordError reports a malformed line.
type RecordError struct {
	Line   int
	Column int // 1-based; 0 when the error concerns the whole line
	Err    error
}

func (e *RecordError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ErrFieldCount is wrapped by RecordError when a line has the wrong number of columns.
var ErrFieldCount = errors.New("expected 5 columns")

// #endregion errors

// #region parse
// Parse reads a whole trace. Columns are separated by tabs or spaces; blank
// lines and lines starting with '#' are skipped. Any malformed record fails
// the whole parse.
func Parse(r io.Reader) (Trace, error) {
	var t Trace
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f, err := parseRecord(text)
		if err != nil {
			err.Line = line
			return nil, err
		}
		t = append(t, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return t, nil
}

func parseRecord(text string) (Frame, *RecordError) {
	cols := strings.Fields(text)
	if len(cols) != 5 {
		return Frame{}, &RecordError{Err: fmt.Errorf("%w, got %d", ErrFieldCount, len(cols))}
	}
	var vals [5]uint16
	for i, c := range cols {
		v, err := strconv.ParseUint(c, 10, 16)
		if err != nil {
			return Frame{}, &RecordError{Column: i + 1, Err: err}
		}
		vals[i] = uint16(v)
	}
	return FromColumns(vals), nil
}

// FromColumns builds a Frame from the five columns in file order.
func FromColumns(c [5]uint16) Frame {
	return Frame{
		BodyY:         c[0],
		AngleDelta:    c[1],
		ExpectedLower: c[2],
		ExpectedUpper: c[3],
		ExpectedHeadY: c[4],
	}
}

// Columns is the inverse of FromColumns.
func (f Frame) Columns() [5]uint16 {
	return [5]uint16{f.BodyY, f.AngleDelta, f.ExpectedLower, f.ExpectedUpper, f.ExpectedHeadY}
}

// LoadFile parses the trace at path.
func LoadFile(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse trace %s: %w", path, err)
	}
	return t, nil
}

// #endregion parse
