// Package carray converts arbitrary byte streams into C constant
// character-array declarations, so that text assets can be compiled
// straight into firmware images with no filesystem at runtime.
//
// The output of Encode is a declaration of the form
//
//	const char name[] = "escaped content
//	                    "split across aligned, quoted lines";
//
// with the input escaped for inclusion in a C string literal and wrapped to
// a configurable line length.
package carray

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DefaultLineLength is the output line length used when Options.LineLength
// is zero.
const DefaultLineLength = 80

// defaultToolLabel names this tool in the header comment when the caller
// does not supply a label.
const defaultToolLabel = "arrayify"

// inputChunkSize is the read buffer size. Purely an internal buffering
// detail; it has no effect on the output.
const inputChunkSize = 120

// postfixLen is the length of the closing quote plus newline that ends
// every literal line.
const postfixLen = 2

// Options configures a single conversion.
type Options struct {
	// Name is the identifier of the emitted array. It must be a valid C
	// identifier; Encode rejects anything else.
	Name string

	// LineLength bounds every output line, in bytes and including the
	// trailing newline. Zero means DefaultLineLength. Values below
	// MinLineLength(Name) are raised to that minimum.
	LineLength int

	// Bare suppresses the header comment and the trailing "// End of file"
	// comment, leaving only the declaration itself.
	Bare bool

	// SourceLabel names the input in the header comment. Informational
	// only; typically the input path as given on the command line.
	SourceLabel string

	// ToolLabel names the producing tool in the header comment. Empty
	// means "arrayify".
	ToolLabel string
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidName reports whether s can be used as the identifier in the
// emitted declaration.
func IsValidName(s string) bool {
	return namePattern.MatchString(s)
}

// MinLineLength returns the smallest usable line length for the given
// array name: the declaration prefix plus room for an opening quote, one
// escaped input byte, the closing quote and the newline.
func MinLineLength(name string) int {
	return len(declPrefix(name)) + 5
}

func declPrefix(name string) string {
	return "const char " + name + "[] = "
}

// escapeLetters maps each byte that must be escaped inside a C string
// literal to the letter that follows the backslash. Zero means the byte is
// copied through unchanged, high-bit bytes included. The question mark is
// escaped to keep adjacent input from forming a trigraph.
var escapeLetters = [256]byte{
	0x07: 'a', // bell
	0x08: 'b', // backspace
	0x09: 't', // tab
	0x0a: 'n', // newline
	0x0b: 'v', // vertical tab
	0x0c: 'f', // form feed
	0x0d: 'r', // carriage return
	0x1b: 'e', // escape
	0x22: '"',
	0x27: '\'',
	0x3f: '?',
	0x5c: '\\',
}

// Encode reads src to exhaustion and writes the corresponding declaration
// to dst. It returns the number of literal lines written.
//
// Encode fails only on invalid Options, before anything is written. Once
// conversion starts it always runs to completion: a failed line write is
// tolerated and simply not counted, and a read error is treated as end of
// input. Callers that care can compare the returned count against their
// expectation, but a shortfall is informational, not an error.
func Encode(dst io.Writer, src io.Reader, opts Options) (int, error) {
	if !IsValidName(opts.Name) {
		return 0, fmt.Errorf("invalid array name %q", opts.Name)
	}
	if opts.ToolLabel == "" {
		opts.ToolLabel = defaultToolLabel
	}
	lineLength := opts.LineLength
	if lineLength == 0 {
		lineLength = DefaultLineLength
	}
	if min := MinLineLength(opts.Name); lineLength < min {
		lineLength = min
	}

	if !opts.Bare {
		fmt.Fprintf(dst, "/* This file was created from input file %s by %s */\n\n",
			opts.SourceLabel, opts.ToolLabel)
	}

	prefix := declPrefix(opts.Name)
	e := &encoder{
		dst:        dst,
		lineLength: lineLength,
		prefix:     prefix,
		pad:        strings.Repeat(" ", len(prefix)),
		line:       make([]byte, 0, lineLength),
		first:      true,
	}

	buf := make([]byte, inputChunkSize)
	for {
		n, err := src.Read(buf)
		for _, b := range buf[:n] {
			e.putByte(b)
		}
		if err != nil {
			// End of input. A genuine read failure ends the conversion the
			// same way; whatever arrived before it has been encoded.
			break
		}
	}

	e.finish(opts.Bare)
	return e.lines, nil
}

// escState tracks the two-step emission of an escape sequence, so that the
// backslash and its letter are produced as separate output steps while
// consuming exactly one input byte between them.
type escState int

const (
	escIdle escState = iota
	escBackslashPending
	escLetterPending
)

type encoder struct {
	dst        io.Writer
	lineLength int
	prefix     string
	pad        string

	line  []byte // current line accumulator
	held  []byte // last completed line, kept back for the terminator rewrite
	esc   escState
	first bool // next line to start is the first literal line
	lines int  // literal lines successfully written
}

// putByte feeds one input byte through the escape state machine into the
// line accumulator.
func (e *encoder) putByte(b byte) {
	for {
		switch e.esc {
		case escIdle:
			e.startLine()
			if escapeLetters[b] == 0 {
				e.push(b)
				return
			}
			e.esc = escBackslashPending
			// Both escape bytes must land on one line. If the backslash
			// would leave no room for its letter before the closing quote,
			// close this line first.
			if len(e.line) > e.lineLength-postfixLen-2 {
				e.closeLine()
			}
		case escBackslashPending:
			e.startLine()
			e.push('\\')
			e.esc = escLetterPending
		case escLetterPending:
			e.push(escapeLetters[b])
			e.esc = escIdle
			return
		}
	}
}

// startLine opens a new output line if the accumulator is empty: the
// declaration prefix on the first line, aligning spaces on every later
// one, then the opening quote.
func (e *encoder) startLine() {
	if len(e.line) > 0 {
		return
	}
	if e.first {
		e.line = append(e.line, e.prefix...)
		e.first = false
	} else {
		e.line = append(e.line, e.pad...)
	}
	e.line = append(e.line, '"')
}

// push appends one byte to the accumulator and closes the line once it
// reaches the wrap point.
func (e *encoder) push(b byte) {
	e.line = append(e.line, b)
	if len(e.line) >= e.lineLength-postfixLen {
		e.closeLine()
	}
}

// closeLine finishes the accumulator with the closing quote and newline.
// The finished line is held back and the previously held one written, so
// that whichever line turns out to be last can have its tail rewritten
// into the declaration terminator.
func (e *encoder) closeLine() {
	e.line = append(e.line, '"', '\n')
	e.emitHeld()
	e.held = append(e.held[:0], e.line...)
	e.line = e.line[:0]
}

// emitHeld writes the held-back line, if any. A failed write is not
// retried and not fatal; the line counter just does not advance.
func (e *encoder) emitHeld() {
	if len(e.held) == 0 {
		return
	}
	if _, err := e.dst.Write(e.held); err == nil {
		e.lines++
	}
	e.held = e.held[:0]
}

// finish flushes the remaining content and terminates the declaration:
// the final line ends `";` plus newline where ordinary lines end with a
// bare closing quote, then the footer comment follows unless bare. Empty
// input still yields one line declaring an empty string.
func (e *encoder) finish(bare bool) {
	if e.first && len(e.line) == 0 {
		e.startLine()
	}
	var last []byte
	if len(e.line) > 0 {
		e.emitHeld()
		last = e.line
	} else {
		// Input ended exactly at a line boundary: strip the held line's
		// quote and newline and re-terminate it.
		last = e.held[:len(e.held)-postfixLen]
	}
	last = append(last, '"', ';', '\n')
	if _, err := e.dst.Write(last); err == nil {
		e.lines++
	}
	if !bare {
		io.WriteString(e.dst, "\n// End of file\n")
	}
}
