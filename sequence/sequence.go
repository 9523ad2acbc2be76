/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package sequence turns uploaded genome text, either FASTA or a bare
// sequence, into a validated upper case nucleotide string.
package sequence

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidInput = Error("invalid input sequence")

	headerPrefix    = '>'
	syntheticHeader = ">input\n"
	validBases      = "ACGTN"
)

// Sequence is an upper case genome sequence over the alphabet A, C, G, T and
// N. It is always at least one base long.
type Sequence string

// Len returns the number of bases in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// String returns the sequence as a plain string.
func (s Sequence) String() string {
	return string(s)
}

// Load is like Read, but takes the text directly.
func Load(text string) (Sequence, error) {
	return Read(strings.NewReader(text))
}

// Read parses r as one or more FASTA records, or as a plain sequence if the
// first non-blank line is not a '>' header. The sequence lines of every record
// are concatenated in order, with all whitespace removed and letters upper
// cased.
//
// Returns an error wrapping ErrInvalidInput if nothing is left after
// stripping, or if there are characters other than A, C, G, T or N (in any
// case).
func Read(r io.Reader) (Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	if !startsWithHeader(data) {
		data = append([]byte(syntheticHeader), data...)
	}

	raw, err := concatenateRecords(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	return normalise(raw)
}

func startsWithHeader(data []byte) bool {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)

	return len(trimmed) > 0 && trimmed[0] == headerPrefix
}

func concatenateRecords(r io.Reader) ([]byte, error) {
	template := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	var out []byte

	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			continue
		}

		out = append(out, alphabet.LettersToBytes(s.Seq)...)
	}

	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	return out, nil
}

func normalise(raw []byte) (Sequence, error) {
	var sb strings.Builder

	sb.Grow(len(raw))

	for _, b := range raw {
		if b < unicode.MaxASCII && unicode.IsSpace(rune(b)) {
			continue
		}

		upper := byte(unicode.ToUpper(rune(b)))
		if strings.IndexByte(validBases, upper) == -1 {
			return "", fmt.Errorf("%w: character %q at position %d is not one of %s",
				ErrInvalidInput, rune(b), sb.Len(), validBases)
		}

		sb.WriteByte(upper)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no sequence found", ErrInvalidInput)
	}

	return Sequence(sb.String()), nil
}
