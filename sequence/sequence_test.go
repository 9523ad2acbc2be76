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

package sequence

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("You can load a plain sequence", t, func() {
		seq, err := Load("acgtn")
		So(err, ShouldBeNil)
		So(seq, ShouldEqual, Sequence("ACGTN"))
		So(seq.Len(), ShouldEqual, 5)
		So(seq.String(), ShouldEqual, "ACGTN")

		Convey("with whitespace and line breaks removed", func() {
			seq, err = Load("  AC GT\n\tacg\r\nt \n\n")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, Sequence("ACGTACGT"))
		})

		Convey("of a single base", func() {
			seq, err = Load("g")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, Sequence("G"))
		})
	})

	Convey("You can load a FASTA record, ignoring its header", t, func() {
		seq, err := Load(">chr1 some description\nACGT\nGGCC\n")
		So(err, ShouldBeNil)
		So(seq, ShouldEqual, Sequence("ACGTGGCC"))

		Convey("even with leading blank lines", func() {
			seq, err = Load("\n\n>chr1\nacgt\n")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, Sequence("ACGT"))
		})
	})

	Convey("Multiple FASTA records are concatenated in file order", t, func() {
		seq, err := Load(">one\nAAAA\nCC\n>two\nGGGG\n>three\nTT\n")
		So(err, ShouldBeNil)
		So(seq, ShouldEqual, Sequence("AAAACCGGGGTT"))
	})

	Convey("You can Read from an io.Reader", t, func() {
		seq, err := Read(strings.NewReader(">x\nnnac\n"))
		So(err, ShouldBeNil)
		So(seq, ShouldEqual, Sequence("NNAC"))
	})

	Convey("Empty input is invalid", t, func() {
		for _, text := range []string{"", "   \n\t\n", ">header only\n", ">a\n>b\n"} {
			seq, err := Load(text)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
			So(seq, ShouldEqual, Sequence(""))
		}
	})

	Convey("Non-nucleotide characters are invalid", t, func() {
		seq, err := Load("ACGTX")
		So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "'X'")
		So(err.Error(), ShouldContainSubstring, "position 4")
		So(seq, ShouldEqual, Sequence(""))

		_, err = Load(">chr1\nACGU\n")
		So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

		_, err = Load("ACG-T")
		So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

		_, err = Load("ACGT1")
		So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
	})
}
