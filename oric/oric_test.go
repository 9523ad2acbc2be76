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

package oric

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/oric-finder/kmer"
	"github.com/wtsi-hgi/oric-finder/skew"
	"github.com/wtsi-hgi/oric-finder/skewplot"
)

const testSeq = "CATGGGCATCGGCCATACGCC"

func TestAnalyze(t *testing.T) {
	Convey("Given a short genome", t, func() {
		req := Request{Input: testSeq, K: 3, WindowSize: 22}

		Convey("you can predict its OriC and most frequent k-mers", func() {
			result, err := Analyze(req)
			So(err, ShouldBeNil)
			So(result.GenomeLength, ShouldEqual, 21)
			So(result.MinSkewValue, ShouldEqual, -2)
			So(result.MinSkewPositions, ShouldResemble, []int{21})
			So(result.OriCCenter, ShouldEqual, 20)
			So(result.WindowStart, ShouldEqual, 0)
			So(result.WindowEnd, ShouldEqual, 21)
			So(result.WindowSize, ShouldEqual, 22)
			So(result.K, ShouldEqual, 3)
			So(result.Canonical, ShouldBeFalse)
			So(result.MostFrequentKmers, ShouldResemble, []string{"CAT"})
			So(result.KmerCount, ShouldEqual, 3)
			So(result.PNG, ShouldNotBeEmpty)
			So(result.SkewPlot, ShouldNotBeEmpty)

			Convey("which agrees with a direct simulation of the skew", func() {
				minValue, minIndex, current := 0, 0, 0

				for i := 0; i < len(testSeq); i++ {
					switch testSeq[i] {
					case 'G':
						current++
					case 'C':
						current--
					}

					if current < minValue {
						minValue, minIndex = current, i+1
					}
				}

				So(result.MinSkewValue, ShouldEqual, minValue)
				So(result.MinSkewPositions[0], ShouldEqual, minIndex)
				So(result.OriCCenter, ShouldEqual, min(minIndex, len(testSeq)-1))
			})

			Convey("and the same input always gives identical results", func() {
				again, err := Analyze(req)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, result)
			})
		})

		Convey("you can fold k-mers with their reverse complements", func() {
			req.Policy = kmer.Canonical

			result, err := Analyze(req)
			So(err, ShouldBeNil)
			So(result.Canonical, ShouldBeTrue)
			So(result.MostFrequentKmers, ShouldResemble, []string{"ATG", "GCC"})
			So(result.KmerCount, ShouldEqual, 4)
		})

		Convey("k-mers are only counted in the window", func() {
			req.WindowSize = 6
			req.K = 2

			result, err := Analyze(req)
			So(err, ShouldBeNil)
			So(result.WindowStart, ShouldEqual, 15)
			So(result.WindowEnd, ShouldEqual, 21)
			So(result.MostFrequentKmers, ShouldResemble, []string{"AC", "CC", "CG", "GC", "TA"})
			So(result.KmerCount, ShouldEqual, 1)
		})

		Convey("k longer than the window is invalid", func() {
			req.WindowSize = 2

			result, err := Analyze(req)
			So(errors.Is(err, kmer.ErrInvalidParameter), ShouldBeTrue)
			So(Classify(err), ShouldEqual, InvalidParameter)
			So(result, ShouldBeNil)
		})

		Convey("k and window size must be positive", func() {
			req.K = 0

			result, err := Analyze(req)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
			So(Classify(err), ShouldEqual, InvalidParameter)
			So(result, ShouldBeNil)

			req.K = 3
			req.WindowSize = -1

			result, err = Analyze(req)
			So(Classify(err), ShouldEqual, InvalidParameter)
			So(result, ShouldBeNil)
		})
	})

	Convey("A FASTA genome of many records is analysed as one sequence", t, func() {
		result, err := Analyze(Request{
			Input:      ">part1\nCATGGGCATC\n>part2\nggccatacgcc\n",
			K:          3,
			WindowSize: 22,
		})
		So(err, ShouldBeNil)
		So(result.GenomeLength, ShouldEqual, 21)
		So(result.MostFrequentKmers, ShouldResemble, []string{"CAT"})
	})

	Convey("A single base genome can be analysed", t, func() {
		result, err := Analyze(Request{Input: "A", K: 1, WindowSize: 1})
		So(err, ShouldBeNil)
		So(result.GenomeLength, ShouldEqual, 1)
		So(result.OriCCenter, ShouldEqual, 0)
		So(result.WindowStart, ShouldEqual, 0)
		So(result.WindowEnd, ShouldEqual, 1)
		So(result.MostFrequentKmers, ShouldResemble, []string{"A"})
		So(result.KmerCount, ShouldEqual, 1)
	})

	Convey("Input errors are reported before parameter errors", t, func() {
		result, err := Analyze(Request{Input: ">empty\n", K: 0, WindowSize: 0})
		So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		So(Classify(err), ShouldEqual, InvalidInput)
		So(result, ShouldBeNil)

		_, err = Analyze(Request{Input: "ACGTQ", K: 1, WindowSize: 1})
		So(Classify(err), ShouldEqual, InvalidInput)
	})

	Convey("Large genomes are plotted downsampled", t, func() {
		result, err := Analyze(Request{
			Input:      randomGenome(20000),
			K:          9,
			WindowSize: 500,
			Plot:       skewplot.Options{MaxPoints: 100},
		})
		So(err, ShouldBeNil)
		So(result.WindowEnd-result.WindowStart, ShouldEqual, 500)
		So(result.PNG, ShouldNotBeEmpty)

		for _, kmer := range result.MostFrequentKmers {
			So(len(kmer), ShouldEqual, 9)
		}
	})
}

// randomGenome returns a deterministic pseudo-random sequence of length n.
func randomGenome(n int) string {
	const bases = "ACGT"

	b := make([]byte, n)
	state := uint32(42)

	for i := range b {
		state = state*1664525 + 1013904223
		b[i] = bases[state>>30]
	}

	return string(b)
}

func TestClassify(t *testing.T) {
	Convey("Errors are classified by their sentinel", t, func() {
		So(Classify(ErrInvalidInput), ShouldEqual, InvalidInput)
		So(Classify(fmt.Errorf("%w: detail", ErrInvalidParameter)), ShouldEqual, InvalidParameter)
		So(Classify(skew.ErrInvalidParameter), ShouldEqual, InvalidParameter)
		So(Classify(kmer.ErrInvalidParameter), ShouldEqual, InvalidParameter)
		So(Classify(fmt.Errorf("%w: detail", ErrRender)), ShouldEqual, Render)
		So(Classify(errors.New("other")), ShouldEqual, Internal)

		So(InvalidInput.String(), ShouldEqual, "invalid input")
		So(InvalidParameter.String(), ShouldEqual, "invalid parameter")
		So(Render.String(), ShouldEqual, "render")
		So(Internal.String(), ShouldEqual, "internal")
	})
}
