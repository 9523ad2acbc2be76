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

// Package skew computes the cumulative GC skew of a genome and uses its
// minimum to predict the origin of replication.
package skew

import "fmt"

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptySequence    = Error("cannot compute skew of an empty sequence")
	ErrInvalidParameter = Error("invalid parameter")
)

// Array holds the cumulative skew of a sequence of length n: n+1 values where
// element 0 is 0 and element i is the count of G minus the count of C in the
// first i bases.
type Array []int

// Build computes the skew Array of seq in a single pass. seq is expected to be
// upper case; only 'G' and 'C' affect the running total.
func Build(seq string) (Array, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}

	a := make(Array, len(seq)+1)
	current := 0

	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G':
			current++
		case 'C':
			current--
		}

		a[i+1] = current
	}

	return a, nil
}

// GenomeLength returns the length of the sequence this Array was built from.
func (a Array) GenomeLength() int {
	if len(a) == 0 {
		return 0
	}

	return len(a) - 1
}

// Min returns the minimum value in the Array and every index that has that
// value, in ascending order. An empty Array returns 0 and nil.
func (a Array) Min() (int, []int) {
	if len(a) == 0 {
		return 0, nil
	}

	minValue := a[0]
	positions := []int{0}

	for i := 1; i < len(a); i++ {
		switch {
		case a[i] < minValue:
			minValue = a[i]
			positions = positions[:0]
			positions = append(positions, i)
		case a[i] == minValue:
			positions = append(positions, i)
		}
	}

	return minValue, positions
}

// Window is a half-open interval [Start, End) of sequence coordinates, along
// with the window Size that was requested.
type Window struct {
	Start int
	End   int
	Size  int
}

// Len returns the actual width of the window, which is less than Size only if
// the genome is shorter than Size.
func (w Window) Len() int {
	return w.End - w.Start
}

// Slice returns the part of seq covered by the window.
func (w Window) Slice(seq string) string {
	return seq[w.Start:w.End]
}

// Origin is the predicted origin of replication.
type Origin struct {
	// MinSkew is the global minimum of the skew Array.
	MinSkew int

	// MinPositions are all the Array indices that have MinSkew, ascending.
	MinPositions []int

	// Center is the leftmost of MinPositions, as a sequence coordinate.
	Center int

	Window Window
}

// Locate finds the leftmost global minimum of a and returns it as an Origin
// with a window of windowSize bases centred on it. The window is clipped to
// the genome and then shifted left so that it is always min(windowSize,
// genome length) bases wide.
//
// Returns an error wrapping ErrInvalidParameter if windowSize is less than 1,
// or if a is for an empty genome.
func Locate(a Array, windowSize int) (Origin, error) {
	if windowSize < 1 {
		return Origin{}, fmt.Errorf("%w: window size must be at least 1, not %d",
			ErrInvalidParameter, windowSize)
	}

	n := a.GenomeLength()
	if n < 1 {
		return Origin{}, fmt.Errorf("%w: genome is empty", ErrInvalidParameter)
	}

	minValue, positions := a.Min()

	center := positions[0]
	if center > n-1 {
		center = n - 1
	}

	return Origin{
		MinSkew:      minValue,
		MinPositions: positions,
		Center:       center,
		Window:       centredWindow(center, windowSize, n),
	}, nil
}

func centredWindow(center, size, n int) Window {
	start := max(0, center-size/2)
	end := min(n, start+size)

	if end-start < size {
		start = max(0, end-size)
	}

	return Window{Start: start, End: end, Size: size}
}
