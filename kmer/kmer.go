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

// Package kmer counts overlapping k-mers in a stretch of sequence and finds
// the most frequent ones.
package kmer

import (
	"fmt"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidParameter = Error("invalid parameter")

// Policy decides whether a k-mer and its reverse complement are counted as
// the same motif.
type Policy int

const (
	// StrandSpecific counts k-mers exactly as they appear on the given
	// strand. This is the default.
	StrandSpecific Policy = iota

	// Canonical folds each k-mer with its reverse complement and counts them
	// under whichever of the pair sorts first.
	Canonical
)

// String returns "strand-specific" or "canonical".
func (p Policy) String() string {
	if p == Canonical {
		return "canonical"
	}

	return "strand-specific"
}

// Counts maps k-mers to the number of times they occur.
type Counts map[string]int

// Count counts every overlapping substring of length k in window, sliding by
// one base. N is treated as a literal character. With the Canonical policy,
// the reverse complement of each k-mer is folded in to the lexicographically
// smaller of the two.
//
// Returns an error wrapping ErrInvalidParameter if k is less than 1 or longer
// than window.
func Count(window string, k int, p Policy) (Counts, error) {
	if k < 1 || k > len(window) {
		return nil, fmt.Errorf("%w: k must be between 1 and the window length %d, not %d",
			ErrInvalidParameter, len(window), k)
	}

	counts := make(Counts)

	for i := 0; i <= len(window)-k; i++ {
		counts[window[i:i+k]]++
	}

	if p == Canonical {
		return counts.canonicalise(), nil
	}

	return counts, nil
}

func (c Counts) canonicalise() Counts {
	folded := make(Counts, len(c))

	for kmer, n := range c {
		folded[canonical(kmer)] += n
	}

	return folded
}

func canonical(kmer string) string {
	rc := ReverseComplement(kmer)
	if rc < kmer {
		return rc
	}

	return kmer
}

// ReverseComplement returns the reverse complement of the given upper case
// DNA sequence. N is its own complement.
func ReverseComplement(s string) string {
	ls := linear.NewSeq("", alphabet.BytesToLetters([]byte(s)), alphabet.DNA)
	ls.RevComp()

	return string(alphabet.LettersToBytes(ls.Seq))
}

// Total returns the sum of all counts, which for a window of length L is
// L-k+1.
func (c Counts) Total() int {
	total := 0

	for _, n := range c {
		total += n
	}

	return total
}

// MostFrequent returns every k-mer that has the highest count, sorted
// lexicographically, along with that count.
func (c Counts) MostFrequent() ([]string, int) {
	maxCount := 0

	for _, n := range c {
		if n > maxCount {
			maxCount = n
		}
	}

	if maxCount == 0 {
		return []string{}, 0
	}

	kmers := make([]string, 0, 1)

	for kmer, n := range c {
		if n == maxCount {
			kmers = append(kmers, kmer)
		}
	}

	sort.Strings(kmers)

	return kmers, maxCount
}

// Frequent is a convenience that calls Count and then MostFrequent.
func Frequent(window string, k int, p Policy) ([]string, int, error) {
	counts, err := Count(window, k, p)
	if err != nil {
		return nil, 0, err
	}

	kmers, n := counts.MostFrequent()

	return kmers, n, nil
}
