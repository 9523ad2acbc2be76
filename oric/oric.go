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

// Package oric predicts the origin of replication of a circular bacterial
// genome and reports the most frequent k-mers near it.
//
// A single call to Analyze runs the whole pipeline: the sequence is loaded,
// its cumulative GC skew computed, the leftmost skew minimum taken as the
// origin, a window around it searched for the most frequent k-mers, and the
// skew drawn as a PNG. Nothing is shared between calls, so Analyze can be
// used concurrently.
package oric

import (
	"errors"
	"fmt"

	"github.com/wtsi-hgi/oric-finder/kmer"
	"github.com/wtsi-hgi/oric-finder/sequence"
	"github.com/wtsi-hgi/oric-finder/skew"
	"github.com/wtsi-hgi/oric-finder/skewplot"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidInput     = sequence.ErrInvalidInput
	ErrInvalidParameter = Error("invalid parameter")
	ErrRender           = skewplot.ErrRender

	DefaultK          = 9
	DefaultWindowSize = 500
)

// Class is the broad category of an Analyze failure.
type Class int

const (
	Internal Class = iota
	InvalidInput
	InvalidParameter
	Render
)

// String returns a short name for the class.
func (c Class) String() string {
	switch c {
	case InvalidInput:
		return "invalid input"
	case InvalidParameter:
		return "invalid parameter"
	case Render:
		return "render"
	default:
		return "internal"
	}
}

// Classify returns the Class of an error returned by Analyze.
func Classify(err error) Class {
	switch {
	case errors.Is(err, sequence.ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, ErrInvalidParameter),
		errors.Is(err, skew.ErrInvalidParameter),
		errors.Is(err, kmer.ErrInvalidParameter):
		return InvalidParameter
	case errors.Is(err, skewplot.ErrRender):
		return Render
	default:
		return Internal
	}
}

// Request holds everything needed for one analysis.
type Request struct {
	// Input is FASTA text or a plain sequence.
	Input string

	// K is the k-mer length.
	K int

	// WindowSize is the number of bases around the origin to count k-mers
	// in.
	WindowSize int

	// Policy says whether k-mers are folded with their reverse complements.
	Policy kmer.Policy

	Plot skewplot.Options
}

// Result is the outcome of a successful analysis. The json tags give the
// field names used on the wire.
type Result struct {
	GenomeLength      int      `json:"genome_length"`
	OriCCenter        int      `json:"oric_center"`
	MinSkewValue      int      `json:"min_skew_value"`
	MinSkewPositions  []int    `json:"min_skew_positions"`
	WindowStart       int      `json:"window_start"`
	WindowEnd         int      `json:"window_end"`
	WindowSize        int      `json:"window_size"`
	K                 int      `json:"k"`
	Canonical         bool     `json:"canonical"`
	MostFrequentKmers []string `json:"most_frequent_kmers"`
	KmerCount         int      `json:"kmer_count"`
	SkewPlot          string   `json:"skew_plot,omitempty"`

	// PNG is the raw image behind SkewPlot.
	PNG []byte `json:"-"`
}

// Analyze runs the full pipeline on req. The first failure stops the pipeline
// and is returned; use Classify() to find its Class. No partial Result is
// ever returned.
func Analyze(req Request) (*Result, error) {
	seq, err := sequence.Load(req.Input)
	if err != nil {
		return nil, err
	}

	if err = validateParameters(req); err != nil {
		return nil, err
	}

	skews, err := skew.Build(seq.String())
	if err != nil {
		return nil, err
	}

	origin, err := skew.Locate(skews, req.WindowSize)
	if err != nil {
		return nil, err
	}

	kmers, count, err := kmer.Frequent(origin.Window.Slice(seq.String()), req.K, req.Policy)
	if err != nil {
		return nil, err
	}

	plot, err := skewplot.Render(skews, req.Plot)
	if err != nil {
		return nil, err
	}

	return &Result{
		GenomeLength:      seq.Len(),
		OriCCenter:        origin.Center,
		MinSkewValue:      origin.MinSkew,
		MinSkewPositions:  origin.MinPositions,
		WindowStart:       origin.Window.Start,
		WindowEnd:         origin.Window.End,
		WindowSize:        req.WindowSize,
		K:                 req.K,
		Canonical:         req.Policy == kmer.Canonical,
		MostFrequentKmers: kmers,
		KmerCount:         count,
		SkewPlot:          plot.Base64(),
		PNG:               plot.PNG,
	}, nil
}

func validateParameters(req Request) error {
	if req.K < 1 {
		return fmt.Errorf("%w: k must be a positive integer, not %d", ErrInvalidParameter, req.K)
	}

	if req.WindowSize < 1 {
		return fmt.Errorf("%w: window size must be a positive integer, not %d",
			ErrInvalidParameter, req.WindowSize)
	}

	return nil
}
