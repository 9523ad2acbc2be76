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

package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/oric-finder/config"
	"github.com/wtsi-hgi/oric-finder/kmer"
	"github.com/wtsi-hgi/oric-finder/oric"
	"github.com/wtsi-hgi/oric-finder/skewplot"
	"golang.org/x/sync/errgroup"
)

const (
	ErrNoInput       = Error("supply FASTA files, - for STDIN, or --sequence")
	ErrInputConflict = Error("--sequence can't be used together with FASTA files")

	stdinArg       = "-"
	sequenceName   = "sequence"
	plotFileSuffix = ".skew.png"
	dirPerm        = 0755
	filePerm       = 0644

	flagK          = "k"
	flagWindowSize = "window-size"
	flagCanonical  = "canonical"
)

// options for this cmd.
var (
	analyzeK          int
	analyzeWindowSize int
	analyzeCanonical  bool
	analyzeSequence   string
	analyzePlotDir    string
)

// analyzeCmd represents the analyze command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [FASTA files]",
	Short: "Predict the OriC of genomes.",
	Long: `Predict the OriC of genomes.

Supply one or more FASTA files (or plain sequence files), or - to read from
STDIN, or give a sequence directly with --sequence. If a FASTA file contains
more than one record, their sequences are joined together in file order and
treated as one genome.

For each input, a JSON object is printed to STDOUT with the genome length, the
predicted OriC center (the leftmost position of minimum GC skew), the minimum
skew value and all positions that have it, the window around the center that
was searched, and the most frequent k-mers in that window along with their
count.

By default the skew plot is included in the JSON as base64 encoded PNG. If you
supply --plot-dir, it is instead written to that directory as
<input basename>.skew.png.

K-mers are counted on the given strand only, unless you supply --canonical, in
which case each k-mer is counted together with its reverse complement.

Multiple files are analysed in parallel, up to ORIC_FINDER_CONCURRENCY at
once. An example command line could look like this:
$ oric-finder analyze -k 9 -w 500 --plot-dir plots genome1.fa genome2.fa
`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		applyConfigDefaults(cmd, c)

		inputs, err := analyzeInputs(args)
		if err != nil {
			die(err)
		}

		results, err := analyzeAll(inputs, analysisRequest(c), c.Concurrency)
		if err != nil {
			die(err)
		}

		for i, result := range results {
			if err := outputResult(inputs[i].name, result); err != nil {
				die(err)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)

	// flags specific to this sub-command
	analyzeCmd.Flags().IntVarP(&analyzeK, flagK, "k", config.DefaultK,
		"k-mer length [ORIC_FINDER_K]")
	analyzeCmd.Flags().IntVarP(&analyzeWindowSize, flagWindowSize, "w", config.DefaultWindowSize,
		"size of the window around the OriC to count k-mers in [ORIC_FINDER_WINDOW_SIZE]")
	analyzeCmd.Flags().BoolVar(&analyzeCanonical, flagCanonical, false,
		"count k-mers together with their reverse complements [ORIC_FINDER_CANONICAL]")
	analyzeCmd.Flags().StringVarP(&analyzeSequence, "sequence", "s", "",
		"sequence to analyse, instead of reading files")
	analyzeCmd.Flags().StringVarP(&analyzePlotDir, "plot-dir", "p", "",
		"directory to write skew plot PNGs to")
}

// applyConfigDefaults replaces the values of flags that the user didn't set
// with those from our config.
func applyConfigDefaults(cmd *cobra.Command, c *config.Config) {
	if !cmd.Flags().Changed(flagK) {
		analyzeK = c.K
	}

	if !cmd.Flags().Changed(flagWindowSize) {
		analyzeWindowSize = c.WindowSize
	}

	if !cmd.Flags().Changed(flagCanonical) {
		analyzeCanonical = c.Canonical
	}
}

func analysisRequest(c *config.Config) oric.Request {
	policy := kmer.StrandSpecific
	if analyzeCanonical {
		policy = kmer.Canonical
	}

	return oric.Request{
		K:          analyzeK,
		WindowSize: analyzeWindowSize,
		Policy:     policy,
		Plot:       skewplot.Options{MaxPoints: c.PlotMaxPoints},
	}
}

// input is a named genome to analyse.
type input struct {
	name string
	text string
}

func analyzeInputs(args []string) ([]input, error) {
	if analyzeSequence != "" {
		if len(args) > 0 {
			return nil, ErrInputConflict
		}

		return []input{{name: sequenceName, text: analyzeSequence}}, nil
	}

	if len(args) == 0 {
		return nil, ErrNoInput
	}

	inputs := make([]input, 0, len(args))

	for _, arg := range args {
		text, err := readInput(arg)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, input{name: inputName(arg), text: text})
	}

	return inputs, nil
}

func readInput(path string) (string, error) {
	if path == stdinArg {
		info("reading sequence from STDIN")

		data, err := io.ReadAll(os.Stdin)

		return string(data), err
	}

	data, err := os.ReadFile(path)

	return string(data), err
}

func inputName(path string) string {
	if path == stdinArg {
		return "stdin"
	}

	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// analyzeAll runs an analysis per input, with at most concurrency running at
// once. Results are returned in the same order as inputs.
func analyzeAll(inputs []input, base oric.Request, concurrency int) ([]*oric.Result, error) {
	results := make([]*oric.Result, len(inputs))

	var g errgroup.Group

	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			req := base
			req.Input = in.text

			result, err := oric.Analyze(req)
			if err != nil {
				return &analysisError{name: in.name, err: err}
			}

			results[i] = result

			return nil
		})
	}

	return results, g.Wait()
}

type analysisError struct {
	name string
	err  error
}

func (e *analysisError) Error() string {
	return e.name + ": " + oric.Classify(e.err).String() + ": " + e.err.Error()
}

func (e *analysisError) Unwrap() error {
	return e.err
}

func outputResult(name string, result *oric.Result) error {
	if analyzePlotDir != "" {
		path, err := writePlot(analyzePlotDir, name, result.PNG)
		if err != nil {
			return err
		}

		info("wrote skew plot for %s to %s", name, path)

		result.SkewPlot = ""
	}

	if len(result.MinSkewPositions) > 1 {
		warn("%s has %d positions of minimum skew; using the leftmost",
			name, len(result.MinSkewPositions))
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	cliPrint("%s\n", b)

	return nil
}

func writePlot(dir, name string, png []byte) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+plotFileSuffix)

	return path, os.WriteFile(path, png, filePerm)
}
