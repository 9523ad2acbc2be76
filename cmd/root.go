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

// package cmd is the cobra file that enables subcommands and handles
// command-line args.

package cmd

import (
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/oric-finder/config"
)

type Error string

func (e Error) Error() string { return string(e) }

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// options for all cmds.
var debug bool

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "oric-finder",
	Short: "oric-finder predicts the origin of replication of bacterial genomes",
	Long: `oric-finder predicts the origin of replication of bacterial genomes.

The origin (OriC) is taken to be the position of minimum cumulative GC skew
(G minus C). The most frequent k-mers in a window around that position are
reported, as candidate DnaA boxes, along with a plot of the skew.

Use the "analyze" sub-command to analyse FASTA files on the command line, or
the "serve" sub-command to start a web server that accepts uploads.

Defaults for the options of the sub-commands can be set with ORIC_FINDER_*
environment variables, or in a .env file in the current directory:
K, WINDOW_SIZE, CANONICAL, PLOT_MAX_POINTS, MAX_UPLOAD_BYTES, CONCURRENCY and
ADDR.
`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if debug {
			setLogLevel(log15.LvlDebug)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once to
// the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die(err)
	}
}

func init() {
	setLogLevel(log15.LvlInfo)

	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages")
}

// setLogLevel sets up logging to stderr at the given level.
func setLogLevel(lvl log15.Lvl) {
	appLogger.SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))
}

// loadConfig gets our config from the environment, dying if it's invalid.
func loadConfig() *config.Config {
	c, err := config.FromEnv()
	if err != nil {
		die(err)
	}

	return c
}

// cliPrint outputs the message to STDOUT.
func cliPrint(msg string, a ...interface{}) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// info is a convenience to log a message at the Info level.
func info(msg string, a ...interface{}) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warn is a convenience to log a message at the Warn level.
func warn(msg string, a ...interface{}) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log an error at the Error level and exit non zero.
func die(err error) {
	dief("%s", err.Error())
}

// dief is like die, but takes a message with placeholders.
func dief(msg string, a ...interface{}) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}
