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
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/oric-finder/config"
	"github.com/wtsi-hgi/oric-finder/kmer"
	"github.com/wtsi-hgi/oric-finder/server"
	"github.com/wtsi-hgi/oric-finder/skewplot"
)

const readHeaderTimeout = 10 * time.Second

// options for this cmd.
var serveAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server.",
	Long: `Start the web server.

The server accepts POST requests to /analyze with form fields "file" (an
uploaded FASTA file) or "sequence" (pasted sequence), "k", "window_size" and
optionally "canonical" (true or false). It responds with the same JSON as the
analyze sub-command, with the skew plot always included as base64 PNG. Errors
are returned as {"error": "message"} with a 400 status for bad input or
parameters, 413 if the upload is larger than ORIC_FINDER_MAX_UPLOAD_BYTES, and
500 otherwise.

GET /healthz can be used to check the server is up.

Up to ORIC_FINDER_CONCURRENCY analyses run at once; other requests wait.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		c := loadConfig()

		if !cmd.Flags().Changed("addr") {
			serveAddr = c.Addr
		}

		policy := kmer.StrandSpecific
		if c.Canonical {
			policy = kmer.Canonical
		}

		handler := server.New(server.Options{
			DefaultK:          c.K,
			DefaultWindowSize: c.WindowSize,
			DefaultPolicy:     policy,
			MaxUploadBytes:    c.MaxUploadBytes,
			Concurrency:       c.Concurrency,
			Plot:              skewplot.Options{MaxPoints: c.PlotMaxPoints},
		}, appLogger)

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		info("listening on %s", serveAddr)

		if err := srv.ListenAndServe(); err != nil {
			die(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", config.DefaultAddr,
		"address to listen on [ORIC_FINDER_ADDR]")
}
