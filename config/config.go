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

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ORIC_FINDER"

	EnvVarK              = EnvPrefix + "_K"
	EnvVarWindowSize     = EnvPrefix + "_WINDOW_SIZE"
	EnvVarCanonical      = EnvPrefix + "_CANONICAL"
	EnvVarPlotMaxPoints  = EnvPrefix + "_PLOT_MAX_POINTS"
	EnvVarMaxUploadBytes = EnvPrefix + "_MAX_UPLOAD_BYTES"
	EnvVarConcurrency    = EnvPrefix + "_CONCURRENCY"
	EnvVarAddr           = EnvPrefix + "_ADDR"

	keyK              = "k"
	keyWindowSize     = "window_size"
	keyCanonical      = "canonical"
	keyPlotMaxPoints  = "plot_max_points"
	keyMaxUploadBytes = "max_upload_bytes"
	keyConcurrency    = "concurrency"
	keyAddr           = "addr"

	DefaultK              = 9
	DefaultWindowSize     = 500
	DefaultPlotMaxPoints  = 2000
	DefaultMaxUploadBytes = 64 << 20
	DefaultConcurrency    = 4
	DefaultAddr           = ":5000"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidConfig = Error("invalid configuration")

// Config holds the default analysis parameters and the limits applied by the
// CLI and the web server.
type Config struct {
	K              int
	WindowSize     int
	Canonical      bool
	PlotMaxPoints  int
	MaxUploadBytes int64
	Concurrency    int
	Addr           string
}

// FromEnv returns a new Config with properties populated from environment
// variables ORIC_FINDER_*, where * is amongst: K, WINDOW_SIZE, CANONICAL,
// PLOT_MAX_POINTS, MAX_UPLOAD_BYTES, CONCURRENCY and ADDR. Any that are unset
// take the Default* values.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env") //nolint:errcheck

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyK, DefaultK)
	v.SetDefault(keyWindowSize, DefaultWindowSize)
	v.SetDefault(keyCanonical, false)
	v.SetDefault(keyPlotMaxPoints, DefaultPlotMaxPoints)
	v.SetDefault(keyMaxUploadBytes, DefaultMaxUploadBytes)
	v.SetDefault(keyConcurrency, DefaultConcurrency)
	v.SetDefault(keyAddr, DefaultAddr)

	c := &Config{
		K:              v.GetInt(keyK),
		WindowSize:     v.GetInt(keyWindowSize),
		Canonical:      v.GetBool(keyCanonical),
		PlotMaxPoints:  v.GetInt(keyPlotMaxPoints),
		MaxUploadBytes: v.GetInt64(keyMaxUploadBytes),
		Concurrency:    v.GetInt(keyConcurrency),
		Addr:           v.GetString(keyAddr),
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) validate() error {
	positive := []struct {
		name  string
		value int64
	}{
		{EnvVarK, int64(c.K)},
		{EnvVarWindowSize, int64(c.WindowSize)},
		{EnvVarPlotMaxPoints, int64(c.PlotMaxPoints)},
		{EnvVarMaxUploadBytes, c.MaxUploadBytes},
		{EnvVarConcurrency, int64(c.Concurrency)},
	}

	for _, p := range positive {
		if p.value < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidConfig, p.name)
		}
	}

	return nil
}
