// Command tm works with Turing machine rule listings from the command line:
// it normalises them, lays out their state diagrams and exports drawings.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/turing-graph/internal/config"
	"github.com/ha1tch/turing-graph/internal/logging"
	"github.com/ha1tch/turing-graph/pkg/editor"
	"github.com/ha1tch/turing-graph/pkg/tmfile"
)

var rootCmd = &cobra.Command{
	Use:   "tm",
	Short: "Turing machine diagram toolkit",
	Long: `tm reads .tm rule listings, arranges their state diagrams with a
force-directed layout and writes them out as text, SVG, PNG or Graphviz DOT.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/"+config.FileName+")")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("word", "", "input word stored on the machine")
}

// setup loads the configuration and logger named by the persistent flags.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	logger := logging.New(logging.ParseLevel(levelName))

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			logger.Debug("no home directory, using defaults", "error", err)
			return config.Default(), logger, nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, logger, nil
}

// openSession reads a .tm file (or stdin for "-") and compiles it.
func openSession(cmd *cobra.Command, input string) (*editor.Session, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	if word, _ := cmd.Flags().GetString("word"); word != "" {
		cfg.Editor.Word = word
	}

	s, err := editor.New(cfg, editor.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var text string
	if input == "-" {
		text, err = tmfile.ReadTM(cmd.InOrStdin())
	} else {
		text, err = tmfile.ReadFile(input)
		s.Path = input
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", input, err)
	}

	s.Code = text
	if err := s.Compile(); err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return s, nil
}

// settle runs the layout and warns when it did not converge.
func settle(cmd *cobra.Command, s *editor.Session) {
	limit, _ := cmd.Flags().GetInt("steps")
	res, n := s.Settle(limit)
	if !res.Stable {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: layout not settled after %d steps (max force %.3f)\n", n, res.MaxForce)
	}
}

// output opens the -o target, or stdout when it is empty.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
