package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.tm>",
	Short: "Rewrite a rule listing in canonical form",
	Long: `Compiles the listing and prints it back from its state graph: one
statement per (source, target) pair, rules joined with " | ", statements in
order of first appearance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := s.LoadGraph(); err != nil {
			return err
		}

		write, _ := cmd.Flags().GetBool("write")
		if write && args[0] != "-" {
			return s.Save(args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Code)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <file.tm>",
	Short: "Show states and transitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		m := s.Machine()
		out := cmd.OutOrStdout()

		rules := 0
		for _, st := range m.States() {
			rules += len(st.Transitions)
		}
		fmt.Fprintf(out, "States:      %d\n", m.Len())
		fmt.Fprintf(out, "Tracks:      %d\n", m.Tracks())
		fmt.Fprintf(out, "Transitions: %d\n", rules)
		if m.Word() != "" {
			fmt.Fprintf(out, "Word:        %s\n", m.Word())
		}
		fmt.Fprintln(out)

		for id, st := range m.States() {
			fmt.Fprintf(out, "  [%d] %s\n", id, st.Name)
			for _, t := range st.Transitions {
				to, _ := m.State(t.To)
				fmt.Fprintf(out, "        %s → %s\n", t.Rule, to.Name)
			}
		}
		return nil
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file.tm>",
	Short: "Print settled state positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		settle(cmd, s)
		out := cmd.OutOrStdout()
		for _, st := range s.Graph().States {
			fmt.Fprintf(out, "%s\t%.1f\t%.1f\n", st.Name, st.Position.X, st.Position.Y)
		}
		return nil
	},
}

var dotCmd = &cobra.Command{
	Use:   "dot <file.tm>",
	Short: "Generate Graphviz DOT with fixed positions",
	Long:  `Prints the laid out graph as DOT. Pipe it through "neato -n" to keep the positions.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return export(cmd, args[0], "dot")
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <file.tm>",
	Short: "Draw the state diagram as SVG or PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("output")
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(out), ".")
		}
		if format == "" {
			format = "svg"
		}
		return export(cmd, args[0], format)
	},
}

func export(cmd *cobra.Command, input, format string) error {
	s, err := openSession(cmd, input)
	if err != nil {
		return err
	}
	settle(cmd, s)
	if name, _ := cmd.Flags().GetString("highlight"); name != "" {
		id := s.Graph().StateByName(name)
		if id < 0 {
			return fmt.Errorf("no state named %q", name)
		}
		s.SetHighlight(id)
	}

	path, _ := cmd.Flags().GetString("output")
	w, closeFn, err := output(cmd, path)
	if err != nil {
		return err
	}
	if err := s.Export(w, format, baseName(input)); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "write the result back to the file")

	for _, c := range []*cobra.Command{layoutCmd, dotCmd, renderCmd} {
		c.Flags().Int("steps", 5000, "maximum layout steps")
	}
	for _, c := range []*cobra.Command{dotCmd, renderCmd} {
		c.Flags().StringP("output", "o", "", "output file (default stdout)")
		c.Flags().String("highlight", "", "state to draw as the current state")
	}
	renderCmd.Flags().StringP("format", "f", "", "svg or png (default from -o extension, else svg)")

	rootCmd.AddCommand(fmtCmd, infoCmd, layoutCmd, dotCmd, renderCmd)
}
