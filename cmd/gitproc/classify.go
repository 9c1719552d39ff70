package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmgilman/gitprocess"
	platformerrors "github.com/jmgilman/gitprocess/errors"
)

// classification is the --json output of gitproc classify.
type classification struct {
	ExitCode       int    `json:"exit_code"`
	Kind           string `json:"kind"`
	Code           string `json:"code,omitempty"`
	Classification string `json:"classification,omitempty"`
}

func newClassifyCmd() *cobra.Command {
	var (
		exitCode   int
		stderrFile string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "classify --exit-code N [--stderr-file FILE|-]",
		Short: "Classify an exit code and stderr text without running git",
		Long: `Classify applies the error rules to an exit code and stderr text, for
example output captured from a CI log. Stderr is read from --stderr-file, or
from standard input when the flag is omitted or "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stderr, err := readStderr(cmd, stderrFile)
			if err != nil {
				return err
			}

			kind := gitprocess.Classify(exitCode, stderr)
			out := classification{ExitCode: exitCode, Kind: string(kind)}
			if kind != "" {
				out.Code = string(kind.Code())
				out.Classification = string(platformerrors.DefaultClassification(kind.Code()))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("write classification: %w", err)
				}
				return nil
			}

			if kind == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "success")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bold(kind), dim("("+out.Code+", "+out.Classification+")"))
			return nil
		},
	}

	cmd.Flags().IntVar(&exitCode, "exit-code", 0, "Exit code git returned")
	cmd.Flags().StringVar(&stderrFile, "stderr-file", "-", "File holding git's stderr, or - for standard input")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the classification as JSON")
	_ = cmd.MarkFlagRequired("exit-code")
	return cmd
}

func readStderr(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read stderr: %w", err)
	}
	return string(data), nil
}
