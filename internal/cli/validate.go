package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/scenario"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Steps int    `json:"steps,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results for every file.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema.

Checks YAML syntax, unknown fields, field types, per-command required
arguments and known error codes. Nothing is executed.

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := FileValidation{Path: path, Valid: true}
		s, err := scenario.ValidateFile(path)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Name = s.Name
			fv.Steps = len(s.Steps)
		}
		formatter.VerboseLog("Validated %s: valid=%t", path, fv.Valid)
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		if result.Valid {
			if err := formatter.Success(result); err != nil {
				return err
			}
		} else if err := formatter.Error(ErrCodeSchema, "validation failed", result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s (%s, %d steps)\n", fv.Path, fv.Name, fv.Steps)
			} else {
				fmt.Fprintf(w, "✗ %s\n  %s\n", fv.Path, fv.Error)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
