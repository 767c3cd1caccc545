package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carsonSgit/cusec-photobooth/internal/strip"
	"github.com/carsonSgit/cusec-photobooth/internal/types"
)

// compose runs the compositor offline, which is handy for print tests
// without a camera attached.
func newComposeCmd() *cobra.Command {
	var orientation string
	var out string

	cmd := &cobra.Command{
		Use:   "compose photo1 photo2 photo3",
		Short: "Compose three photo files into a strip",
		Args:  cobra.ExactArgs(3),
		Example: `  photobooth compose shot1.jpg shot2.jpg shot3.jpg --orientation landscape -o strip.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := types.Orientation(orientation)
			if !o.Valid() {
				return fmt.Errorf("orientation must be portrait or landscape, got %q", orientation)
			}

			photos := make([]types.CapturedPhoto, 0, 3)
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				photos = append(photos, types.CapturedPhoto{Data: data, Mime: "image/jpeg"})
			}

			result, err := strip.Compose(photos, o)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(result.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "portrait", "strip orientation (portrait or landscape)")
	cmd.Flags().StringVarP(&out, "out", "o", "photostrip.png", "output file")
	return cmd
}
