package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/gridsplit/pkg/stitch"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	cmd := &cobra.Command{
		Use:           "sticher <tile_dir> <output_image>",
		Short:         "Reassemble a directory of r<row>_c<col> tiles into one image",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := stitch.Dir(args[0])
			if err != nil {
				return err
			}
			// output format follows the file extension
			if err := imaging.Save(img, args[1]); err != nil {
				return fmt.Errorf("save %s: %w", args[1], err)
			}
			fmt.Fprintf(outW, "Saved %s (%dx%d)\n", args[1], img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(outW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
