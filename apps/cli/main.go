package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/gridsplit/pkg/split"
	"github.com/PhantomInTheWire/gridsplit/pkg/storage"
)

const desc = `Split an image into rows x cols tiles.

Tiles are written to a directory named after the image with its extension
removed (photo.jpg -> photo/), as r<row>_c<col>.png. The image width must be
divisible by cols and its height by rows.`

// newObjectAPI connects to the bucket used by --upload. Tests replace it.
var newObjectAPI = func(ctx context.Context, cfg storage.Config) (storage.ObjectAPI, error) {
	return storage.NewClient(ctx, cfg)
}

type flags struct {
	configPath string
	format     string
	logLevel   string
	logFormat  string
	upload     bool
	bucket     string
	prefix     string
}

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run executes the command with args and reports failures as errors so that
// main owns the exit code.
func run(outW, errW io.Writer, args []string) error {
	cmd := newRootCmd(outW, errW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(outW, errW io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "gridsplit <image_path> <rows> <cols>",
		Short:         "Split an image into a grid of tiles",
		Long:          desc,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return splitCmd(cmd, outW, errW, f, args)
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.StringVar(&f.format, "format", "png", "tile encoding: png, jpg, gif, tif, bmp")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
	fl.BoolVar(&f.upload, "upload", false, "upload tiles to the configured bucket after splitting")
	fl.StringVar(&f.bucket, "bucket", "", "bucket to upload tiles to")
	fl.StringVar(&f.prefix, "prefix", "", "object key prefix for uploaded tiles")
	return cmd
}

func splitCmd(cmd *cobra.Command, outW, errW io.Writer, f flags, args []string) error {
	rows, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("rows must be an integer, got %q", args[1])
	}
	cols, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("cols must be an integer, got %q", args[2])
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, errW)
	format, err := imaging.FormatFromExtension(cfg.Format)
	if err != nil {
		return fmt.Errorf("unsupported format %q: %w", cfg.Format, err)
	}

	res, err := split.Image(args[0], split.Grid{Rows: rows, Cols: cols},
		split.WithFormat(format),
		split.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "Wrote %d tiles to %s\n", len(res.Tiles), res.Dir)

	if !f.upload {
		return nil
	}
	storeCfg := storage.ConfigFromEnv(cfg.Storage)
	if fl.Changed("bucket") {
		storeCfg.Bucket = f.bucket
	}
	if fl.Changed("prefix") {
		storeCfg.Prefix = f.prefix
	}
	client, err := newObjectAPI(cmd.Context(), storeCfg)
	if err != nil {
		return err
	}
	keys, err := storage.NewUploader(client, storeCfg, logger).UploadTiles(cmd.Context(), res.Paths())
	if err != nil {
		return fmt.Errorf("upload tiles: %w", err)
	}
	fmt.Fprintf(outW, "Uploaded %d tiles to s3://%s\n", len(keys), storeCfg.Bucket)
	return nil
}
