package main

import (
	"context"
	"io"
	"os"

	"github.com/xoplog/xray-go/xrayconv"
	"github.com/xoplog/xray-go/xrayotel"
	"github.com/xoplog/xray-go/xrayotel/stdoutspans"

	"github.com/muir/list"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConvertCommand() *cobra.Command {
	var (
		configPath string
		indexed    []string
		indexAll   bool
		daemon     bool
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert recorded spans to segment documents",
		Long: `Convert reads spans from file, or from standard input when file is
"-" or missing, and writes segment documents to standard output, one per
line. With --daemon each document is framed for the X-Ray daemon instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("index") {
				cfg.IndexedAttributes = append(cfg.IndexedAttributes, list.Copy(indexed)...)
			}
			if flags.Changed("index-all") {
				cfg.IndexAllAttributes = indexAll
			}
			if flags.Changed("daemon") {
				cfg.Daemon = daemon
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open spans")
				}
				defer f.Close()
				in = f
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			defer func() { _ = logger.Sync() }()
			return convert(cmd.Context(), in, cmd.OutOrStdout(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringArrayVar(&indexed, "index", nil, "attribute to write as an annotation (repeatable)")
	cmd.Flags().BoolVar(&indexAll, "index-all", false, "write every scalar attribute as an annotation")
	cmd.Flags().BoolVar(&daemon, "daemon", false, "frame output for the X-Ray daemon")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// nopCloser keeps the exporter from closing standard output.
type nopCloser struct {
	io.Writer
}

func convert(ctx context.Context, in io.Reader, out io.Writer, cfg *Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	spans, err := stdoutspans.Snapshots(in)
	if err != nil {
		return errors.Wrap(err, "read spans")
	}
	var sink xrayotel.Sink = xrayotel.WriteToIOWriter(nopCloser{out})
	if cfg.Daemon {
		sink = xrayotel.WriteToDaemon(nopCloser{out})
	}
	exporter := xrayotel.NewExporter(sink,
		xrayotel.WithLogger(logger),
		xrayotel.WithConverterOptions(
			xrayconv.WithIndexedAttributes(cfg.IndexedAttributes...),
			xrayconv.WithIndexAllAttributes(cfg.IndexAllAttributes),
			xrayconv.WithDefaultLanguage(cfg.DefaultLanguage),
		),
	)
	logger.Debug("converting spans", zap.Int("count", len(spans)), zap.String("exporter", exporter.ID()))
	exportErr := exporter.ExportSpans(ctx, spans)
	if err := exporter.Shutdown(ctx); err != nil {
		return err
	}
	return errors.Wrap(exportErr, "convert spans")
}
