// Command xrayconv converts spans recorded by the stdouttrace exporter
// into AWS X-Ray segment documents.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "xrayconv:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xrayconv",
		Short: "Convert OpenTelemetry spans to AWS X-Ray segments",
		Long: `xrayconv reads spans in the JSON format written by the OpenTelemetry
stdouttrace exporter and writes one X-Ray segment document per span.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newConvertCommand(), newKeysCommand())
	return cmd
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}
