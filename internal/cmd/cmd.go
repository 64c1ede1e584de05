package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/rawio"
	"github.com/hupe1980/rawio/resource"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type AppBuilder struct {
	logLevel    string
	noColor     bool
	memoryLimit int64
	stderr      io.Writer

	logger     *rawio.Logger
	controller *resource.Controller
	stores     storeConfig
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{stderr: os.Stderr}
}

func (b *AppBuilder) WithStderr(w io.Writer) *AppBuilder {
	b.stderr = w
	return b
}

func (b *AppBuilder) Build() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(b.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", b.logLevel, err)
	}

	b.logger = rawio.NewLogger(tint.NewHandler(b.stderr, &tint.Options{
		Level:      level,
		NoColor:    b.noColor,
		TimeFormat: time.Kitchen,
	}))
	b.controller = resource.NewController(resource.Config{MemoryLimitBytes: b.memoryLimit})
	return nil
}

// options returns the rawio options shared by all commands.
func (b *AppBuilder) options(extra ...rawio.Option) []rawio.Option {
	opts := []rawio.Option{
		rawio.WithLogger(b.logger),
		rawio.WithResourceController(b.controller),
	}
	return append(opts, extra...)
}

func RootCmd(appBuilder *AppBuilder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rawio",
		Short: "rawio maps and writes raw binary files",
		Long:  "rawio maps files into memory, writes byte buffers to files and moves them through blob stores",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return appBuilder.Build()
		},
	}
	rootFlags := pflag.NewFlagSet("root", pflag.ContinueOnError)
	rootFlags.StringVar(&appBuilder.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootFlags.BoolVar(&appBuilder.noColor, "no-color", false, "Disable colored log output")
	rootFlags.Int64Var(&appBuilder.memoryLimit, "memory-limit", 0, "Maximum bytes mapped or loaded at once (0 = unlimited)")
	rootCmd.PersistentFlags().AddFlagSet(rootFlags)

	rootCmd.AddCommand(statCmd(appBuilder))
	rootCmd.AddCommand(copyCmd(appBuilder))
	rootCmd.AddCommand(checksumCmd(appBuilder))
	rootCmd.AddCommand(putCmd(appBuilder))
	rootCmd.AddCommand(getCmd(appBuilder))

	return rootCmd
}
