package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/hupe1980/rawio"
	"github.com/hupe1980/rawio/resource"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func statCmd(appBuilder *AppBuilder) *cobra.Command {
	statCmd := &cobra.Command{
		Use:   "stat PATH...",
		Short: "Show size and page residency of files",
		Long:  "Map each file and print its size, page count and the number of pages currently in memory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()

			for _, path := range args {
				f, err := rawio.ReadFile(path, appBuilder.options()...)
				if err != nil {
					return err
				}

				resident := "-"
				if bm, err := f.Resident(); err == nil {
					resident = fmt.Sprintf("%d", bm.GetCardinality())
				} else if !errors.Is(err, rawio.ErrUnsupported) {
					_ = f.Close()
					return err
				}

				fmt.Fprintf(out, "%s\tsize=%d\tpages=%d\tresident=%s\n", path, f.Size(), f.Pages(), resident)
				if err := f.Close(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return statCmd
}

// errSameFile is returned by copy when DST names the mapped SRC. Truncating
// DST would shrink the mapping being read.
var errSameFile = errors.New("source and destination are the same file")

func checkDistinct(src, dst string) error {
	si, err := os.Stat(src)
	if err != nil {
		return nil // ReadFile reports it
	}
	di, err := os.Stat(dst)
	if err != nil {
		return nil
	}
	if os.SameFile(si, di) {
		return fmt.Errorf("copy %s %s: %w", src, dst, errSameFile)
	}
	return nil
}

func copyCmd(appBuilder *AppBuilder) *cobra.Command {
	var (
		sync bool
		rate int64
	)
	copyCmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a file through a memory mapping",
		Long:  "Map SRC and write its bytes verbatim to DST, creating or truncating it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if err := checkDistinct(args[0], args[1]); err != nil {
				return err
			}

			src, err := rawio.ReadFile(args[0], appBuilder.options(rawio.WithAccessPattern(rawio.AccessSequential))...)
			if err != nil {
				return err
			}
			defer src.Close()

			opts := appBuilder.options()
			if sync {
				opts = append(opts, rawio.WithSync())
			}
			if rate > 0 {
				opts = append(opts, rawio.WithResourceController(resource.NewController(resource.Config{
					IOLimitBytesPerSec: rate,
				})))
			}

			if err := rawio.WriteFileContext(cmd.Context(), args[1], src, opts...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d bytes to %s\n", src.Size(), args[1])
			return nil
		},
	}
	copyCmd.Flags().BoolVar(&sync, "sync", false, "fsync the destination before closing it")
	copyCmd.Flags().Int64Var(&rate, "rate", 0, "Write throughput limit in bytes per second (0 = unlimited)")

	return copyCmd
}

func checksumCmd(appBuilder *AppBuilder) *cobra.Command {
	var jobs int
	checksumCmd := &cobra.Command{
		Use:   "checksum PATH...",
		Short: "Print CRC32C checksums of files",
		Long:  "Map each file and print the CRC32C of its content, checking up to --jobs files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			sums := make([]uint32, len(args))
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))

			for i, path := range args {
				g.Go(func() error {
					f, err := rawio.ReadFile(path, appBuilder.options(rawio.WithAccessPattern(rawio.AccessSequential))...)
					if err != nil {
						return err
					}
					defer f.Close()

					sums[i], err = f.Checksum()
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, path := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%08x  %s\n", sums[i], path)
			}
			return nil
		},
	}
	checksumCmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of files to checksum concurrently")

	return checksumCmd
}
