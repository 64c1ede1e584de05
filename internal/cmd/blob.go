package cmd

import (
	"fmt"

	"github.com/hupe1980/rawio"
	"github.com/spf13/cobra"
)

func putCmd(appBuilder *AppBuilder) *cobra.Command {
	putCmd := &cobra.Command{
		Use:   "put PATH URL",
		Short: "Upload a file to a blob store",
		Long:  "Map PATH and store its bytes at URL (s3://bucket/key, minio://host/bucket/key or file:///dir/key)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()

			loc, err := parseLocation(args[1])
			if err != nil {
				return err
			}
			store, err := appBuilder.stores.open(ctx, loc, false)
			if err != nil {
				return err
			}

			f, err := rawio.ReadFile(args[0], appBuilder.options(rawio.WithAccessPattern(rawio.AccessSequential))...)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := rawio.WriteBlob(ctx, store, loc.name, f, appBuilder.options()...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d bytes to %s\n", f.Size(), args[1])
			return nil
		},
	}
	putCmd.Flags().AddFlagSet(appBuilder.stores.flags())

	return putCmd
}

func getCmd(appBuilder *AppBuilder) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get URL PATH",
		Short: "Download a blob to a file",
		Long:  "Read the blob at URL and write its bytes to PATH, creating or truncating it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()

			loc, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			store, err := appBuilder.stores.open(ctx, loc, true)
			if err != nil {
				return err
			}

			b, err := rawio.ReadBlob(ctx, store, loc.name, appBuilder.options()...)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := rawio.WriteFileContext(ctx, args[1], b, appBuilder.options()...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d bytes to %s (mapped=%t)\n", b.Len(), args[1], b.Mapped())
			return nil
		},
	}
	getCmd.Flags().AddFlagSet(appBuilder.stores.flags())
	getCmd.Flags().StringVar(&appBuilder.stores.cacheDir, "cache-dir", "", "Mirror remote blobs into this directory and map them from there")

	return getCmd
}
