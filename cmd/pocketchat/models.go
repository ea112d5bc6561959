package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List selectable model formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		for _, f := range a.mgr.Formats() {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts <format>",
	Short: "List downloadable artifacts of a model format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.mgr.SelectFormat(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, arts := a.mgr.Artifacts()
		for _, art := range arts {
			fmt.Fprintln(cmd.OutOrStdout(), art.Filename)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull <format> <filename>",
	Short: "Download an artifact and verify it loads",
	Long: `pull lists the format's artifacts, downloads the named one and loads it.
A successful pull becomes the last used model.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		if err := a.mgr.SelectFormat(ctx, args[0]); err != nil {
			return err
		}
		if err := a.mgr.SelectArtifact(args[1]); err != nil {
			return err
		}

		done := make(chan struct{})
		go reportProgress(ctx, cmd, a, done)
		err = a.mgr.ConfirmDownload(ctx, true)
		close(done)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ready: %s\n", a.mgr.Status().Current)
		return nil
	},
}

// reportProgress prints the download percentage whenever it changes.
func reportProgress(ctx context.Context, cmd *cobra.Command, a *app, done <-chan struct{}) {
	t := time.NewTicker(250 * time.Millisecond)
	defer t.Stop()
	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-t.C:
			d := a.mgr.Status().Download
			if d.IsDownloading && d.ProgressPercent != last {
				last = d.ProgressPercent
				fmt.Fprintf(cmd.ErrOrStderr(), "downloading %d%%\n", last)
			}
		}
	}
}

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "List downloaded artifacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		arts, err := a.mgr.LocalArtifacts()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILENAME\tSIZE\tARCH\tQUANT\tPARAMS")
		for _, art := range arts {
			arch, quant, params := "-", "-", "-"
			if md := art.Metadata; md != nil {
				arch, quant, params = md.Architecture, md.Quantization, md.Parameters
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", art.Filename, art.Size, arch, quant, params)
		}
		return tw.Flush()
	},
}
