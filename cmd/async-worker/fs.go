package main

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/util"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
)

var (
	dirColor = color.New(color.FgBlue, color.Bold)
	keyColor = color.New(color.FgCyan)
)

// fsOptions are shared by the one-shot filesystem commands.
type fsOptions struct {
	root     string
	jobCount int
	timeout  time.Duration
}

func newFsCommand() *cobra.Command {
	opts := &fsOptions{}

	cmd := &cobra.Command{
		Use:   "fs",
		Short: "Run filesystem operations through a local engine",
	}
	cmd.PersistentFlags().StringVar(&opts.root, "root", ".", "directory the paths are relative to")
	cmd.PersistentFlags().IntVar(&opts.jobCount, "job-count", 4, "number of filesystem jobs")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "time allowed for the command")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls [path]",
			Short: "List a directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p := "."
				if len(args) == 1 {
					p = args[0]
				}
				return opts.with(cmd, func(ctx context.Context, svc *fs.Service) error {
					return list(ctx, svc, cmd.OutOrStdout(), p)
				})
			},
		},
		&cobra.Command{
			Use:   "cat <path>",
			Short: "Print a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.with(cmd, func(ctx context.Context, svc *fs.Service) error {
					data, err := svc.ReadFile(ctx, args[0])
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "stat <path>",
			Short: "Show the attributes of a path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.with(cmd, func(ctx context.Context, svc *fs.Service) error {
					info, err := svc.Stat(ctx, args[0])
					if err != nil {
						return err
					}
					printStat(cmd.OutOrStdout(), info)
					return nil
				})
			},
		},
	)
	return cmd
}

func (o *fsOptions) with(cmd *cobra.Command, fn func(ctx context.Context, svc *fs.Service) error) error {
	svc, err := fs.NewService(osfs.New(o.root, osfs.WithBoundOS()), asyncworker.Config{JobCount: o.jobCount})
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	return fn(ctx, svc)
}

func list(ctx context.Context, svc *fs.Service, w io.Writer, dir string) error {
	names, err := svc.List(ctx, dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		isDir, err := svc.IsDirectory(ctx, path.Join(dir, name))
		if err != nil {
			return err
		}
		if isDir {
			dirColor.Fprintln(w, name+"/")
			continue
		}
		fmt.Fprintln(w, name)
	}
	return nil
}

func printStat(w io.Writer, info fs.FileInfo) {
	kind := "file"
	if info.IsDir {
		kind = "directory"
	}
	rows := []struct {
		key   string
		value any
	}{
		{"path", info.Path},
		{"type", kind},
		{"size", fmt.Sprintf("%d (%s)", info.Size, util.HumanSize(info.Size))},
		{"modified", info.Modified.Format(time.RFC3339)},
		{"hidden", info.Hidden},
		{"readable", info.Readable},
		{"writable", info.Writable},
	}
	for _, r := range rows {
		keyColor.Fprintf(w, "%-9s", r.key)
		fmt.Fprintf(w, " %v\n", r.value)
	}
}
