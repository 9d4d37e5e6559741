// Command gofat inspects and populates FAT12/16/32 volume images from the
// command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kdwils/gofat"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// exitCode classifies a command's returned error into the process exit
// code callers distinguish on: 1 for malformed invocations, 2 for errors
// reading or writing the image itself, 3 for errors the filesystem layer
// raised against well-formed input.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, gofat.ErrIO) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return 2
	}

	fsErrors := []error{
		gofat.ErrInvalidFormat,
		gofat.ErrInvalidPath,
		gofat.ErrInvalidName,
		gofat.ErrNotFound,
		gofat.ErrNotADirectory,
		gofat.ErrAlreadyExists,
		gofat.ErrDirectoryFull,
		gofat.ErrNoSpace,
		gofat.ErrNotImplemented,
		gofat.ErrNotMounted,
		gofat.ErrUnsupported,
	}
	for _, fsErr := range fsErrors {
		if errors.Is(err, fsErr) {
			return 3
		}
	}

	return 1
}

func main() {
	z, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer z.Sync()
	logger = z.Sugar()

	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		logger.Errorw("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

var skipChecks bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gofat",
		Short: "Inspect and populate FAT12/16/32 volume images",
	}
	root.PersistentFlags().BoolVar(&skipChecks, "skip-checks", false, "mount without BPB sanity checks")

	root.AddCommand(newInfoCmd(), newLsCmd(), newCatCmd(), newMkdirCmd(), newPutCmd())
	return root
}

func mountImage(path string) (*gofat.Fs, *os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}

	var volume *gofat.Fs
	if skipChecks {
		volume, err = gofat.NewSkipChecks(f)
	} else {
		volume, err = gofat.New(f)
	}
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return volume, f, nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <image>",
		Short: "Print the detected FAT variant and volume label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, f, err := mountImage(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			defer volume.Close()

			logger.Infow("mounted volume", "type", volume.FSType().String(), "label", volume.Label())
			fmt.Printf("type:  %s\nlabel: %s\n", volume.FSType(), volume.Label())
			return nil
		},
	}
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <image> [path]",
		Short: "List a directory's contents",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, f, err := mountImage(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			defer volume.Close()

			path := ""
			if len(args) == 2 {
				path = args[1]
			}

			dir, err := volume.Open(path)
			if err != nil {
				return err
			}
			defer dir.Close()

			entries, err := dir.Readdir(-1)
			if err != nil {
				return err
			}

			for _, e := range entries {
				kind := "-"
				if e.IsDir() {
					kind = "d"
				}
				fmt.Printf("%s %10d %s %s\n", kind, e.Size(), e.ModTime().Format("2006-01-02 15:04:05"), e.Name())
			}
			return nil
		},
	}
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <image> <path>",
		Short: "Print a file's contents to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, f, err := mountImage(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			defer volume.Close()

			file, err := volume.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			_, err = io.Copy(os.Stdout, file)
			return err
		},
	}
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <image> <path>",
		Short: "Create a directory, including any missing parents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, f, err := mountImage(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			defer volume.Close()

			if err := volume.MkdirAll(args[1], 0); err != nil {
				return err
			}
			logger.Infow("created directory", "path", args[1])
			return nil
		},
	}
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <image> <local-file> <dest-path>",
		Short: "Copy a local file into the volume",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, f, err := mountImage(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			defer volume.Close()

			data, err := afero.ReadFile(afero.NewOsFs(), args[1])
			if err != nil {
				return err
			}

			if err := volume.CreateFile(args[2], data); err != nil {
				return err
			}
			logger.Infow("wrote file", "path", args[2], "bytes", len(data))
			return nil
		},
	}
}
