package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/waldt/humilis/packaging"
)

func runPackage(args []string) error {
	fs := flag.NewFlagSet("package", flag.ExitOnError)
	outDir := fs.String("o", ".", "Directory to place the built archive in")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: humilis package [options] <source>\n\nBuild a deployment package from a local file or directory.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("source path is required")
	}
	src := fs.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	builder := packaging.NewBuilder(logger)
	ctx := context.Background()

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	var archive string
	var cleanup func()
	if info.IsDir() {
		archive, cleanup, err = builder.BuildDir(ctx, src, nil)
	} else {
		archive, cleanup, err = builder.BuildFile(ctx, src, nil)
	}
	if err != nil {
		return err
	}
	defer cleanup()

	dest := filepath.Join(*outDir, filepath.Base(archive))
	if err := copyOut(archive, dest); err != nil {
		return err
	}
	fmt.Println(dest)
	return nil
}

func copyOut(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy archive: %w", err)
	}
	return nil
}
