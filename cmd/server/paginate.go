package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shelfscope/internal/reader"

	"github.com/urfave/cli/v3"
)

// runPaginate prints one page of a local text file the way the reader serves it
func runPaginate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return errors.New("a text file is required")
	}
	pageSize := cmd.Int("page-size")
	if pageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	session := reader.NewSession()
	if err := session.Load(string(raw), pageSize); err != nil {
		return err
	}
	if _, err := session.Advance(cmd.Int("page")); err != nil {
		return err
	}
	text, page, err := session.CurrentPage()
	if err != nil {
		return err
	}
	total := session.Progress().TotalPages

	out := cmd.Root().Writer
	fmt.Fprintf(out, "Page %d of %d (%d%%)\n\n", page, total, reader.Percent(page, total))
	fmt.Fprintln(out, text)
	return nil
}
