package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"pymap/analyzer"
)

func RootCommand() *cli.Command {
	return &cli.Command{
		Name:      "pymap",
		Usage:     "generate a function/call mapping for a Python project",
		ArgsUsage: "[root]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root := cmd.Args().Get(0)
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				root = cwd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			out, err := analyzer.Run(root)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", filepath.Base(out))
			return nil
		},
	}
}

func main() {
	if err := RootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}
