package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shelfscope: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "shelfscope",
		Usage: "Public-domain books and audiobooks: relay, reader and library API",
		// Running without a subcommand starts the server
		Flags:  serveFlags(),
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:      "paginate",
				Usage:     "Split a text file into reader pages and print one of them",
				ArgsUsage: "<file>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Words per page",
						Value: 300,
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page to print, clamped to the document",
						Value: 1,
					},
				},
				Action: runPaginate,
			},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to listen on (overrides PORT)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML configuration file (overrides CONFIG_FILE)",
		},
	}
}
