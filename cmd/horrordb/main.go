package main

import (
	"context"
	"log"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/kailas-cloud/horrordb/internal/config"
	"github.com/kailas-cloud/horrordb/internal/version"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "horrordb",
		Usage:   "Search a horror movie catalog with natural language",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Configuration environment (config/<env>.yaml)",
				Value:   config.GetEnv(),
				Sources: cli.EnvVars("ENV"),
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := cmd.Root().Writer.Write([]byte(version.String() + "\n"))
					return err
				},
			},
		},
	}
}

// loadConfig resolves the configuration before anything touches the network.
func loadConfig(cmd *cli.Command) (string, config.Config, error) {
	env := cmd.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return env, config.Config{}, cli.Exit("failed to load config: "+err.Error(), 2)
	}
	return env, cfg, nil
}
