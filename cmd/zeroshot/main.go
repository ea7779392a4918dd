package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
	"github.com/FrenchMajesty/zeroshot-classifier/adapters"
	"github.com/FrenchMajesty/zeroshot-classifier/clients/huggingface"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/config"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/retry"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML config file",
		EnvVars: []string{"ZEROSHOT_CONFIG"},
	}

	return &cli.App{
		Name:  "zeroshot",
		Usage: "classify keyphrases against candidate labels with a zero-shot model",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{configFlag},
				Action: ServeAction,
			},
			{
				Name:      "classify",
				Usage:     "classify keyphrases once and print the table",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringSliceFlag{
						Name:     "label",
						Aliases:  []string{"l"},
						Usage:    "candidate label (repeat 2 to 3 times)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "keyphrases, one per line",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "read keyphrases from a file (default: stdin when --text is not set)",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: formatTable,
						Usage: "output format: table, csv or json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the result to a file instead of stdout",
					},
				},
				Action: ClassifyAction,
			},
		},
	}
}

// loadConfig loads and validates the configuration named by --config
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newPipeline builds the Hugging Face client from configuration and wraps it in a Pipeline
func newPipeline(cfg *config.Config, log *zap.Logger) (*classifier.Pipeline, error) {
	client := huggingface.NewClient(cfg.Inference.APIToken)
	client.SetBaseURL(cfg.Inference.BaseURL)
	client.SetModel(cfg.Inference.Model)
	client.HTTPClient = &http.Client{Timeout: cfg.Inference.Timeout}
	client.DumpRequests = cfg.Inference.DumpRequests
	client.DumpDir = cfg.Inference.DumpDir
	client.RetryConfig = retry.Config{
		MaxRetries: cfg.Inference.Retry.MaxRetries,
		BaseDelay:  cfg.Inference.Retry.BaseDelay,
		MaxDelay:   cfg.Inference.Retry.MaxDelay,
	}
	client.Logger = log

	return classifier.NewPipeline(classifier.Config{
		Client:   adapters.NewZeroShotAdapter(client),
		MaxLines: cfg.Inference.MaxLines,
		Logger:   log,
	})
}
