// Command quote prices web projects from the command line.
//
// Usage:
//
//	quote estimate --answers answers.yaml [--currency EUR] [--format text]
//	quote calculate --type marketing_site --tier standard --rate 120
//	quote rates
//	quote token --client acme
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/app"
	"github.com/Simplici0/webquote/internal/auth"
	"github.com/Simplici0/webquote/internal/config"
	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/intake"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "quote",
		Usage:   "Estimate hours and cost of web projects",
		Version: version,
		Commands: []*cli.Command{
			estimateCommand(),
			calculateCommand(),
			ratesCommand(),
			tokenCommand(),
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "json",
		Usage:   "Output format (json, text)",
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Price a questionnaire answer file (YAML or JSON)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "answers", Aliases: []string{"a"}, Usage: "Path to the answers file", Required: true},
			&cli.StringFlag{Name: "title", Usage: "Estimate title"},
			&cli.StringFlag{Name: "currency", Usage: "Currency of the result"},
			&cli.StringFlag{Name: "persona", Usage: "Pricing persona (freelancer, agency, in_house)"},
			&cli.StringFlag{Name: "entry-flow", Usage: "Questionnaire entry flow (landing, store, app, site)"},
			&cli.BoolFlag{Name: "skip-insight", Usage: "Do not ask the complexity insight model"},
			formatFlag(),
		},
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	record, err := readAnswers(c.String("answers"))
	if err != nil {
		return err
	}

	cfg := config.Load()
	logger := newLogger(c, cfg)
	team, err := app.TeamRates(cfg)
	if err != nil {
		return fmt.Errorf("load team rates: %w", err)
	}

	svc := estimate.NewService(estimate.Options{
		Team:    team,
		FX:      app.FXProvider(cfg, logger),
		Insight: app.InsightProvider(c.Context, cfg, logger),
		Logger:  logger,
	})

	e, err := svc.Run(c.Context, estimate.Request{
		Title:       c.String("title"),
		Answers:     record,
		Hints:       intake.Hints{EntryFlow: c.String("entry-flow"), Persona: c.String("persona")},
		Currency:    c.String("currency"),
		SkipInsight: c.Bool("skip-insight"),
	})
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "text":
		return estimate.WriteText(c.App.Writer, e)
	case "json":
		return writeJSON(c.App.Writer, e)
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func calculateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Project type", Required: true},
		&cli.StringFlag{Name: "tier", Usage: "Project tier", Required: true},
		&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Usage: "Hourly rate", Required: true},
		&cli.StringFlag{Name: "maintenance", Value: ratetable.MaintenanceNone, Usage: "Maintenance level"},
		&cli.StringFlag{Name: "currency", Usage: "Currency of the hourly rate"},
		&cli.StringFlag{Name: "target", Usage: "Currency of the result"},
		formatFlag(),
	}
	for _, f := range ratetable.Factors() {
		flags = append(flags, &cli.StringFlag{
			Name:  string(f),
			Value: ratetable.DefaultLevel(f),
			Usage: "Level: " + strings.Join(ratetable.Levels(f), ", "),
		})
	}

	return &cli.Command{
		Name:   "calculate",
		Usage:  "Price explicit project parameters",
		Flags:  flags,
		Action: runCalculate,
	}
}

func runCalculate(c *cli.Context) error {
	set := pricing.Lowest()
	for _, f := range ratetable.Factors() {
		set = set.With(f, c.String(string(f)))
	}

	cfg := config.Load()
	logger := newLogger(c, cfg)
	team, err := app.TeamRates(cfg)
	if err != nil {
		return fmt.Errorf("load team rates: %w", err)
	}
	svc := estimate.NewService(estimate.Options{
		Team:   team,
		FX:     app.FXProvider(cfg, logger),
		Logger: logger,
	})

	in := pricing.Input{
		ProjectType: c.String("type"),
		Tier:        c.String("tier"),
		HourlyRate:  c.Float64("rate"),
		Multipliers: set,
		Maintenance: c.String("maintenance"),
	}
	res, err := svc.Calculate(c.Context, estimate.CalculateRequest{
		Input:    in,
		Currency: c.String("currency"),
		Target:   c.String("target"),
	})
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "text":
		return estimate.WriteText(c.App.Writer, &estimate.Estimate{
			CreatedAt: time.Now(),
			Mapping:   intake.Mapping{Input: in},
			Result:    res,
		})
	case "json":
		return writeJSON(c.App.Writer, res)
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func ratesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rates",
		Usage: "Print the rate tables and supported currencies",
		Action: func(c *cli.Context) error {
			return writeJSON(c.App.Writer, map[string]any{
				"table":      ratetable.Snapshot(),
				"currencies": currency.Codes(),
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an API bearer token signed with TOKEN_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "client", Aliases: []string{"c"}, Usage: "Client name", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			token, err := auth.Sign(cfg.TokenSecret, c.String("client"), time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, token)
			return err
		},
	}
}

// readAnswers decodes a YAML or JSON answers file. JSON is valid YAML.
func readAnswers(path string) (answers.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}

	var record answers.Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse answers file: %w", err)
	}
	if record == nil {
		record = answers.Record{}
	}
	return record, nil
}

// newLogger keeps stdout clean for the result; logs go to stderr.
func newLogger(c *cli.Context, cfg config.Config) zerolog.Logger {
	out := c.App.ErrWriter
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(level).With().Timestamp().Logger()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
