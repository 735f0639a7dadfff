package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/ops"
	"github.com/hpungsan/pelvilog/internal/record"
	"github.com/hpungsan/pelvilog/internal/web"
)

// appEnv carries what every command needs. It is nil for help and version.
type appEnv struct {
	db  *sql.DB
	cfg *config.Config
	loc *record.Locale
	log *zap.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "pelvilog",
		Usage:   "Pelvic-floor therapy diary",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			listCmd(env),
			deleteCmd(env),
			summaryCmd(env),
			exportCmd(env),
			importCmd(env),
			shareCmd(env),
			uiCmd(env),
		},
	}
	// Errors are returned to main (and to tests) instead of exiting here.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

var stampFlags = []cli.Flag{
	&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Day as DD/MM/YYYY (requires --time; default now)"},
	&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Usage: "Time as HH:MM (requires --date)"},
}

// addVariant builds one "add <type>" subcommand. fill copies the variant's
// flags into the input; only flags the user set are copied so the form
// defaults apply to the rest.
func addVariant(env *appEnv, name string, typ record.Type, usage string, flags []cli.Flag, fill func(*cli.Context, *ops.AddInput)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: append(append([]cli.Flag{}, stampFlags...), flags...),
		Action: func(c *cli.Context) error {
			input := ops.AddInput{
				Type: string(typ),
				Date: c.String("date"),
				Time: c.String("time"),
			}
			fill(c, &input)

			output, err := ops.Add(c.Context, env.db, env.loc, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// addCmd creates the add command and its per-type subcommands.
func addCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Log a record",
		Subcommands: []*cli.Command{
			addVariant(env, "fluid", record.TypeFluidIntake, "Log a drink",
				[]cli.Flag{
					&cli.IntFlag{Name: "ml", Usage: "Millilitres (default 250)"},
					&cli.StringFlag{Name: "drink", Usage: "water|coffee|tea|soda|alcohol|other (default water)"},
				},
				func(c *cli.Context, in *ops.AddInput) {
					in.Milliliters = intFlag(c, "ml")
					in.DrinkType = c.String("drink")
				}),
			addVariant(env, "urination", record.TypeUrination, "Log a bathroom visit",
				[]cli.Flag{
					&cli.StringFlag{Name: "amount", Usage: "small|medium|large (default medium)"},
					&cli.BoolFlag{Name: "late", Usage: "Did not arrive on time"},
					&cli.BoolFlag{Name: "incomplete", Usage: "Bladder not completely emptied"},
				},
				func(c *cli.Context, in *ops.AddInput) {
					in.Amount = c.String("amount")
					if c.IsSet("late") {
						in.ArrivedOnTime = boolPtr(!c.Bool("late"))
					}
					if c.IsSet("incomplete") {
						in.CompleteEmptying = boolPtr(!c.Bool("incomplete"))
					}
				}),
			addVariant(env, "leakage", record.TypeLeakage, "Log a leakage",
				[]cli.Flag{
					&cli.StringFlag{Name: "amount", Usage: "drops|small|moderate|large (default small)"},
					&cli.StringFlag{Name: "circumstance", Usage: "cough|sneeze|laugh|exercise|urgency|none (default none)"},
					&cli.IntFlag{Name: "intensity", Usage: "1-5 (default 3)"},
				},
				func(c *cli.Context, in *ops.AddInput) {
					in.Amount = c.String("amount")
					in.Circumstance = c.String("circumstance")
					in.Intensity = intFlag(c, "intensity")
				}),
			addVariant(env, "urgency", record.TypeUrgency, "Log an urgency episode",
				[]cli.Flag{
					&cli.IntFlag{Name: "intensity", Usage: "1-10 (default 5)"},
					&cli.StringFlag{Name: "reached", Usage: "yes|no|leakage (default yes)"},
					&cli.StringFlag{Name: "warning", Usage: "<10|10-30|30-60|>60 seconds (default 30-60)"},
				},
				func(c *cli.Context, in *ops.AddInput) {
					in.Intensity = intFlag(c, "intensity")
					in.ReachedBathroom = c.String("reached")
					in.WarningTime = c.String("warning")
				}),
			addVariant(env, "pad", record.TypePadUse, "Log a pad change",
				[]cli.Flag{
					&cli.StringFlag{Name: "pad-type", Usage: "pantyliner|small|medium|large (default small)"},
					&cli.StringFlag{Name: "condition", Usage: "dry|damp|wet|very-wet (default dry)"},
				},
				func(c *cli.Context, in *ops.AddInput) {
					in.PadType = c.String("pad-type")
					in.Condition = c.String("condition")
				}),
		},
	}
}

// listCmd creates the list command.
func listCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List records, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Only this DD/MM/YYYY day"},
			&cli.StringFlag{Name: "range", Aliases: []string{"r"}, Usage: "week|month|all (default all)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, env.db, env.loc, ops.ListInput{
				Date:   c.String("date"),
				Range:  c.String("range"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a record",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, env.db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show one day's totals",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "DD/MM/YYYY (default today)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.DaySummary(c.Context, env.db, env.loc, ops.DaySummaryInput{Date: c.String("date")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

var selectionFlags = []cli.Flag{
	&cli.StringFlag{Name: "range", Aliases: []string{"r"}, Usage: "week|month|all|day (default week)"},
	&cli.StringFlag{Name: "day", Usage: "DD/MM/YYYY for --range=day (default today)"},
}

// exportCmd creates the export command.
func exportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export records to a CSV file for the therapist",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <base>/exports/registros-terapia-<timestamp>.csv)"},
		}, selectionFlags...),
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env.db, env.cfg, env.loc, ops.ExportInput{
				Path:  c.String("path"),
				Range: c.String("range"),
				Day:   c.String("day"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import records from a CSV export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Decode and report without storing"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, env.db, env.cfg, env.loc, env.log, ops.ImportInput{
				Path:   c.String("path"),
				DryRun: c.Bool("dry-run"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// shareCmd creates the share command. It prints the text itself, not JSON.
func shareCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Print the records as text for a messaging app",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "summary|detailed (default summary)"},
		}, selectionFlags...),
		Action: func(c *cli.Context) error {
			output, err := ops.Share(c.Context, env.db, env.loc, ops.ShareInput{
				Format: c.String("format"),
				Range:  c.String("range"),
				Day:    c.String("day"),
			})
			if err != nil {
				return outputError(err)
			}
			_, err = fmt.Fprintln(c.App.Writer, output.Text)
			return err
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the record viewer over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			if port := c.Int("port"); port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("port must be between 1 and 65535, got %d", port)))
			}
			srv := web.NewServer(env.db, env.cfg, env.loc, env.log, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv, env.log)
		},
	}
}

// Helper functions

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err as "[CODE] message" with exit status 1.
func outputError(err error) error {
	if pErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// intFlag returns a pointer to the flag value when the user set it.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

func boolPtr(b bool) *bool { return &b }
