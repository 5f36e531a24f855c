package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/prepdist/internal/config"
	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
	"git.home.luguber.info/inful/prepdist/internal/logfields"
	"git.home.luguber.info/inful/prepdist/internal/release"
	"git.home.luguber.info/inful/prepdist/internal/version"
)

// CLI takes the positionals as a list so a wrong count is reported with the
// usage exit code instead of kong's generic failure.
type CLI struct {
	Args []string `arg:"" optional:"" name:"version" help:"Release version as declared in VERSION.TXT and configure.ac, e.g. 1.11."`
}

// exitRequest carries a kong-requested exit (after --help) out of Parse.
type exitRequest int

// Interrupts are left to the default handler: the running tool and prepdist
// stop together and nothing is cleaned up.
func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	adapter := rerrors.NewCLIErrorAdapter(false, nil).WithOutput(stderr)

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("prepdist"),
		kong.Description("Prepare the source distribution and documentation archives for a release."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitRequest(c)) }),
	)
	if err != nil {
		return adapter.Report(rerrors.InternalError("command line grammar", err))
	}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()
	if _, err := parser.Parse(args); err != nil {
		// A version beginning with "-" parses as a flag unless it follows "--".
		return adapter.Report(rerrors.UsageError(fmt.Sprintf("%v; usage: prepdist [--] <version>", err)))
	}
	if len(cli.Args) != 1 {
		return adapter.Report(rerrors.UsageError("usage: prepdist <version>"))
	}

	sourceRoot, err := os.Getwd()
	if err != nil {
		return adapter.Report(rerrors.ConfigLoadFailed(".", err))
	}
	cfg, err := config.Load(sourceRoot, os.Getenv("HOME"))
	if err != nil {
		return adapter.Report(err)
	}

	logger := cfg.Logging.NewLogger(stderr)
	slog.SetDefault(logger)
	adapter = rerrors.NewCLIErrorAdapter(cfg.Logging.Level == config.LogLevelDebug, logger).WithOutput(stderr)
	logger.Debug("prepdist", slog.String("build", version.String()), logfields.Path(sourceRoot))

	if _, err := release.NewService(cfg).Run(ctx, cli.Args[0]); err != nil {
		return adapter.Report(err)
	}
	return rerrors.ExitSuccess
}
