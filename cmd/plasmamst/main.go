// Command plasmamst builds a plasma Merkle sum tree from a block of
// transactions and produces or checks inclusion proofs against it.
package main

import (
	"fmt"
	"os"

	"github.com/Layr-Labs/plasma-mst-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:    "plasmamst",
		Usage:   "build and verify plasma Merkle sum tree inclusion proofs",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug-level logging",
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			proveCommand(),
			verifyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a request-scoped logger: every invocation gets a
// fresh correlation ID so multiple CLI runs interleaved in a shared log
// stream (e.g. piped through a supervisor) can still be told apart.
func newLogger(c *cli.Context) (*zap.Logger, error) {
	base, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return base.With(zap.String("request_id", uuid.NewString())), nil
}
