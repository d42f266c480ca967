package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	lifespanFlag = &cli.Float64Flag{
		Name:    "lifespan",
		Aliases: []string{"l"},
		Usage:   "Estimated lifespan distance of the shoe in kilometres",
		Value:   640,
	}

	makeDefaultFlag = &cli.BoolFlag{
		Name:  "default",
		Usage: "Make this shoe the default for auto-started sessions",
	}

	shoeFlag = &cli.StringFlag{
		Name:     "shoe",
		Aliases:  []string{"s"},
		Usage:    "Name of the shoe to assign the hours to",
		Required: true,
	}

	intervalFlag = &cli.DurationFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Usage:   "How often the auto-management policy runs",
	}

	onceFlag = &cli.BoolFlag{
		Name:  "once",
		Usage: "Run a single auto-management pass and exit",
	}

	samplesFileFlag = &cli.StringFlag{
		Name:  "samples-file",
		Usage: "Path to an exported activity samples JSON file",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session transition",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output in JSON format",
	}
)
