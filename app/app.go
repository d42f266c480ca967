// Package app defines the stride command-line interface.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/demilade/stride/internal/config"
)

const (
	envNoColor       = "NO_COLOR"
	envStrideNoColor = "STRIDE_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the stride app instance.
func Get() *cli.App {
	strideApp := &cli.App{
		Name:                 "stride",
		Usage:                "Track which shoe you wore and how much life it has left",
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "shoe",
				Usage: "Manage the tracked shoes",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Register a new shoe",
						ArgsUsage: "NAME",
						Action:    shoeAddAction,
						Flags:     []cli.Flag{lifespanFlag, makeDefaultFlag},
					},
					{
						Name:   "list",
						Usage:  "List all shoes",
						Action: shoeListAction,
						Flags:  []cli.Flag{jsonFlag},
					},
					{
						Name:      "archive",
						Usage:     "Retire a shoe; archived shoes cannot start sessions",
						ArgsUsage: "NAME",
						Action:    shoeArchiveAction,
					},
					{
						Name:      "default",
						Usage:     "Designate the default shoe for auto-started sessions",
						ArgsUsage: "NAME",
						Action:    shoeDefaultAction,
					},
				},
			},
			{
				Name:      "start",
				Usage:     "Start wearing a shoe. Ends any other active session first",
				ArgsUsage: "[SHOE]",
				Action:    startAction,
			},
			{
				Name:   "stop",
				Usage:  "Stop the active session",
				Action: stopAction,
			},
			{
				Name:      "toggle",
				Usage:     "Start or stop a session for the shoe",
				ArgsUsage: "[SHOE]",
				Action:    toggleAction,
			},
			{
				Name:      "assign",
				Usage:     "Assign the activity of one or more hours to a shoe",
				ArgsUsage: "HOUR...",
				Action:    assignAction,
				Flags:     []cli.Flag{shoeFlag},
			},
			{
				Name:      "unassign",
				Usage:     "Remove the assignment of one or more hours",
				ArgsUsage: "HOUR...",
				Action:    unassignAction,
			},
			{
				Name:      "day",
				Usage:     "Show the hourly activity of a day with shoe assignments",
				ArgsUsage: "[DATE]",
				Action:    dayAction,
				Flags:     []cli.Flag{jsonFlag, samplesFileFlag},
			},
			{
				Name:      "sessions",
				Usage:     "List the sessions of a day, or all sessions",
				ArgsUsage: "[DATE]",
				Action:    sessionsAction,
				Flags:     []cli.Flag{jsonFlag},
			},
			{
				Name:      "stats",
				Usage:     "Show usage metrics for one shoe or all shoes",
				ArgsUsage: "[SHOE]",
				Action:    statsAction,
				Flags:     []cli.Flag{jsonFlag, samplesFileFlag},
			},
			{
				Name:   "auto",
				Usage:  "Run the periodic auto-management policy",
				Action: autoAction,
				Flags:  []cli.Flag{intervalFlag, onceFlag, samplesFileFlag},
			},
			{
				Name:      "import",
				Usage:     "Import legacy activity entries from a JSON file",
				ArgsUsage: "FILE",
				Action:    importAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  []cli.Flag{noColorFlag, sessionCmdFlag},
		Before: beforeAction,
	}

	return strideApp
}

func beforeAction(ctx *cli.Context) error {
	config.InitializePaths()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envStrideNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}
