package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/markusmobius/go-dateparser"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/demilade/stride/activity"
	"github.com/demilade/stride/attribution"
	"github.com/demilade/stride/auto"
	"github.com/demilade/stride/internal/apperr"
	"github.com/demilade/stride/internal/config"
	"github.com/demilade/stride/internal/log"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/report"
	"github.com/demilade/stride/session"
	"github.com/demilade/stride/stats"
	"github.com/demilade/stride/store"
)

var errShoeRequired = &apperr.Error{
	Message: "a shoe name is required: none given and no default shoe is configured",
}

// deps bundles the wired-up application components for one command
// invocation.
type deps struct {
	cfg      *config.Config
	db       *store.Client
	sessions *session.Store
	ledger   *attribution.Ledger
	engine   *stats.Engine
	provider activity.Provider
	clock    activity.Clock
	logger   zerolog.Logger
}

func initDeps(ctx *cli.Context) (*deps, error) {
	cfg, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
		config.WithSamplesFile(ctx.String("samples-file")),
	)
	if err != nil {
		return nil, err
	}

	if cmd := ctx.String("session-cmd"); cmd != "" {
		cfg.Settings.SessionCmd = cmd
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, err
	}

	logger := log.New(config.LogFilePath())
	clock := activity.SystemClock{}
	provider := activity.NewFileProvider(cfg.Activity.SamplesFile)

	sessions := session.NewStore(
		db,
		clock,
		session.WithProvider(provider),
		session.WithHook(cfg.Settings.SessionCmd),
		session.WithLogger(logger),
	)

	ledger := attribution.NewLedger(
		db,
		clock,
		attribution.WithProvider(provider),
	)

	return &deps{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		ledger:   ledger,
		engine:   stats.NewEngine(db, sessions, ledger),
		provider: provider,
		clock:    clock,
		logger:   logger,
	}, nil
}

// resolveShoe finds the shoe named on the command line, falling back to
// the configured default shoe when no argument is given.
func (d *deps) resolveShoe(ctx *cli.Context) (*models.Shoe, error) {
	name := ctx.Args().First()
	if name == "" {
		name = d.cfg.DefaultShoe
	}

	if name == "" {
		return nil, errShoeRequired
	}

	return d.db.ShoeByName(name)
}

func (d *deps) shoeNames() (map[string]string, error) {
	shoes, err := d.db.ListShoes()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(shoes))

	for i := range shoes {
		names[shoes[i].ID] = shoes[i].Name
	}

	return names, nil
}

func parseTime(s string) (time.Time, error) {
	dt, err := dateparser.Parse(nil, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse %q as a time: %w", s, err)
	}

	return dt.Time, nil
}

// startAction starts wearing a shoe.
func startAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoe, err := d.resolveShoe(ctx)
	if err != nil {
		return err
	}

	sess, err := d.sessions.Start(shoe, false)
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Wearing %s since %s",
		shoe.Name,
		sess.StartTime.Format("15:04"),
	)

	return nil
}

// stopAction ends the active session, whichever shoe it belongs to.
func stopAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	active, err := d.sessions.Active()
	if err != nil {
		return err
	}

	if len(active) == 0 {
		return session.ErrNoActiveSession.Fmt("any shoe")
	}

	for i := range active {
		shoe, err := d.db.GetShoe(active[i].ShoeID)
		if err != nil {
			return err
		}

		err = d.sessions.End(shoe, false)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Stopped wearing %s", shoe.Name)
	}

	return nil
}

// toggleAction starts or stops a session for the shoe.
func toggleAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoe, err := d.resolveShoe(ctx)
	if err != nil {
		return err
	}

	sess, err := d.sessions.Toggle(shoe)
	if err != nil {
		return err
	}

	if sess != nil {
		pterm.Success.Printfln("Wearing %s", shoe.Name)
	} else {
		pterm.Success.Printfln("Stopped wearing %s", shoe.Name)
	}

	return nil
}

// assignAction assigns the activity of the given hours to a shoe.
func assignAction(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("at least one hour is required, e.g. 'today 9am'")
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoe, err := d.db.ShoeByName(ctx.String("shoe"))
	if err != nil {
		return err
	}

	times := make([]time.Time, 0, ctx.Args().Len())

	for _, arg := range ctx.Args().Slice() {
		t, err := parseTime(arg)
		if err != nil {
			return err
		}

		times = append(times, t)
	}

	err = d.ledger.AttributeMany(times, shoe)
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Assigned %d hour(s) to %s",
		len(times),
		shoe.Name,
	)

	return nil
}

// unassignAction removes the assignment of the given hours.
func unassignAction(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("at least one hour is required, e.g. 'today 9am'")
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	times := make([]time.Time, 0, ctx.Args().Len())

	for _, arg := range ctx.Args().Slice() {
		t, err := parseTime(arg)
		if err != nil {
			return err
		}

		times = append(times, t)
	}

	err = d.ledger.RemoveMany(times)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Unassigned %d hour(s)", len(times))

	return nil
}

// dayAction shows a day's hourly activity joined with shoe assignments.
func dayAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	date := d.clock.Now()

	if arg := ctx.Args().First(); arg != "" {
		date, err = parseTime(arg)
		if err != nil {
			return err
		}
	}

	samples, err := d.provider.HourlySamples(date)
	if err != nil {
		return err
	}

	records, err := d.ledger.ApplyTo(samples)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(records)
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	names, err := d.shoeNames()
	if err != nil {
		return err
	}

	report.Day(os.Stdout, date, records, names)

	return nil
}

// sessionsAction lists the sessions of a day, or every session.
func sessionsAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	var sessions []models.Session

	if arg := ctx.Args().First(); arg != "" {
		date, err := parseTime(arg)
		if err != nil {
			return err
		}

		sessions, err = d.sessions.On(date)
		if err != nil {
			return err
		}
	} else {
		sessions, err = d.db.SessionsIn(time.Time{}, d.clock.Now())
		if err != nil {
			return err
		}
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(sessions)
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	names, err := d.shoeNames()
	if err != nil {
		return err
	}

	report.Sessions(os.Stdout, sessions, names)

	return nil
}

// statsAction shows usage metrics for one shoe or all shoes.
func statsAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	var shoes []models.Shoe

	if name := ctx.Args().First(); name != "" {
		shoe, err := d.db.ShoeByName(name)
		if err != nil {
			return err
		}

		shoes = []models.Shoe{*shoe}
	} else {
		shoes, err = d.db.ListShoes()
		if err != nil {
			return err
		}
	}

	usages := make([]*stats.Usage, 0, len(shoes))

	for i := range shoes {
		u, err := d.engine.Usage(&shoes[i])
		if err != nil {
			return err
		}

		usages = append(usages, u)
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(usages)
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	report.Usage(os.Stdout, usages)

	return nil
}

// autoAction runs the auto-management policy, once or periodically.
func autoAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	opts := []auto.Option{
		auto.WithInactivityThreshold(d.cfg.Auto.InactivityThreshold),
		auto.WithLogger(d.logger),
	}

	if d.cfg.Notifications.Enabled {
		opts = append(opts, auto.WithNotifier(auto.DesktopNotifier))
	}

	controller := auto.NewController(
		d.sessions,
		d.db,
		d.provider,
		d.clock,
		opts...,
	)

	if ctx.Bool("once") {
		controller.Tick()
		return nil
	}

	interval := d.cfg.Auto.Interval
	if ctx.Duration("interval") > 0 {
		interval = ctx.Duration("interval")
	}

	runCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pterm.Info.Printfln(
		"Auto-management running every %s. Press Ctrl+C to stop",
		interval,
	)

	err = controller.Run(runCtx, interval)
	if err != nil && runCtx.Err() != nil {
		return nil
	}

	return err
}

// importAction loads legacy activity entries from a JSON file.
func importAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("a file path is required")
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	count, err := importLegacyEntries(d.db, path)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Imported %d legacy entries", count)

	return nil
}

// editConfigAction opens the stride config file in the user's default
// text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}
