package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/demilade/stride/internal/config"
	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/report"
	"github.com/demilade/stride/store"
)

// shoeAddAction registers a new shoe.
func shoeAddAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return fmt.Errorf("a shoe name is required")
	}

	lifespan := ctx.Float64("lifespan")
	if lifespan <= 0 {
		return config.ErrInvalidLifespan.Fmt(lifespan)
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	_, err = d.db.ShoeByName(name)
	if err == nil {
		return fmt.Errorf("a shoe named %q already exists", name)
	}

	shoe := &models.Shoe{
		ID:               uuid.NewString(),
		Name:             name,
		LifespanDistance: lifespan,
		Default:          ctx.Bool("default"),
		CreatedAt:        d.clock.Now(),
	}

	if shoe.Default {
		err = clearDefault(d.db)
		if err != nil {
			return err
		}
	}

	err = d.db.SaveShoe(shoe)
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Added %s with a lifespan of %.0f km",
		shoe.Name,
		shoe.LifespanDistance,
	)

	return nil
}

// shoeListAction lists all shoes.
func shoeListAction(ctx *cli.Context) error {
	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoes, err := d.db.ListShoes()
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		b, err := json.Marshal(shoes)
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	report.Shoes(os.Stdout, shoes)

	return nil
}

// shoeArchiveAction retires a shoe. Its history is kept, but it can no
// longer start sessions.
func shoeArchiveAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return fmt.Errorf("a shoe name is required")
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoe, err := d.db.ShoeByName(name)
	if err != nil {
		return err
	}

	// close an open session before retiring the shoe
	active, err := d.sessions.ActiveFor(shoe)
	if err != nil {
		return err
	}

	if active != nil {
		err = d.sessions.End(shoe, false)
		if err != nil {
			return err
		}
	}

	shoe.Archived = true
	shoe.ArchivedAt = d.clock.Now()
	shoe.Default = false

	err = d.db.SaveShoe(shoe)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Archived %s", shoe.Name)

	return nil
}

// shoeDefaultAction designates the default shoe used by auto-start.
func shoeDefaultAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return fmt.Errorf("a shoe name is required")
	}

	d, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer d.db.Close()

	shoe, err := d.db.ShoeByName(name)
	if err != nil {
		return err
	}

	if shoe.Archived {
		return fmt.Errorf("%s is archived and cannot be the default", name)
	}

	err = clearDefault(d.db)
	if err != nil {
		return err
	}

	shoe.Default = true

	err = d.db.SaveShoe(shoe)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s is now the default shoe", shoe.Name)

	return nil
}

func clearDefault(db store.DB) error {
	current, err := db.DefaultShoe()
	if err != nil {
		return err
	}

	if current == nil {
		return nil
	}

	current.Default = false

	return db.SaveShoe(current)
}
