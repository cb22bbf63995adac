package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/merrycards/merry/internal/client/models"
)

// Collections lists the user's collections.
func (a *App) Collections(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	list, err := a.collections.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No collections yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCARDS\tBALANCE")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%d\t$%s\n", c.ID, c.DisplayName(), c.CardsQuantity, c.Balance)
	}
	return tw.Flush()
}

// Collection shows one collection: args[0] is its id, none means all cards.
func (a *App) Collection(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}

	id, ok := a.collectionID(args, 0, "collection [id]")
	if !ok {
		return nil
	}

	col, err := a.collections.Detail(ctx, id)
	if err != nil {
		return err
	}
	return a.printCollection(col)
}

// Add increases the quantity of args[0] in collection args[1] (default: all cards).
func (a *App) Add(ctx context.Context, args []string) error {
	return a.adjust(ctx, args, "add", a.collections.Increase)
}

// Remove decreases the quantity of args[0] in collection args[1] (default: all cards).
func (a *App) Remove(ctx context.Context, args []string) error {
	return a.adjust(ctx, args, "remove", a.collections.Decrease)
}

type adjustFn func(ctx context.Context, collectionID int64, code string) (*models.Collection, error)

func (a *App) adjust(ctx context.Context, args []string, verb string, fn adjustFn) error {
	if !a.requireLogin() {
		return nil
	}

	usage := verb + " <code> [id]"
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(a.out, "Usage:", usage)
		return nil
	}
	id, ok := a.collectionID(args, 1, usage)
	if !ok {
		return nil
	}

	code := args[0]
	col, err := fn(ctx, id, code)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %d in %s\n", code, col.Quantity(code), col.DisplayName())
	return nil
}

func (a *App) collectionID(args []string, pos int, usage string) (int64, bool) {
	if len(args) <= pos {
		return 0, true
	}
	id, err := strconv.ParseInt(args[pos], 10, 64)
	if err != nil || id < 0 {
		fmt.Fprintln(a.out, "Usage:", usage)
		return 0, false
	}
	return id, true
}

func (a *App) printCollection(col *models.Collection) error {
	fmt.Fprintf(a.out, "%s  %d card(s)  balance $%s\n", col.DisplayName(), col.CardsQuantity, col.Balance)
	if len(col.Entries) == 0 {
		fmt.Fprintln(a.out, "  (empty)")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tTITLE\tTYPE\tQTY\tPRICE\tTOTAL")
	for _, code := range col.SortedCodes() {
		e := col.Entries[code]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%s\t$%s\n", code, e.Title, e.Type, e.Quantity, e.Price, e.TotalValue)
	}
	return tw.Flush()
}
