package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/merrycards/merry/internal/client/browser"
	"github.com/merrycards/merry/internal/client/models"
)

const browseHelp = "Results: ls, <n> | open <n>, back, info, claim, close"

// Scan captures the photo at args[0], uploads it for recognition and opens
// the result browser.
func (a *App) Scan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: scan <image>")
		return nil
	}

	photo, err := a.newCamera(args[0]).Capture(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Recognizing... (Ctrl+C to cancel)")
	candidates, err := a.recognition.Recognize(ctx, photo)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(a.out, "No matching cards found. Try another photo.")
		return nil
	}

	return a.browse(ctx, browser.New(candidates, a.collections))
}

// browse runs the result sub-loop until the user closes it, input ends or
// ctx is cancelled. Cancellation is reported as soon as it happens and ends
// the loop without an error. Command errors are reported and the loop goes on.
func (a *App) browse(ctx context.Context, b *browser.Browser) error {
	defer b.Close()

	// The read below cannot be interrupted, so tell the user right away.
	cancelled := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		fmt.Fprintln(a.out, "\nCancelled.")
		close(cancelled)
	})
	defer stop()
	onCancel := func() error {
		<-cancelled
		return nil
	}

	a.printBrowser(b)
	for {
		if ctx.Err() != nil {
			return onCancel()
		}
		fmt.Fprintf(a.out, "results/%s> ", b.State())
		line, err := readLine(a.reader)
		if err != nil {
			fmt.Fprintln(a.out)
			return nil
		}
		if ctx.Err() != nil {
			return onCancel()
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if err := a.browseCommand(ctx, b, parts); err != nil {
			if errors.Is(err, errCloseBrowser) {
				fmt.Fprintln(a.out, "Results closed.")
				return nil
			}
			if ctx.Err() != nil {
				return onCancel()
			}
			a.reportError(ctx, err)
		}
	}
}

var errCloseBrowser = errors.New("close browser")

func (a *App) browseCommand(ctx context.Context, b *browser.Browser, parts []string) error {
	switch parts[0] {
	case "help":
		fmt.Fprintln(a.out, browseHelp)
	case "ls":
		a.printBrowser(b)
	case "open":
		if len(parts) != 2 {
			fmt.Fprintln(a.out, "Usage: open <n>")
			return nil
		}
		return a.open(b, parts[1])
	case "back":
		moved, err := b.Back()
		if err != nil {
			return err
		}
		if !moved {
			fmt.Fprintln(a.out, "Already at the result list.")
			return nil
		}
		a.printBrowser(b)
	case "info":
		return a.cardInfo(ctx, b)
	case "claim":
		if !a.requireLogin() {
			return nil
		}
		il, err := b.Claim(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %s to your collection.\n", il.Code)
	case "close", "exit", "quit", "q":
		return errCloseBrowser
	default:
		if _, err := strconv.Atoi(parts[0]); err == nil {
			return a.open(b, parts[0])
		}
		fmt.Fprintln(a.out, "Unknown command:", parts[0])
		fmt.Fprintln(a.out, browseHelp)
	}
	return nil
}

// open selects the n-th (1-based) entry of whatever list is on screen.
func (a *App) open(b *browser.Browser, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(a.out, "%q is not a number.\n", arg)
		return nil
	}

	switch b.State() {
	case browser.StateList:
		err = b.SelectCandidate(n - 1)
	case browser.StateCardSelected:
		err = b.SelectIllustration(n - 1)
	default:
		err = fmt.Errorf("open in %s: %w", b.State(), browser.ErrInvalidTransition)
	}
	if err != nil {
		return err
	}

	a.printBrowser(b)
	return nil
}

func (a *App) cardInfo(ctx context.Context, b *browser.Browser) error {
	c, ok := b.Current()
	if !ok {
		fmt.Fprintln(a.out, "Open a card first.")
		return nil
	}

	d, err := a.recognition.CardDetail(ctx, c)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s  [%s] %s\n", d.Name, d.Type, d.Rarity)
	fmt.Fprintf(a.out, "  cost %d  power %d  counter %d  attribute %s\n", d.Cost, d.Power, d.CounterValue, d.Attribute)
	if len(d.DeckColors) > 0 {
		fmt.Fprintf(a.out, "  colors: %s\n", joinNames(d.DeckColors))
	}
	if len(d.Crew) > 0 {
		fmt.Fprintf(a.out, "  crew: %s\n", joinNames(d.Crew))
	}
	if d.IsDOM {
		fmt.Fprintln(a.out, "  DON!! card")
	}
	if d.Effect != "" {
		fmt.Fprintf(a.out, "  effect: %s\n", d.Effect)
	}
	if d.Trigger != "" {
		fmt.Fprintf(a.out, "  trigger: %s\n", d.Trigger)
	}
	if len(d.SideEffects) > 0 {
		fmt.Fprintf(a.out, "  keywords: %s\n", strings.Join(d.SideEffects, ", "))
	}
	return nil
}

func joinNames(ns []models.Named) string {
	names := make([]string, 0, len(ns))
	for _, n := range ns {
		names = append(names, n.Name)
	}
	return strings.Join(names, ", ")
}

func (a *App) printBrowser(b *browser.Browser) {
	switch b.State() {
	case browser.StateList:
		cs := b.Candidates()
		fmt.Fprintf(a.out, "%d match(es):\n", len(cs))
		for i, c := range cs {
			line := fmt.Sprintf("  %d. %s (%s)  %s", i+1, c.Name, c.Slug, percent(c.Similarity))
			if th, ok := c.Thumbnail(); ok && th.ImageSrc != "" {
				line += "  " + th.ImageSrc
			}
			fmt.Fprintln(a.out, line)
		}

	case browser.StateCardSelected:
		c, _ := b.Current()
		fmt.Fprintf(a.out, "%s (%s)  %s\n", c.Name, c.Slug, percent(c.Similarity))
		if len(c.Illustrations) == 0 {
			fmt.Fprintln(a.out, "  no illustrations")
		}
		for i, il := range c.Illustrations {
			fmt.Fprintf(a.out, "  %d. %s  %s  $%s\n", i+1, il.Code, percent(il.Similarity), il.Price)
		}

	case browser.StateIllustrationDetail:
		c, _ := b.Current()
		il, _ := b.CurrentIllustration()
		fmt.Fprintf(a.out, "%s / %s\n", c.Name, il.Code)
		fmt.Fprintf(a.out, "  similarity %s  price $%s\n", percent(il.Similarity), il.Price)
		if il.ImageSrc != "" {
			fmt.Fprintf(a.out, "  image %s\n", il.ImageSrc)
		}
		fmt.Fprintln(a.out, "  'claim' adds it to your collection, 'back' returns")
	}
}

func percent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}
