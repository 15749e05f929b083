// Package setup hosts the interactive terminal front-end of the swap
// session.
package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/bitinch/bitinch/internal/engine"
	"github.com/bitinch/bitinch/internal/registry"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	alert     = lipgloss.AdaptiveColor{Light: "#D94F4F", Dark: "#F57373"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	quoteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 2).
			MarginTop(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(alert).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(special).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(subtle)
)

const quoteWaitPoll = 50 * time.Millisecond

// RunTUI drives one interactive swap session until the user quits.
func RunTUI(ctx context.Context, session *engine.Session, reg *registry.Registry) error {
	for {
		clearScreen()
		fmt.Println(headerStyle.Render("BITINCH SWAP"))
		fmt.Println(dimStyle.Render("Swap anything, settle anywhere.\n"))

		st := session.Snapshot()
		renderMarketLine(st)

		action, err := mainMenu(st)
		if err != nil {
			return err
		}

		switch action {
		case "pair":
			if err := choosePair(session, reg); err != nil {
				return err
			}
		case "amount":
			if err := enterAmount(ctx, session); err != nil {
				return err
			}
		case "flip":
			session.SwapAssets()
		case "settings":
			if err := editSettings(session); err != nil {
				return err
			}
		case "swap":
			executeSwap(ctx, session)
		case "reset":
			session.ResetSwap()
		case "quit":
			return nil
		}
	}
}

func mainMenu(st engine.FormState) (string, error) {
	renderQuote(st)

	options := []huh.Option[string]{
		huh.NewOption(fmt.Sprintf("Pair: %s → %s", st.FromAsset.Symbol, st.ToAsset.Symbol), "pair"),
		huh.NewOption(amountLabel(st), "amount"),
		huh.NewOption("Flip direction", "flip"),
		huh.NewOption(fmt.Sprintf("Settings (slippage %s%%, deadline %dm)", st.SlippageTolerance.String(), st.DeadlineMinutes), "settings"),
	}
	if st.Quote != nil {
		options = append(options, huh.NewOption("Execute swap", "swap"))
	}
	options = append(options,
		huh.NewOption("Reset", "reset"),
		huh.NewOption("Quit", "quit"),
	)

	var action string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What next?").
				Options(options...).
				Value(&action),
		),
	).Run()
	return action, err
}

func amountLabel(st engine.FormState) string {
	if strings.TrimSpace(st.InputAmount) == "" {
		return "Enter amount"
	}
	return fmt.Sprintf("Amount: %s %s", st.InputAmount, st.FromAsset.Symbol)
}

func choosePair(session *engine.Session, reg *registry.Registry) error {
	assets := reg.All()

	options := make([]huh.Option[string], 0, len(assets))
	for _, a := range assets {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", a.Symbol, a.Name), a.Symbol))
	}

	st := session.Snapshot()
	from := st.FromAsset.Symbol
	to := st.ToAsset.Symbol

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("You pay").
				Options(options...).
				Value(&from),
			huh.NewSelect[string]().
				Title("You receive").
				Options(options...).
				Value(&to),
		),
	).Run()
	if err != nil {
		return err
	}

	if fromAsset, ok := reg.Get(from); ok {
		if err := session.SetFromAsset(fromAsset); err != nil {
			return err
		}
	}
	if toAsset, ok := reg.Get(to); ok {
		if err := session.SetToAsset(toAsset); err != nil {
			return err
		}
	}
	return nil
}

func enterAmount(ctx context.Context, session *engine.Session) error {
	st := session.Snapshot()
	amount := st.InputAmount

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Amount of %s to swap", st.FromAsset.Symbol)).
				Description("Decimal number, e.g. 0.5").
				Value(&amount).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					v, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("not a number")
					}
					if v.LessThanOrEqual(decimal.Zero) {
						return fmt.Errorf("must be positive")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	session.SetInputAmount(amount)
	waitForQuote(ctx, session)
	return nil
}

func editSettings(session *engine.Session) error {
	st := session.Snapshot()
	slippage := st.SlippageTolerance.String()
	deadline := fmt.Sprintf("%d", st.DeadlineMinutes)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Slippage tolerance (%)").
				Value(&slippage),
			huh.NewInput().
				Title("Deadline (minutes)").
				Value(&deadline),
		),
	).Run()
	if err != nil {
		return err
	}

	if s, err := decimal.NewFromString(strings.TrimSpace(slippage)); err == nil {
		if err := session.SetSlippageTolerance(s); err != nil {
			fmt.Println(warnStyle.Render(err.Error()))
		}
	}
	var minutes int
	if _, err := fmt.Sscanf(strings.TrimSpace(deadline), "%d", &minutes); err == nil {
		if err := session.SetDeadlineMinutes(minutes); err != nil {
			fmt.Println(warnStyle.Render(err.Error()))
		}
	}
	return nil
}

func executeSwap(ctx context.Context, session *engine.Session) {
	st := session.Snapshot()
	if st.Quote == nil {
		fmt.Println(warnStyle.Render("no quote to execute"))
		return
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Swap %s %s for ~%s %s?",
					st.InputAmount, st.FromAsset.Symbol, st.OutputAmount, st.ToAsset.Symbol)).
				Description(fmt.Sprintf("Minimum received: %s %s",
					st.Quote.MinimumReceived.StringFixed(6), st.ToAsset.Symbol)).
				Value(&confirmed),
		),
	).Run()
	if err != nil || !confirmed {
		return
	}

	fmt.Println(dimStyle.Render("settling…"))
	record, err := session.ExecuteSwap(ctx)
	if err != nil {
		fmt.Println(warnStyle.Render(session.Snapshot().Error))
	} else {
		fmt.Println(okStyle.Render(fmt.Sprintf("swap %s executed: %s %s → %s %s",
			record.ID, record.InputAmount, st.FromAsset.Symbol, record.OutputAmount, st.ToAsset.Symbol)))
	}
	pause()
}

// waitForQuote blocks until the in-flight quote settles one way or the
// other. The session's own timeout bounds the wait.
func waitForQuote(ctx context.Context, session *engine.Session) {
	fmt.Println(dimStyle.Render("fetching quote…"))
	for {
		st := session.Snapshot()
		if !st.IsQuoteLoading {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(quoteWaitPoll):
		}
	}
}

func renderQuote(st engine.FormState) {
	if st.Error != "" {
		fmt.Println(warnStyle.Render("✗ " + st.Error))
	}
	if st.Warning != "" {
		fmt.Println(warnStyle.Render("⚠ " + st.Warning))
	}
	if st.Quote == nil {
		return
	}

	q := st.Quote
	lines := []string{
		fmt.Sprintf("%s %s → %s %s", st.InputAmount, st.FromAsset.Symbol, st.OutputAmount, st.ToAsset.Symbol),
		fmt.Sprintf("rate            %s", q.Rate.String()),
		fmt.Sprintf("price impact    %s%%", q.PriceImpact.StringFixed(2)),
		fmt.Sprintf("min received    %s", q.MinimumReceived.StringFixed(6)),
		fmt.Sprintf("slippage        %s%%", q.Slippage.String()),
	}
	fmt.Println(quoteStyle.Render(strings.Join(lines, "\n")))
}

func renderMarketLine(st engine.FormState) {
	if st.CurrentPrice.IsZero() {
		return
	}
	change := st.PriceChange24h.StringFixed(2) + "%"
	if st.PriceChange24h.IsNegative() {
		change = warnStyle.Render(change)
	} else {
		change = okStyle.Render("+" + change)
	}
	fmt.Printf("%s %s  24h %s\n\n",
		dimStyle.Render(st.FromAsset.Symbol+"/"+st.ToAsset.Symbol),
		st.CurrentPrice.String(), change)
}

func pause() {
	fmt.Println(dimStyle.Render("\npress enter to continue"))
	fmt.Scanln()
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}
