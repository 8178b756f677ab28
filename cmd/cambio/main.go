// Command cambio is a terminal currency converter backed by live exchange
// rates. Without arguments it starts the interactive TUI; subcommands cover
// scripted one-shot use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-ledesma/cambio/internal/app"
	"github.com/r-ledesma/cambio/internal/config"
	"github.com/r-ledesma/cambio/internal/convert"
	"github.com/r-ledesma/cambio/internal/logger"
	"github.com/r-ledesma/cambio/internal/services"
	convertTab "github.com/r-ledesma/cambio/internal/ui/tabs/convert"
	"github.com/r-ledesma/cambio/internal/ui/tabs/currencies"
	historyTab "github.com/r-ledesma/cambio/internal/ui/tabs/history"
	"github.com/r-ledesma/cambio/internal/version"
)

const usage = `cambio - currency conversion in your terminal

Usage:
  cambio                       start the interactive TUI
  cambio convert FROM TO AMT   convert AMT from FROM to TO and print the result
  cambio currencies            list supported currencies
  cambio history               print the last conversions, newest first
  cambio version               print version information

Flags:
  -v, --version    print version and exit
      --no-notify  disable desktop notifications
`

func main() {
	var showVersion bool
	var noNotify bool

	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&noNotify, "no-notify", false, "disable desktop notifications")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		fatal(err)
	}
	defer mgr.Close()

	if noNotify {
		mgr.SetDesktopNotifications(false)
	}

	args := flag.Args()
	if len(args) == 0 {
		runTUI(mgr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	switch args[0] {
	case "convert":
		err = runConvert(ctx, mgr, args[1:])
	case "currencies":
		err = runCurrencies(ctx, mgr)
	case "history":
		err = runHistory(mgr)
	case "version":
		fmt.Println(version.String())
	default:
		fmt.Fprintf(os.Stderr, "cambio: unknown command %q\n\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fatal(err)
	}
}

func runTUI(mgr *services.Manager) {
	model := app.NewModel(mgr)

	state := model.GetState()
	commands := model.GetCommands()

	model.SetTabs([]app.Tab{
		convertTab.New(state, commands),
		currencies.New(state),
		historyTab.New(state),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Bubble Tea handles ctrl+c itself; translate SIGTERM into a clean quit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		fatal(err)
	}
}

func runConvert(ctx context.Context, mgr *services.Manager, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: cambio convert FROM TO AMOUNT")
	}

	amount, err := convert.ParseAmount(args[2])
	if err != nil {
		return err
	}

	record, err := mgr.Convert(ctx, args[0], args[1], amount)
	if err != nil {
		return err
	}

	fmt.Println(record.String())
	return nil
}

func runCurrencies(ctx context.Context, mgr *services.Manager) error {
	symbols, err := mgr.Symbols(ctx)
	if err != nil {
		return err
	}

	// Three columns, filled top to bottom.
	const columns = 3
	rows := (len(symbols) + columns - 1) / columns
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			idx := col*rows + row
			if idx >= len(symbols) {
				continue
			}
			s := symbols[idx]
			desc := s.Description
			if r := []rune(desc); len(r) > 22 {
				desc = string(r[:21]) + "…"
			}
			fmt.Printf("%-5s %-24s", s.Code, desc)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d currencies supported\n", len(symbols))
	return nil
}

func runHistory(mgr *services.Manager) error {
	records := mgr.History()
	if len(records) == 0 {
		fmt.Println("No conversions yet.")
		return nil
	}

	// Stored oldest first; print newest first like the TUI.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Printf("%2d. %s  %s\n",
			len(records)-i, r.Timestamp.Format("2006-01-02 15:04:05"), r.String())
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "cambio: %s\n", services.UserMessage(err))
	os.Exit(1)
}
