package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/app"
	"github.com/pontodeaula/pontoaula/internal/localstate"
	"github.com/pontodeaula/pontoaula/internal/nav"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/session"
	"github.com/pontodeaula/pontoaula/internal/tui"
	"github.com/pontodeaula/pontoaula/internal/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pontoaula: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := app.NewFileLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	statePath, err := cfg.StatePath()
	if err != nil {
		return fmt.Errorf("resolve state path: %w", err)
	}
	state, err := localstate.Open(statePath)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}

	// The gateway's 401 callback and the session store form a cycle;
	// the signal breaks it. Any rejected request forces a logout.
	var logout session.LogoutSignal
	client := api.NewClient(
		cfg.APIBaseURL,
		session.TokenSourceFrom(state),
		logout.Emit,
		api.WithTimeout(cfg.RequestTimeout),
	)

	store := session.NewStore(state, client, logger)
	logout.Bind(store.ForceLogout)

	deps := tui.Deps{
		Logger:   logger,
		Session:  store,
		Posts:    posts.NewService(client),
		Users:    users.NewService(client),
		Guard:    nav.NewGuard(),
		Policies: policy.NewEngine(),
		State:    state,
	}

	program := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
