package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// deniedPage is shown in place when an authenticated user opens a
// route their role does not allow. No silent redirect: the user sees
// where they are and why.
type deniedPage struct {
	path string
}

func newDeniedPage(path string) *deniedPage {
	return &deniedPage{path: path}
}

func (p *deniedPage) Init() tea.Cmd { return nil }

func (p *deniedPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "d":
			return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
		case "q":
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p *deniedPage) View(width, height int) string {
	var b strings.Builder
	b.WriteString(deniedStyle.Render("Acesso negado"))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Você não tem permissão para acessar " + p.path))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: voltar ao dashboard · q: sair"))
	return b.String()
}
