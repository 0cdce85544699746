package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
)

// loginPage is the public entry point: identifier + password.
type loginPage struct {
	deps       Deps
	identifier textinput.Model
	password   textinput.Model
	focusIndex int
	submitting bool
	errText    string
}

func newLoginPage(deps Deps) *loginPage {
	identifier := textinput.New()
	identifier.Placeholder = "e-mail ou usuário"
	identifier.CharLimit = 120
	identifier.Focus()

	password := textinput.New()
	password.Placeholder = "senha"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return &loginPage{deps: deps, identifier: identifier, password: password}
}

func (p *loginPage) Init() tea.Cmd {
	return textinput.Blink
}

func (p *loginPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			p.focusIndex = (p.focusIndex + 1) % 2
			if p.focusIndex == 0 {
				p.password.Blur()
				return p, p.identifier.Focus()
			}
			p.identifier.Blur()
			return p, p.password.Focus()
		case "enter":
			if p.submitting {
				return p, nil
			}
			identifier := strings.TrimSpace(p.identifier.Value())
			password := p.password.Value()
			if identifier == "" || password == "" {
				p.errText = "Informe usuário e senha"
				return p, nil
			}
			p.submitting = true
			p.errText = ""
			return p, p.loginCmd(identifier, password)
		}

	case loginDoneMsg:
		p.submitting = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Não foi possível entrar")
			return p, nil
		}
		return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.identifier, cmd = p.identifier.Update(msg)
	cmds = append(cmds, cmd)
	p.password, cmd = p.password.Update(msg)
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

func (p *loginPage) loginCmd(identifier, password string) tea.Cmd {
	return func() tea.Msg {
		err := p.deps.Session.Login(context.Background(), identifier, password)
		return loginDoneMsg{err: err}
	}
}

func (p *loginPage) View(width, height int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Entrar"))
	b.WriteString("\n\n")
	b.WriteString(p.identifier.View())
	b.WriteString("\n")
	b.WriteString(p.password.View())
	b.WriteString("\n\n")
	if p.submitting {
		b.WriteString(subtitleStyle.Render("Autenticando..."))
	} else if p.errText != "" {
		b.WriteString(errorStyle.Render(p.errText))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: alternar campo · enter: entrar · ctrl+c: sair"))
	return b.String()
}
