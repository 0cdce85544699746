package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/localstate"
	"github.com/pontodeaula/pontoaula/internal/users"
)

const (
	profileFieldName = iota
	profileFieldEmail
	profileFieldUsername
	profileFieldCurrentPassword
	profileFieldNewPassword
	profileFieldCount
)

// profilePage edits the caller's own account and rotates their
// password. The accessibility widget preference is toggled here and
// persisted alongside the session state.
type profilePage struct {
	deps Deps

	name            textinput.Model
	email           textinput.Model
	username        textinput.Model
	currentPassword textinput.Model
	newPassword     textinput.Model

	focus   int
	saving  bool
	errText string
	notice  string
	vlibras bool
}

func newProfilePage(deps Deps) *profilePage {
	name := textinput.New()
	name.Placeholder = "Nome"
	name.CharLimit = 200

	email := textinput.New()
	email.Placeholder = "E-mail"

	username := textinput.New()
	username.Placeholder = "Usuário"
	username.CharLimit = 50

	current := textinput.New()
	current.Placeholder = "Senha atual"
	current.EchoMode = textinput.EchoPassword

	next := textinput.New()
	next.Placeholder = "Nova senha"
	next.EchoMode = textinput.EchoPassword

	if user := deps.Session.Current(); user != nil {
		name.SetValue(user.Name)
		email.SetValue(user.Email)
		username.SetValue(user.Username)
	}

	p := &profilePage{
		deps:            deps,
		name:            name,
		email:           email,
		username:        username,
		currentPassword: current,
		newPassword:     next,
		vlibras:         deps.State.Get(localstate.VlibrasKey) == "true",
	}
	p.setFocus(profileFieldName)
	return p
}

func (p *profilePage) Init() tea.Cmd { return textinput.Blink }

func (p *profilePage) setFocus(field int) {
	p.focus = field
	p.name.Blur()
	p.email.Blur()
	p.username.Blur()
	p.currentPassword.Blur()
	p.newPassword.Blur()
	switch field {
	case profileFieldName:
		p.name.Focus()
	case profileFieldEmail:
		p.email.Focus()
	case profileFieldUsername:
		p.username.Focus()
	case profileFieldCurrentPassword:
		p.currentPassword.Focus()
	case profileFieldNewPassword:
		p.newPassword.Focus()
	}
}

func (p *profilePage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		p.saving = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao atualizar perfil")
			return p, nil
		}
		p.errText = ""
		p.notice = "Perfil atualizado"
		return p, nil

	case passwordChangedMsg:
		p.saving = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao alterar senha")
			return p, nil
		}
		p.errText = ""
		p.notice = "Senha alterada"
		p.currentPassword.SetValue("")
		p.newPassword.SetValue("")
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
		case "tab", "enter":
			p.setFocus((p.focus + 1) % profileFieldCount)
			return p, nil
		case "shift+tab":
			p.setFocus((p.focus + profileFieldCount - 1) % profileFieldCount)
			return p, nil
		case "ctrl+v":
			p.toggleVlibras()
			return p, nil
		case "ctrl+s":
			if p.saving {
				return p, nil
			}
			p.saving = true
			p.errText, p.notice = "", ""
			return p, p.saveProfileCmd()
		case "ctrl+p":
			if p.saving {
				return p, nil
			}
			p.saving = true
			p.errText, p.notice = "", ""
			return p, p.changePasswordCmd()
		}
		return p, p.forwardKey(msg)
	}
	return p, nil
}

func (p *profilePage) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case profileFieldName:
		p.name, cmd = p.name.Update(msg)
	case profileFieldEmail:
		p.email, cmd = p.email.Update(msg)
	case profileFieldUsername:
		p.username, cmd = p.username.Update(msg)
	case profileFieldCurrentPassword:
		p.currentPassword, cmd = p.currentPassword.Update(msg)
	case profileFieldNewPassword:
		p.newPassword, cmd = p.newPassword.Update(msg)
	}
	return cmd
}

func (p *profilePage) toggleVlibras() {
	p.vlibras = !p.vlibras
	value := "false"
	if p.vlibras {
		value = "true"
	}
	if err := p.deps.State.Set(localstate.VlibrasKey, value); err != nil {
		p.deps.Logger.Error("persist vlibras preference", "error", err)
	}
}

func (p *profilePage) saveProfileCmd() tea.Cmd {
	deps := p.deps
	payload := users.UpdatePayload{
		Name:     strings.TrimSpace(p.name.Value()),
		Email:    strings.TrimSpace(p.email.Value()),
		Username: strings.TrimSpace(p.username.Value()),
	}
	return func() tea.Msg {
		user, err := deps.Users.UpdateMe(context.Background(), payload)
		if err == nil {
			deps.Session.SetCurrent(user)
		}
		return profileSavedMsg{user: user, err: err}
	}
}

func (p *profilePage) changePasswordCmd() tea.Cmd {
	deps := p.deps
	payload := users.ChangePasswordPayload{
		CurrentPassword: p.currentPassword.Value(),
		NewPassword:     p.newPassword.Value(),
	}
	return func() tea.Msg {
		err := deps.Users.ChangeMyPassword(context.Background(), payload)
		return passwordChangedMsg{err: err}
	}
}

func (p *profilePage) View(width, height int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Perfil"))
	if user := p.deps.Session.Current(); user != nil {
		b.WriteString("  ")
		b.WriteString(subtitleStyle.Render(user.Role.Label()))
	}
	b.WriteString("\n\n")

	b.WriteString(formLine("Nome", p.name.View()))
	b.WriteString(formLine("E-mail", p.email.View()))
	b.WriteString(formLine("Usuário", p.username.View()))

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Alterar senha"))
	b.WriteString("\n")
	b.WriteString(formLine("Senha atual", p.currentPassword.View()))
	b.WriteString(formLine("Nova senha", p.newPassword.View()))

	vlibras := "desativado"
	if p.vlibras {
		vlibras = "ativado"
	}
	b.WriteString(labelStyle.Render("VLibras") + "  " + vlibras + subtitleStyle.Render("  (ctrl+v alterna)"))
	b.WriteString("\n")

	if p.saving {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Salvando..."))
	}
	if p.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(p.errText))
	}
	if p.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(p.notice))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: próximo campo · ctrl+s: salvar perfil · ctrl+p: alterar senha · esc: voltar"))
	return b.String()
}
