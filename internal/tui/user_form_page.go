package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/users"
)

const (
	userFieldName = iota
	userFieldEmail
	userFieldUsername
	userFieldPassword
	userFieldCount
)

// userFormPage creates a new account or edits an existing one. A
// non-nil user means edit mode; the password field and the role picker
// only exist on create, and an existing account's role is immutable.
type userFormPage struct {
	deps Deps
	user *users.User

	name     textinput.Model
	email    textinput.Model
	username textinput.Model
	password textinput.Model

	roleIdx int
	focus   int
	saving  bool
	errText string
}

func newUserFormPage(deps Deps, user *users.User) *userFormPage {
	name := textinput.New()
	name.Placeholder = "Nome"
	name.CharLimit = 200

	email := textinput.New()
	email.Placeholder = "E-mail"

	username := textinput.New()
	username.Placeholder = "Usuário (opcional)"
	username.CharLimit = 50

	password := textinput.New()
	password.Placeholder = "Senha"
	password.EchoMode = textinput.EchoPassword

	if user != nil {
		name.SetValue(user.Name)
		email.SetValue(user.Email)
		username.SetValue(user.Username)
	}

	p := &userFormPage{
		deps:     deps,
		user:     user,
		name:     name,
		email:    email,
		username: username,
		password: password,
	}
	p.setFocus(userFieldName)
	return p
}

// assignableRoles lists the roles the current user may create accounts
// for, in the fixed role order.
func (p *userFormPage) assignableRoles() []users.Role {
	current := p.deps.Session.Current()
	if current == nil {
		return nil
	}
	var out []users.Role
	for _, role := range users.AllRoles() {
		if policy.CanManageUserRole(current.Role, role) {
			out = append(out, role)
		}
	}
	return out
}

func (p *userFormPage) fieldCount() int {
	if p.user != nil {
		// Edit mode has no password field.
		return userFieldPassword
	}
	return userFieldCount
}

func (p *userFormPage) Init() tea.Cmd { return textinput.Blink }

func (p *userFormPage) setFocus(field int) {
	p.focus = field
	p.name.Blur()
	p.email.Blur()
	p.username.Blur()
	p.password.Blur()
	switch field {
	case userFieldName:
		p.name.Focus()
	case userFieldEmail:
		p.email.Focus()
	case userFieldUsername:
		p.username.Focus()
	case userFieldPassword:
		p.password.Focus()
	}
}

func (p *userFormPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case userSavedMsg:
		p.saving = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao salvar usuário")
			return p, nil
		}
		return p, func() tea.Msg { return navigateMsg{path: "/users"} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return navigateMsg{path: "/users"} }
		case "tab", "enter":
			p.setFocus((p.focus + 1) % p.fieldCount())
			return p, nil
		case "shift+tab":
			p.setFocus((p.focus + p.fieldCount() - 1) % p.fieldCount())
			return p, nil
		case "ctrl+r":
			if p.user == nil {
				if roles := p.assignableRoles(); len(roles) > 0 {
					p.roleIdx = (p.roleIdx + 1) % len(roles)
				}
			}
			return p, nil
		case "ctrl+s":
			if p.saving {
				return p, nil
			}
			p.saving = true
			p.errText = ""
			return p, p.saveCmd()
		}
		return p, p.forwardKey(msg)
	}
	return p, nil
}

func (p *userFormPage) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case userFieldName:
		p.name, cmd = p.name.Update(msg)
	case userFieldEmail:
		p.email, cmd = p.email.Update(msg)
	case userFieldUsername:
		p.username, cmd = p.username.Update(msg)
	case userFieldPassword:
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

func (p *userFormPage) saveCmd() tea.Cmd {
	deps := p.deps
	name := strings.TrimSpace(p.name.Value())
	email := strings.TrimSpace(p.email.Value())
	username := strings.TrimSpace(p.username.Value())
	editing := p.user

	if editing != nil {
		return func() tea.Msg {
			_, err := deps.Users.Update(context.Background(), editing.ID, users.UpdatePayload{
				Name:     name,
				Email:    email,
				Username: username,
			})
			return userSavedMsg{err: err}
		}
	}

	password := p.password.Value()
	roles := p.assignableRoles()
	var role users.Role
	if p.roleIdx < len(roles) {
		role = roles[p.roleIdx]
	}
	return func() tea.Msg {
		_, err := deps.Users.Create(context.Background(), users.CreatePayload{
			Name:     name,
			Email:    email,
			Username: username,
			Password: password,
			Role:     role,
		})
		return userSavedMsg{err: err}
	}
}

func (p *userFormPage) View(width, height int) string {
	heading := "Novo Usuário"
	if p.user != nil {
		heading = "Editar Usuário"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(formLine("Nome", p.name.View()))
	b.WriteString(formLine("E-mail", p.email.View()))
	b.WriteString(formLine("Usuário", p.username.View()))

	if p.user == nil {
		b.WriteString(formLine("Senha", p.password.View()))
		roles := p.assignableRoles()
		role := "nenhum papel disponível"
		if p.roleIdx < len(roles) {
			role = roles[p.roleIdx].Label()
		}
		b.WriteString(labelStyle.Render("Papel") + "  " + role + subtitleStyle.Render("  (ctrl+r alterna)"))
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render("Papel") + "  " + p.user.Role.Label() + subtitleStyle.Render("  (imutável)"))
		b.WriteString("\n")
	}

	if p.saving {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Salvando..."))
	}
	if p.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(p.errText))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: próximo campo · ctrl+s: salvar · esc: cancelar"))
	return b.String()
}
