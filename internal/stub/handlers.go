package stub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := s.validate.Struct(req); err != nil || (req.Email == "" && req.Username == "") {
		writeError(w, http.StatusBadRequest, "Informe e-mail ou usuário e senha")
		return
	}
	user, err := s.store.Authenticate(req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("issue token", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Erro interno")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	var payload users.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	updated, err := s.store.UpdateUser(current.ID, payload.Name, payload.Email, payload.Username)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	var payload users.ChangePasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Dados de senha inválidos")
		return
	}
	if err := s.store.ChangePassword(current.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		if errors.Is(err, ErrBadCredentials) {
			// 400, not 401: a wrong current password must not force
			// a client logout.
			writeError(w, http.StatusBadRequest, "Senha atual incorreta")
			return
		}
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok", "message": "Senha alterada"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	if !policy.CanViewUsers(current.Role) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	writeData(w, http.StatusOK, s.store.ListUsers())
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	var payload users.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Dados de usuário inválidos")
		return
	}
	if !policy.CanManageUserRole(current.Role, payload.Role) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	created, err := s.store.CreateAccount(payload.Name, payload.Email, payload.Username, payload.Password, payload.Role)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// targetUser loads the {id} user and checks the caller may manage it.
func (s *Server) targetUser(w http.ResponseWriter, r *http.Request) *users.User {
	current := userFromContext(r.Context())
	target, err := s.store.GetUser(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return nil
	}
	if !policy.CanManageUserRole(current.Role, target.Role) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return nil
	}
	return target
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if target := s.targetUser(w, r); target != nil {
		writeData(w, http.StatusOK, target)
	}
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	target := s.targetUser(w, r)
	if target == nil {
		return
	}
	var payload users.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	updated, err := s.store.UpdateUser(target.ID, payload.Name, payload.Email, payload.Username)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	target := s.targetUser(w, r)
	if target == nil {
		return
	}
	if err := s.store.DeleteUser(target.ID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	if !s.policies.CanPerform(current, policy.ActionRead, policy.SubjectPost, nil) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	writeData(w, http.StatusOK, s.store.ListPosts())
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	if !s.policies.CanPerform(current, policy.ActionRead, policy.SubjectPost, nil) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	q := parseQuery(r.URL.Query())
	writeData(w, http.StatusOK, q.apply(s.store.ListPosts()))
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	writeData(w, http.StatusOK, s.store.ListPostsByAuthor(current.ID))
}

func (s *Server) handleSearchMyPosts(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	q := parseQuery(r.URL.Query())
	writeData(w, http.StatusOK, q.apply(s.store.ListPostsByAuthor(current.ID)))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetPost(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	if !s.policies.CanPerform(current, policy.ActionCreate, policy.SubjectPost, nil) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	var payload posts.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Dados de post inválidos")
		return
	}
	writeData(w, http.StatusCreated, s.store.CreatePost(current, payload))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	post, err := s.store.GetPost(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !s.policies.CanPerform(current, policy.ActionUpdate, policy.SubjectPost, post) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	var payload posts.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "Dados de post inválidos")
		return
	}
	updated, err := s.store.UpdatePost(post.ID, payload)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	current := userFromContext(r.Context())
	post, err := s.store.GetPost(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !s.policies.CanPerform(current, policy.ActionDelete, policy.SubjectPost, post) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	if err := s.store.DeletePost(post.ID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Registro não encontrado")
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, "E-mail ou usuário já cadastrado")
	default:
		s.logger.Error("stub store", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Erro interno")
	}
}
