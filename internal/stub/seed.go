package stub

import (
	"fmt"
	"time"

	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// Seed populates the store with accounts for every role and enough
// posts to page through. Passwords follow the "<username>123" pattern.
func Seed(s *Store) error {
	type account struct {
		name, email, username, password string
		role                            users.Role
	}
	seedAccounts := []account{
		{"Ana Admin", "admin@pontoaula.dev", "admin", "admin123", users.RoleAdmin},
		{"Sofia Secretária", "secretaria@pontoaula.dev", "secretaria", "secretaria123", users.RoleSecretary},
		{"Pedro Professor", "professor@pontoaula.dev", "professor", "professor123", users.RoleTeacher},
		{"Alice Aluna", "aluna@pontoaula.dev", "aluna", "aluna123", users.RoleStudent},
	}

	created := make(map[users.Role]*users.User, len(seedAccounts))
	for _, acc := range seedAccounts {
		user, err := s.CreateAccount(acc.name, acc.email, acc.username, acc.password, acc.role)
		if err != nil {
			return fmt.Errorf("stub: seed account %s: %w", acc.email, err)
		}
		created[acc.role] = user
	}

	tags := [][]string{
		{"matemática", "álgebra"},
		{"matemática", "geometria"},
		{"português", "gramática"},
		{"história"},
		{"ciências", "biologia"},
		{"ciências", "física"},
		{"geografia"},
		{"artes"},
	}
	base := time.Now().Add(-30 * 24 * time.Hour)
	teacher := created[users.RoleTeacher]
	secretary := created[users.RoleSecretary]
	for i := 0; i < 24; i++ {
		author := teacher
		if i%3 == 0 {
			author = secretary
		}
		payload := posts.CreatePayload{
			Title:   fmt.Sprintf("Aula %02d", i+1),
			Content: fmt.Sprintf("<p>Conteúdo da aula %02d.</p>", i+1),
			Tags:    tags[i%len(tags)],
		}
		s.CreatePostAt(author, payload, base.Add(time.Duration(i)*24*time.Hour))
	}
	return nil
}
