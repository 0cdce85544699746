// Package stub is a self-contained development backend implementing
// the REST contract the client consumes, so the application runs with
// zero infrastructure. It is a development aid, not the production
// backend.
package stub

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("stub: not found")
	// ErrDuplicate indicates a unique field collision.
	ErrDuplicate = errors.New("stub: duplicate")
	// ErrBadCredentials indicates a failed login.
	ErrBadCredentials = errors.New("stub: invalid credentials")
)

// Account couples a user with its password hash.
type Account struct {
	users.User
	PasswordHash string
}

// Store is the in-memory database behind the stub server.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	posts    map[string]*posts.Post
	now      func() time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*Account),
		posts:    make(map[string]*posts.Post),
		now:      time.Now,
	}
}

// CreateAccount registers an account, hashing the password and
// rejecting duplicate email or username.
func (s *Store) CreateAccount(name, email, username, password string, role users.Role) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.Email == email || (username != "" && acc.Username == username) {
			return nil, ErrDuplicate
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		User: users.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Username:     username,
			Role:         role,
			RegisteredAt: s.now(),
		},
		PasswordHash: string(hash),
	}
	s.accounts[acc.ID] = acc
	u := acc.User
	return &u, nil
}

// Authenticate resolves a login identifier (email or username) and
// verifies the password.
func (s *Store) Authenticate(email, username, password string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if (email != "" && acc.Email == email) || (username != "" && acc.Username == username) {
			if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
				return nil, ErrBadCredentials
			}
			u := acc.User
			return &u, nil
		}
	}
	return nil, ErrBadCredentials
}

// GetUser fetches one account by ID.
func (s *Store) GetUser(id string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := acc.User
	return &u, nil
}

// ListUsers returns every account ordered by name.
func (s *Store) ListUsers() []users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]users.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UpdateUser edits name/email/username; empty fields keep their value.
// Role is immutable through this path.
func (s *Store) UpdateUser(id, name, email, username string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	for otherID, other := range s.accounts {
		if otherID == id {
			continue
		}
		if (email != "" && other.Email == email) || (username != "" && other.Username == username) {
			return nil, ErrDuplicate
		}
	}
	if name != "" {
		acc.Name = name
	}
	if email != "" {
		acc.Email = email
	}
	if username != "" {
		acc.Username = username
	}
	acc.UpdatedAt = s.now()
	u := acc.User
	return &u, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Store) ChangePassword(id, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(current)) != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(hash)
	acc.UpdatedAt = s.now()
	return nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

// CreatePost stores a new post owned by author.
func (s *Store) CreatePost(author *users.User, payload posts.CreatePayload) *posts.Post {
	return s.CreatePostAt(author, payload, s.now())
}

// CreatePostAt is CreatePost with an explicit timestamp, used by
// seeding to spread posts over past dates.
func (s *Store) CreatePostAt(author *users.User, payload posts.CreatePayload, now time.Time) *posts.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := &posts.Post{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		Content:   payload.Content,
		Author:    author.Name,
		AuthorID:  author.ID,
		Tags:      append([]string(nil), payload.Tags...),
		ImageURL:  payload.ImageURL,
		VideoURL:  payload.VideoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[post.ID] = post
	p := *post
	return &p
}

// GetPost fetches one post by ID.
func (s *Store) GetPost(id string) (*posts.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := *post
	return &p, nil
}

// UpdatePost replaces the editable fields and bumps UpdatedAt, the
// signal the client uses for "updated" display semantics.
func (s *Store) UpdatePost(id string, payload posts.UpdatePayload) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post.Title = payload.Title
	post.Content = payload.Content
	post.Tags = append([]string(nil), payload.Tags...)
	post.ImageURL = payload.ImageURL
	post.VideoURL = payload.VideoURL
	post.UpdatedAt = s.now()
	p := *post
	return &p, nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// ListPosts returns every post, newest first.
func (s *Store) ListPosts() []posts.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]posts.Post, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, *post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListPostsByAuthor returns one author's posts, newest first.
func (s *Store) ListPostsByAuthor(authorID string) []posts.Post {
	all := s.ListPosts()
	out := make([]posts.Post, 0, len(all))
	for _, post := range all {
		if post.AuthorID == authorID {
			out = append(out, post)
		}
	}
	return out
}
