package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	copy.ID = strconv.Itoa(len(r.users) + 1)
	r.users[copy.Username] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	if _, ok := r.users[username]; !ok {
		return 0, nil
	}
	delete(r.users, username)
	return 1, nil
}

type stubRoleRepo struct {
	roles    map[string]*domain.Role
	created  int
	racyOnce bool // simulate another signup creating the role first
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*domain.Role)}
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *stubRoleRepo) Create(_ context.Context, name string) (*domain.Role, error) {
	if r.racyOnce {
		r.racyOnce = false
		r.roles[name] = &domain.Role{ID: "winner", Name: name}
		return nil, domain.ErrRoleExists
	}
	if _, ok := r.roles[name]; ok {
		return nil, domain.ErrRoleExists
	}
	r.created++
	role := &domain.Role{ID: strconv.Itoa(r.created), Name: name}
	r.roles[name] = role
	return role, nil
}

type stubBookRepo struct {
	books     map[int64]*domain.Book
	findCalls int
	createErr error
	lastLimit int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[int64]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.books[b.ID]; ok {
		return domain.ErrBookExists
	}
	clone := *b
	r.books[b.ID] = &clone
	return nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	r.findCalls++
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) ExistsByTitleAndAuthor(_ context.Context, title, author string) (bool, error) {
	for _, b := range r.books {
		if b.Title == title && b.AuthorUsername == author {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubBookRepo) sorted() []domain.Book {
	out := make([]domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubBookRepo) List(_ context.Context) ([]domain.Book, error) {
	return r.sorted(), nil
}

func (r *stubBookRepo) SearchByTitle(_ context.Context, keyword string) ([]domain.Book, error) {
	var out []domain.Book
	for _, b := range r.sorted() {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(keyword)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookRepo) TopRated(_ context.Context, limit int) ([]domain.Book, error) {
	r.lastLimit = limit
	out := r.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubReviewRepo struct {
	reviews []domain.Review
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	rv.ID = strconv.Itoa(len(r.reviews) + 1)
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *stubReviewRepo) ListByBook(_ context.Context, bookID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].BookID == bookID {
			out = append(out, r.reviews[i])
		}
	}
	return out, nil
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *stubNotifier) Notify(msg domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}
