package repository

import (
	"context"
	"strings"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-campus"
)

type Users interface {
	Store[User]
	campus.AccountFinder
	FindByID(ctx context.Context, id string) (*User, error)
	Register(ctx context.Context, id, name, password string) (*User, error)
	ResetPassword(ctx context.Context, id, password string) error
}

type users struct {
	Store[User]
	passwords campus.PasswordAuthenticator
}

var _ Users = (*users)(nil)

type UsersOption func(*users)

// WithPasswordAuthenticator swaps the hashing strategy used by Register.
func WithPasswordAuthenticator(p campus.PasswordAuthenticator) UsersOption {
	return func(u *users) {
		if p != nil {
			u.passwords = p
		}
	}
}

func NewUsersRepository(db bun.IDB, opts ...UsersOption) Users {
	u := &users{
		Store: NewStore(db, Entity[User]{
			Name:       "user",
			Identifier: "id",
			Keys: func(u *User) []SelectCriteria {
				return []SelectCriteria{bunrepo.SelectByID(u.ID)}
			},
			Columns: func(u *User) []bunrepo.UpdateCriteria {
				return []bunrepo.UpdateCriteria{
					bunrepo.UpdateSetColumn("name", u.Name),
					bunrepo.UpdateSetColumn("password_hash", u.PasswordHash),
				}
			},
		}),
		passwords: campus.BcryptPasswords(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (r *users) FindByID(ctx context.Context, id string) (*User, error) {
	return r.FindOne(ctx, bunrepo.SelectByID(id))
}

// FindAccount serves the authenticator.
func (r *users) FindAccount(ctx context.Context, id string) (*campus.Account, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &campus.Account{ID: u.ID, Name: u.Name, PasswordHash: u.PasswordHash}, nil
}

// Register stores a new user with a hashed password.
func (r *users) Register(ctx context.Context, id, name, password string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, campus.BadRequest("user id must not be empty")
	}
	if name == "" {
		name = id
	}

	hash, err := r.passwords.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return r.Insert(ctx, &User{ID: id, Name: name, PasswordHash: hash})
}

// ResetPassword replaces the stored hash of an existing user.
func (r *users) ResetPassword(ctx context.Context, id, password string) error {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := r.passwords.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	_, err = r.Update(ctx, u)
	return err
}
