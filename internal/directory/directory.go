// Package directory holds the client-side view of the user collection. Every
// change to the local list is taken from a server response, never from the
// request that produced it.
package directory

import (
	"context"
	"errors"
	"log"
	"strings"

	"example.com/userdir/internal/client"
	"example.com/userdir/internal/domain"
)

var (
	ErrEmptyName    = errors.New("please enter a name")
	ErrNotEditing   = errors.New("no user is being edited")
	ErrUnknownUser  = errors.New("no such user in the list")
	ErrDeleteDenied = errors.New("delete cancelled")
)

type API interface {
	Health(ctx context.Context) (client.Health, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, name string) (domain.User, error)
	Update(ctx context.Context, id int64, name string) (domain.User, error)
	Delete(ctx context.Context, id int64) (client.DeleteResult, error)
}

// Confirm is asked before a delete request is sent.
type Confirm func(u domain.User) bool

type Directory struct {
	api API

	users   []domain.User
	loading bool
	err     error

	draft string

	editing    bool
	editID     int64
	editBuffer string
}

func New(api API) *Directory {
	return &Directory{api: api, loading: true}
}

// Users returns a copy of the local list.
func (d *Directory) Users() []domain.User {
	out := make([]domain.User, len(d.users))
	copy(out, d.users)
	return out
}

func (d *Directory) Loading() bool { return d.loading }

// Err is the message left by the last failed action, cleared by the next one.
func (d *Directory) Err() error { return d.err }

func (d *Directory) Draft() string { return d.draft }

func (d *Directory) SetDraft(s string) { d.draft = s }

// Editing reports the id being edited and whether edit mode is active.
func (d *Directory) Editing() (int64, bool) { return d.editID, d.editing }

func (d *Directory) EditBuffer() string { return d.editBuffer }

func (d *Directory) SetEditBuffer(s string) { d.editBuffer = s }

// Load checks service health, then fetches the list. A failed health check is only logged.
func (d *Directory) Load(ctx context.Context) error {
	d.err = nil
	d.loading = true
	defer func() { d.loading = false }()

	if _, err := d.api.Health(ctx); err != nil {
		log.Printf("directory: %v", err)
	}
	users, err := d.api.List(ctx)
	if err != nil {
		d.err = err
		return err
	}
	d.users = users
	return nil
}

// Submit creates a user from the draft and clears the draft on success.
func (d *Directory) Submit(ctx context.Context) (domain.User, error) {
	d.err = nil
	if strings.TrimSpace(d.draft) == "" {
		d.err = ErrEmptyName
		return domain.User{}, d.err
	}
	u, err := d.api.Create(ctx, d.draft)
	if err != nil {
		d.err = err
		return domain.User{}, err
	}
	d.users = append(d.users, u)
	d.draft = ""
	return u, nil
}

func (d *Directory) BeginEdit(id int64) error {
	d.err = nil
	i := d.indexOf(id)
	if i < 0 {
		d.err = ErrUnknownUser
		return d.err
	}
	d.editing = true
	d.editID = id
	d.editBuffer = d.users[i].Name
	return nil
}

func (d *Directory) CancelEdit() {
	d.err = nil
	d.editing = false
	d.editID = 0
	d.editBuffer = ""
}

// SaveEdit sends the edit buffer. On failure the directory stays in edit mode.
func (d *Directory) SaveEdit(ctx context.Context) (domain.User, error) {
	d.err = nil
	if !d.editing {
		d.err = ErrNotEditing
		return domain.User{}, d.err
	}
	if strings.TrimSpace(d.editBuffer) == "" {
		d.err = ErrEmptyName
		return domain.User{}, d.err
	}
	u, err := d.api.Update(ctx, d.editID, d.editBuffer)
	if err != nil {
		d.err = err
		return domain.User{}, err
	}
	if i := d.indexOf(u.ID); i >= 0 {
		d.users[i] = u
	}
	d.editing = false
	d.editID = 0
	d.editBuffer = ""
	return u, nil
}

// Delete asks confirm first and sends nothing when it declines.
func (d *Directory) Delete(ctx context.Context, id int64, confirm Confirm) (domain.User, error) {
	d.err = nil
	i := d.indexOf(id)
	if i < 0 {
		d.err = ErrUnknownUser
		return domain.User{}, d.err
	}
	if confirm == nil || !confirm(d.users[i]) {
		return domain.User{}, ErrDeleteDenied
	}
	res, err := d.api.Delete(ctx, id)
	if err != nil {
		d.err = err
		return domain.User{}, err
	}
	if j := d.indexOf(res.User.ID); j >= 0 {
		d.users = append(d.users[:j], d.users[j+1:]...)
	}
	if d.editing && d.editID == res.User.ID {
		d.CancelEdit()
	}
	return res.User, nil
}

func (d *Directory) indexOf(id int64) int {
	for i, u := range d.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
