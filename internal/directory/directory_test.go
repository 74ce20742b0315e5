package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"example.com/userdir/internal/client"
	"example.com/userdir/internal/domain"
	httphandlers "example.com/userdir/internal/handler/http"
	"example.com/userdir/internal/storage/memory"
	"example.com/userdir/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	users     []domain.User
	healthErr error
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	// echo overrides what the server returns from Create/Update.
	echo  *domain.User
	calls []string
}

func (f *fakeAPI) Health(context.Context) (client.Health, error) {
	f.calls = append(f.calls, "health")
	return client.Health{Op: "Success"}, f.healthErr
}

func (f *fakeAPI) List(context.Context) ([]domain.User, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeAPI) Create(_ context.Context, name string) (domain.User, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if f.echo != nil {
		return *f.echo, nil
	}
	return domain.User{ID: 10, Name: name}, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, name string) (domain.User, error) {
	f.calls = append(f.calls, "update")
	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	if f.echo != nil {
		return *f.echo, nil
	}
	return domain.User{ID: id, Name: name}, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) (client.DeleteResult, error) {
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return client.DeleteResult{}, f.deleteErr
	}
	return client.DeleteResult{Message: "User deleted successfully", User: domain.User{ID: id}}, nil
}

func loaded(t *testing.T, api *fakeAPI) *Directory {
	t.Helper()
	api.users = domain.SeedUsers()
	d := New(api)
	require.NoError(t, d.Load(context.Background()))
	api.calls = nil
	return d
}

func always(domain.User) bool { return true }

func TestLoad(t *testing.T) {
	t.Run("health failure is not fatal", func(t *testing.T) {
		api := &fakeAPI{users: domain.SeedUsers(), healthErr: errors.New("down")}
		d := New(api)
		assert.True(t, d.Loading())

		require.NoError(t, d.Load(context.Background()))
		assert.Equal(t, []string{"health", "list"}, api.calls)
		assert.Equal(t, domain.SeedUsers(), d.Users())
		assert.False(t, d.Loading())
		assert.NoError(t, d.Err())
	})

	t.Run("list failure is visible", func(t *testing.T) {
		api := &fakeAPI{listErr: errors.New("failed to fetch users: boom")}
		d := New(api)

		assert.Error(t, d.Load(context.Background()))
		assert.EqualError(t, d.Err(), "failed to fetch users: boom")
		assert.False(t, d.Loading())
		assert.Empty(t, d.Users())
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("empty draft never reaches the server", func(t *testing.T) {
		api := &fakeAPI{}
		d := loaded(t, api)
		d.SetDraft("   ")

		_, err := d.Submit(ctx)
		assert.ErrorIs(t, err, ErrEmptyName)
		assert.Empty(t, api.calls)
		assert.Equal(t, "   ", d.Draft())
	})

	t.Run("server record is appended", func(t *testing.T) {
		api := &fakeAPI{echo: &domain.User{ID: 4, Name: "Dana"}}
		d := loaded(t, api)
		d.SetDraft(" Dana ")

		u, err := d.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.User{ID: 4, Name: "Dana"}, u)
		assert.Equal(t, u, d.Users()[3])
		assert.Empty(t, d.Draft())
	})

	t.Run("failure keeps draft", func(t *testing.T) {
		api := &fakeAPI{createErr: errors.New("failed to create user: Name is required")}
		d := loaded(t, api)
		d.SetDraft("Dana")

		_, err := d.Submit(ctx)
		assert.Error(t, err)
		assert.Equal(t, "Dana", d.Draft())
		assert.Len(t, d.Users(), 3)
		assert.Error(t, d.Err())
	})
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces with server record", func(t *testing.T) {
		api := &fakeAPI{echo: &domain.User{ID: 2, Name: "Janet"}}
		d := loaded(t, api)

		require.NoError(t, d.BeginEdit(2))
		assert.Equal(t, "Jane Smith", d.EditBuffer())
		d.SetEditBuffer(" Janet ")

		u, err := d.SaveEdit(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.User{ID: 2, Name: "Janet"}, d.Users()[1])
		assert.Equal(t, u, d.Users()[1])
		_, editing := d.Editing()
		assert.False(t, editing)
	})

	t.Run("empty buffer is rejected locally", func(t *testing.T) {
		api := &fakeAPI{}
		d := loaded(t, api)
		require.NoError(t, d.BeginEdit(1))
		d.SetEditBuffer("")

		_, err := d.SaveEdit(ctx)
		assert.ErrorIs(t, err, ErrEmptyName)
		assert.Empty(t, api.calls)
		id, editing := d.Editing()
		assert.True(t, editing)
		assert.Equal(t, int64(1), id)
	})

	t.Run("failure stays in edit mode", func(t *testing.T) {
		api := &fakeAPI{updateErr: errors.New("failed to update user: User not found")}
		d := loaded(t, api)
		require.NoError(t, d.BeginEdit(3))
		d.SetEditBuffer("Robert")

		_, err := d.SaveEdit(ctx)
		assert.Error(t, err)
		_, editing := d.Editing()
		assert.True(t, editing)
		assert.Equal(t, "Robert", d.EditBuffer())
		assert.Equal(t, "Bob Johnson", d.Users()[2].Name)
	})

	t.Run("cancel and unknown ids", func(t *testing.T) {
		d := loaded(t, &fakeAPI{})
		assert.ErrorIs(t, d.BeginEdit(99), ErrUnknownUser)
		require.NoError(t, d.BeginEdit(1))
		d.CancelEdit()
		_, err := d.SaveEdit(ctx)
		assert.ErrorIs(t, err, ErrNotEditing)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("declined sends nothing", func(t *testing.T) {
		api := &fakeAPI{}
		d := loaded(t, api)

		_, err := d.Delete(ctx, 1, func(domain.User) bool { return false })
		assert.ErrorIs(t, err, ErrDeleteDenied)
		assert.Empty(t, api.calls)
		assert.Len(t, d.Users(), 3)
	})

	t.Run("confirmed removes record", func(t *testing.T) {
		api := &fakeAPI{}
		d := loaded(t, api)
		var asked domain.User

		_, err := d.Delete(ctx, 1, func(u domain.User) bool { asked = u; return true })
		require.NoError(t, err)
		assert.Equal(t, "John Doe", asked.Name)
		assert.Equal(t, []domain.User{{ID: 2, Name: "Jane Smith"}, {ID: 3, Name: "Bob Johnson"}}, d.Users())
	})

	t.Run("failure leaves list", func(t *testing.T) {
		api := &fakeAPI{deleteErr: errors.New("failed to delete user: User not found")}
		d := loaded(t, api)

		_, err := d.Delete(ctx, 2, always)
		assert.Error(t, err)
		assert.Len(t, d.Users(), 3)
		assert.Error(t, d.Err())
	})

	t.Run("next action clears error", func(t *testing.T) {
		api := &fakeAPI{deleteErr: errors.New("boom")}
		d := loaded(t, api)
		_, _ = d.Delete(ctx, 2, always)
		require.Error(t, d.Err())

		require.NoError(t, d.BeginEdit(2))
		assert.NoError(t, d.Err())
	})
}

func TestDirectory_AgainstService(t *testing.T) {
	ctx := context.Background()
	h := httphandlers.New(usecase.NewUserService(memory.New()), httphandlers.Options{Quiet: true})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	d := New(client.New(srv.URL, client.WithHTTPClient(srv.Client())))
	require.NoError(t, d.Load(ctx))

	d.SetDraft("Dana")
	_, err := d.Submit(ctx)
	require.NoError(t, err)

	require.NoError(t, d.BeginEdit(2))
	d.SetEditBuffer("Janet")
	_, err = d.SaveEdit(ctx)
	require.NoError(t, err)

	_, err = d.Delete(ctx, 1, always)
	require.NoError(t, err)

	want := []domain.User{{ID: 2, Name: "Janet"}, {ID: 3, Name: "Bob Johnson"}, {ID: 4, Name: "Dana"}}
	assert.Equal(t, want, d.Users())

	// A record deleted elsewhere surfaces the server's 404 and stays local.
	_, err = client.New(srv.URL).Delete(ctx, 3)
	require.NoError(t, err)
	_, err = d.Delete(ctx, 3, always)
	assert.True(t, client.IsNotFound(err))
	assert.Len(t, d.Users(), 3)

	resp, err := http.Get(srv.URL + "/api/users")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
