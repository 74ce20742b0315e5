// Package console is a line-oriented front end for the user directory: it
// renders the list, takes new names, edits a record inline and asks before
// deleting.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"example.com/userdir/internal/directory"
	"example.com/userdir/internal/domain"
)

type Console struct {
	dir *directory.Directory
	in  io.Reader
	out io.Writer

	// lines is fed by a single reader goroutine and closed at end of input.
	lines     chan string
	startOnce sync.Once
}

func New(dir *directory.Directory, in io.Reader, out io.Writer) *Console {
	return &Console{dir: dir, in: in, out: out, lines: make(chan string)}
}

// Run loads the directory and serves commands until quit, end of input or ctx
// ends. A cancelled ctx returns ctx.Err() even while waiting for input.
func (c *Console) Run(ctx context.Context) error {
	c.printf("User Management\n")
	if err := c.dir.Load(ctx); err != nil {
		c.printf("! %v\n", err)
	} else {
		c.render()
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.prompt()
		line, err := c.readLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := c.handleLine(ctx, line)
		if err != nil {
			c.printf("! %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (c *Console) handleLine(ctx context.Context, line string) (bool, error) {
	command, args := parseCommand(line)
	switch command {
	case "":
		return false, nil
	case "help", "start":
		c.printf("%s\n", helpText())
	case "quit", "exit":
		return true, nil
	case "list", "ls":
		if err := c.dir.Load(ctx); err != nil {
			return false, err
		}
		c.render()
	case "add":
		c.dir.SetDraft(args)
		u, err := c.dir.Submit(ctx)
		if err != nil {
			return false, err
		}
		c.printf("Added #%d %s.\n", u.ID, u.Name)
		c.render()
	case "edit":
		id, err := parseIDArg(args)
		if err != nil {
			return false, errors.New("usage: edit <id>")
		}
		if err := c.dir.BeginEdit(id); err != nil {
			return false, err
		}
		c.printf("Editing #%d (%s). save <name> to keep, cancel to drop.\n", id, c.dir.EditBuffer())
		c.render()
	case "save":
		if args != "" {
			c.dir.SetEditBuffer(args)
		}
		u, err := c.dir.SaveEdit(ctx)
		if err != nil {
			return false, err
		}
		c.printf("Saved #%d %s.\n", u.ID, u.Name)
		c.render()
	case "cancel":
		c.dir.CancelEdit()
		c.render()
	case "del", "delete", "rm":
		id, err := parseIDArg(args)
		if err != nil {
			return false, errors.New("usage: del <id>")
		}
		u, err := c.dir.Delete(ctx, id, func(u domain.User) bool { return c.confirm(ctx, u) })
		if errors.Is(err, directory.ErrDeleteDenied) {
			c.printf("Kept.\n")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		c.printf("Deleted #%d.\n", u.ID)
		c.render()
	default:
		return false, fmt.Errorf("unknown command %q, try help", command)
	}
	return false, nil
}

func (c *Console) confirm(ctx context.Context, u domain.User) bool {
	c.printf("Delete #%d %s? [y/N] ", u.ID, u.Name)
	answer, err := c.readLine(ctx)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Console) prompt() {
	if id, editing := c.dir.Editing(); editing {
		c.printf("edit #%d> ", id)
		return
	}
	c.printf("> ")
}

func (c *Console) render() {
	c.printf("%s\n", formatUserList(c.dir.Users(), c.dir))
}

// readLine waits for the next input line. It returns io.EOF once input is
// exhausted and ctx.Err() when ctx ends first.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.startOnce.Do(func() { go c.scan() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *Console) scan() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func parseCommand(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	cmd := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	if len(parts) == 1 {
		return cmd, ""
	}
	return cmd, strings.TrimSpace(parts[1])
}

func parseIDArg(args string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id")
	}
	return id, nil
}

func formatUserList(items []domain.User, dir *directory.Directory) string {
	if len(items) == 0 {
		return "No users yet. Add one with: add <name>"
	}
	editID, editing := dir.Editing()
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Users (%d):", len(items)))
	for _, u := range items {
		line := fmt.Sprintf("%4d  %s", u.ID, u.Name)
		if editing && u.ID == editID {
			line += fmt.Sprintf("  <- editing: %q", dir.EditBuffer())
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"help              this help",
		"list              reload and show users",
		"add <name>        create a user",
		"edit <id>         start editing a user",
		"save [name]       save the edit, optionally with a new name",
		"cancel            leave edit mode",
		"del <id>          delete a user (asks first)",
		"quit              leave",
	}, "\n")
}
