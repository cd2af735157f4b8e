package devserver

import (
	"errors"
	"slices"
	"sync"

	"github.com/aretw0/notesync/pkg/core"
)

var (
	errUserExists   = errors.New("email is already registered")
	errUserNotFound = errors.New("user not found")
)

type user struct {
	Email        string
	PasswordHash []byte
}

// memoryData holds users and their notes. Note ids are global and never reused.
type memoryData struct {
	mu     sync.Mutex
	users  map[string]user
	notes  map[string][]core.Note
	nextID int64
}

func newMemoryData() *memoryData {
	return &memoryData{
		users: make(map[string]user),
		notes: make(map[string][]core.Note),
	}
}

func (d *memoryData) addUser(u user) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[u.Email]; ok {
		return errUserExists
	}
	d.users[u.Email] = u
	return nil
}

func (d *memoryData) user(email string) (user, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[email]
	if !ok {
		return user{}, errUserNotFound
	}
	return u, nil
}

func (d *memoryData) list(owner string) []core.Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := slices.Clone(d.notes[owner])
	if list == nil {
		list = []core.Note{}
	}
	return list
}

func (d *memoryData) create(owner, title, content string) core.Note {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	n := core.Note{ID: d.nextID, Title: title, Content: content}
	d.notes[owner] = append(d.notes[owner], n)
	return n
}

func (d *memoryData) remove(owner string, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.notes[owner]
	i := slices.IndexFunc(list, func(n core.Note) bool { return n.ID == id })
	if i < 0 {
		return core.ErrNoteNotFound
	}
	d.notes[owner] = slices.Delete(list, i, i+1)
	return nil
}
