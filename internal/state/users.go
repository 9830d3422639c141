package state

import "github.com/zhubert/simplechat/internal/protocol"

// UserList is the ordered list of tracked users plus the multi-selection.
// The tracked id set and the rendered list are the same data, so they can
// never drift apart.
type UserList struct {
	users    []protocol.User
	tracked  map[protocol.ID]struct{}
	selected map[protocol.ID]struct{}
}

func NewUserList() *UserList {
	return &UserList{
		tracked:  make(map[protocol.ID]struct{}),
		selected: make(map[protocol.ID]struct{}),
	}
}

// AddUser appends a user unless it is already tracked. It reports whether
// the list changed.
func (l *UserList) AddUser(u protocol.User) bool {
	if _, ok := l.tracked[u.UserID]; ok {
		return false
	}
	l.tracked[u.UserID] = struct{}{}
	l.users = append(l.users, u)
	return true
}

// RemoveUser drops a user and its selection. Unknown ids are ignored.
func (l *UserList) RemoveUser(id protocol.ID) bool {
	if _, ok := l.tracked[id]; !ok {
		return false
	}
	delete(l.tracked, id)
	delete(l.selected, id)
	for i, u := range l.users {
		if u.UserID == id {
			l.users = append(l.users[:i], l.users[i+1:]...)
			break
		}
	}
	return true
}

// AddUsers appends users in order. With clear the list and the selection are
// emptied first.
func (l *UserList) AddUsers(users []protocol.User, clear bool) {
	if clear {
		l.Clear()
	}
	for _, u := range users {
		l.AddUser(u)
	}
}

// Clear empties the list and the selection.
func (l *UserList) Clear() {
	l.users = nil
	clear(l.tracked)
	clear(l.selected)
}

func (l *UserList) Has(id protocol.ID) bool {
	_, ok := l.tracked[id]
	return ok
}

func (l *UserList) Len() int { return len(l.users) }

// Users returns the tracked users in display order.
func (l *UserList) Users() []protocol.User {
	out := make([]protocol.User, len(l.users))
	copy(out, l.users)
	return out
}

// At returns the user at display position i.
func (l *UserList) At(i int) (protocol.User, bool) {
	if i < 0 || i >= len(l.users) {
		return protocol.User{}, false
	}
	return l.users[i], true
}

// IDs returns the tracked ids in display order.
func (l *UserList) IDs() []protocol.ID {
	out := make([]protocol.ID, 0, len(l.users))
	for _, u := range l.users {
		out = append(out, u.UserID)
	}
	return out
}

// ToggleSelected flips the selection of a tracked user and returns the new
// state. Untracked ids are never selected.
func (l *UserList) ToggleSelected(id protocol.ID) bool {
	if !l.Has(id) {
		return false
	}
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return false
	}
	l.selected[id] = struct{}{}
	return true
}

func (l *UserList) IsSelected(id protocol.ID) bool {
	_, ok := l.selected[id]
	return ok
}

func (l *UserList) HasSelection() bool { return len(l.selected) > 0 }

// Selected returns the selected ids in display order.
func (l *UserList) Selected() []protocol.ID {
	var out []protocol.ID
	for _, u := range l.users {
		if _, ok := l.selected[u.UserID]; ok {
			out = append(out, u.UserID)
		}
	}
	return out
}

func (l *UserList) ClearSelection() { clear(l.selected) }

// PageNumber is the next page to request when scrolling: ceil(n/10 + 1).
func (l *UserList) PageNumber() int {
	n := len(l.users)
	if n%PerPage == 0 {
		return n/PerPage + 1
	}
	return n/PerPage + 2
}
