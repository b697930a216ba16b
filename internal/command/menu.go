package command

import "sync"

// MenuTools is the menu that generator commands are added to.
const MenuTools = "Tools"

// MenuItem binds a command to a menu and its key bindings.
type MenuItem struct {
	Menu      string   `json:"menu"`
	CommandID string   `json:"command"`
	Keys      []string `json:"keys,omitempty"`
}

// Menu collects menu items in insertion order.
type Menu struct {
	mu    sync.RWMutex
	items []MenuItem
}

// NewMenu returns an empty menu bar.
func NewMenu() *Menu { return &Menu{} }

// AddMenuItem appends a command to menu.
func (m *Menu) AddMenuItem(menu, commandID string, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, MenuItem{Menu: menu, CommandID: commandID, Keys: keys})
}

// Items returns the items of menu.
func (m *Menu) Items(menu string) []MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []MenuItem
	for _, it := range m.items {
		if it.Menu == menu {
			out = append(out, it)
		}
	}
	return out
}

// Binding returns the command bound to key.
func (m *Menu) Binding(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		for _, k := range it.Keys {
			if k == key {
				return it.CommandID, true
			}
		}
	}
	return "", false
}
