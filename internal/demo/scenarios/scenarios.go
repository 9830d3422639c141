// Package scenarios contains built-in demo scenarios for simplechat.
package scenarios

import "github.com/zhubert/simplechat/internal/demo"

// All returns every built-in scenario.
func All() []*demo.Scenario {
	return []*demo.Scenario{Basic, Contacts}
}

// Get returns the scenario with the given name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
