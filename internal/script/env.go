package script

import (
	"fmt"
	"sort"
	"strings"
)

// Environment holds script variables.
type Environment struct {
	vars map[string]string
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]string)}
}

func (e *Environment) Get(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Environment) Set(name, val string) {
	e.vars[name] = val
}

func (e *Environment) String() string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%q", n, e.vars[n])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
