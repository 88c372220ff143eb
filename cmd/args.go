package cmd

import (
	"time"

	"github.com/spf13/cast"
)

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments
	Raw []string
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "size"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "s")
	Type        string `json:"type"`              // "string", "bool", "int", "time"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}

// Has reports whether the flag was given or has a default.
func (a *CommandArgs) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}

func (a *CommandArgs) String(name string) string {
	return cast.ToString(a.Flags[name])
}

func (a *CommandArgs) Int(name string) int {
	return cast.ToInt(a.Flags[name])
}

func (a *CommandArgs) Int64(name string) int64 {
	return cast.ToInt64(a.Flags[name])
}

func (a *CommandArgs) Bool(name string) bool {
	return cast.ToBool(a.Flags[name])
}

// Time returns a time flag; unset flags yield the zero time.
func (a *CommandArgs) Time(name string) time.Time {
	if !a.Has(name) {
		return time.Time{}
	}
	return cast.ToTime(a.Flags[name])
}

// Path returns the first positional argument.
func (a *CommandArgs) Path() (string, bool) {
	if len(a.Args) == 0 {
		return "", false
	}
	return a.Args[0], true
}
