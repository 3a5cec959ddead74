package domain

// Command is a child process invocation handed to the executor.
type Command struct {
	// Argv is the program and its arguments. Argv[0] is resolved against
	// PATH unless absolute.
	Argv []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra environment variables layered over the allow-listed
	// system environment.
	Env map[string]string
}

// Program returns the executable name, or "" for an empty command.
func (c *Command) Program() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}
