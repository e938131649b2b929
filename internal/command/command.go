package command

import (
	"os/exec"
	"strings"
)

// Run runs the given command using the given working directory. The combined
// stdout/stderr text is returned with leading and trailing whitespace removed,
// whether or not the command succeeds.
func Run(dir, command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
