package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

var yesAnswers = []string{"y", "yes"}

// Confirmer asks before an existing output file is replaced.
type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

// DefaultConfirmer reads from stdin and asks only when stdin is a terminal.
func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:            os.Stdin,
		Out:           os.Stdout,
		IsInteractive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// ConfirmOverwrite reports whether path may be replaced. force skips the
// question; a non-interactive stdin without force is an error.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	switch {
	case force:
		return true, nil
	case c.IsInteractive == nil || !c.IsInteractive():
		return false, fmt.Errorf("%s already exists and stdin is not interactive: pass --yes to overwrite", path)
	}

	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s already exists. Overwrite? [y/N]: ", path)
	}
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return slices.Contains(yesAnswers, strings.ToLower(strings.TrimSpace(line))), nil
}
