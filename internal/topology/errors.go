package topology

import (
	"fmt"
	"strings"
)

// UnknownSelectionError reports a selection token that matches neither a
// service name nor a group name. It aborts the whole invocation: there is
// nothing useful to do with a selection the deployment does not contain.
type UnknownSelectionError struct {
	Token string
	Known []string
}

func (e *UnknownSelectionError) Error() string {
	return fmt.Sprintf("unknown service or group %q (known: %s)", e.Token, strings.Join(e.Known, ", "))
}
