package root

import (
	"fmt"
	"strings"

	"emberline/internal/engine"
)

// shortID abbreviates an id for display. Restored archives may carry ids
// shorter than the usual uuid, so never slice past the end.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTask accepts a full id, a unique id prefix, or a case-insensitive
// habit name.
func resolveTask(sess *engine.Session, ref string) (*engine.Task, error) {
	if t, err := sess.Task(ref); err == nil {
		return t, nil
	}

	tasks := sess.Tasks()
	var byPrefix []*engine.Task
	for i := range tasks {
		if strings.EqualFold(tasks[i].Name, ref) {
			return &tasks[i], nil
		}
		if strings.HasPrefix(tasks[i].ID, ref) {
			byPrefix = append(byPrefix, &tasks[i])
		}
	}
	switch len(byPrefix) {
	case 1:
		return byPrefix[0], nil
	case 0:
		return nil, fmt.Errorf("no habit matches %q", ref)
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d habits match)", ref, len(byPrefix))
	}
}
