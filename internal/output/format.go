package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/isometry/fwboot/pkg/bootstrap"
)

// Formatter converts a bootstrap result to formatted output bytes.
type Formatter interface {
	Format(result *bootstrap.Result, cfg Config) ([]byte, error)
}

var (
	formatters = make(map[string]Formatter)
	mu         sync.RWMutex
)

// RegisterFormatter registers a formatter by name.
// Called from init() in each formatter file.
func RegisterFormatter(name string, f Formatter) {
	mu.Lock()
	defer mu.Unlock()
	formatters[name] = f
}

// GetFormatter returns the formatter for the given name.
func GetFormatter(name string) (Formatter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := formatters[name]
	return f, ok
}

// FormatNames returns a sorted list of registered format names.
func FormatNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Print formats result and writes it to w followed by a newline.
func Print(w io.Writer, result *bootstrap.Result, cfg Config) error {
	formatter, ok := GetFormatter(cfg.Format)
	if !ok {
		return fmt.Errorf("unknown output format %q (available: %s)", cfg.Format, strings.Join(FormatNames(), ", "))
	}

	out, err := formatter.Format(result, cfg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
