package config

import (
	"fmt"
	"slices"
	"strings"
)

// Required reports every empty value in vars, keyed by env name.
func Required(vars map[string]string) error {
	var missing []string
	for name, v := range vars {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
}
