// Package flagx helps several packages parse their own command-line flags
// from a shared os.Args without tripping over each other's definitions.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Keep returns the subset of args belonging to the given flag names, so a
// flag.FlagSet can parse them without erroring on flags it does not define.
// Both "-name value" and "-name=value" forms are recognized.
func Keep(args []string, names []string) []string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := wanted[name]; ok {
				kept = append(kept, arg)
			}
			continue
		}

		if _, ok := wanted[arg]; ok {
			kept = append(kept, arg)
			// the following token is this flag's value unless it is a flag itself
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				kept = append(kept, args[i+1])
				i++
			}
		}
	}
	return kept
}

// ConfigFile extracts the config file path given via -c or -config, ignoring
// every other argument. Returns "" when neither flag is present.
func ConfigFile() string {
	var path string

	fs := flag.NewFlagSet("configfile", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Keep(os.Args[1:], []string{"-c", "-config"}))

	return path
}
