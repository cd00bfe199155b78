// Package flagx lets several components parse their own flags out of one
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Known lists the flags a component owns. Values take an argument; Bools
// do not (unless given as -flag=value).
type Known struct {
	Values []string
	Bools  []string
}

func name(arg string) string {
	return "-" + strings.TrimLeft(arg, "-")
}

// Select returns the subset of args belonging to k, in order, ready for a
// flag.FlagSet. "-x v", "--x v", "-x=v" and "--x=v" are all accepted and
// names are matched without regard to the number of leading dashes.
// Everything after a bare "--" is ignored.
func Select(args []string, k Known) []string {
	values := make(map[string]struct{}, len(k.Values))
	for _, f := range k.Values {
		values[name(f)] = struct{}{}
	}
	bools := make(map[string]struct{}, len(k.Bools))
	for _, f := range k.Bools {
		bools[name(f)] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if n, _, ok := strings.Cut(arg, "="); ok {
			_, v := values[name(n)]
			_, b := bools[name(n)]
			if v || b {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := bools[name(arg)]; ok {
			out = append(out, arg)
			continue
		}
		if _, ok := values[name(arg)]; ok {
			out = append(out, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				out = append(out, args[i+1])
				i++
			}
		}
	}
	return out
}

// ConfigPath returns the JSON config file given with -c or -config, the
// last one winning, or "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Select(args, Known{Values: []string{"-c", "-config"}}))

	return path
}
