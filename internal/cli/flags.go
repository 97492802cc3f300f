package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type flagKind int

const (
	boolFlag flagKind = iota
	valueFlag
)

// flagDef declares one command flag. The last name is the canonical one
// used as the key in parsed values.
type flagDef struct {
	names []string
	kind  flagKind
}

func (d flagDef) key() string {
	return d.names[len(d.names)-1]
}

// commandFlags holds the result of parseFlags.
type commandFlags struct {
	values     map[string]string
	positional []string
}

// parseFlags parses command flags in "--name value", "--name=value" and
// bare boolean forms. Flags and positional arguments may be interleaved;
// everything after -- is positional. A lone "-" is positional (stdin).
func parseFlags(args []string, defs []flagDef) (*commandFlags, error) {
	byName := make(map[string]flagDef)
	for _, d := range defs {
		for _, n := range d.names {
			byName[n] = d
		}
	}

	f := &commandFlags{values: make(map[string]string)}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			f.positional = append(f.positional, args[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			f.positional = append(f.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		def, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown flag: %s", name)
		}

		switch def.kind {
		case boolFlag:
			if !hasValue {
				value = "true"
			}
			if _, err := strconv.ParseBool(value); err != nil {
				return nil, fmt.Errorf("invalid value %q for %s: expected true or false", value, name)
			}
		case valueFlag:
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("%s requires a value", name)
				}
				i++
				value = args[i]
			}
		}
		f.values[def.key()] = value
	}
	return f, nil
}

func (f *commandFlags) str(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *commandFlags) boolean(key string) (bool, bool) {
	v, ok := f.values[key]
	if !ok {
		return false, false
	}
	b, _ := strconv.ParseBool(v)
	return b, true
}

func (f *commandFlags) integer(key string) (int64, bool, error) {
	v, ok := f.values[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("invalid value %q for %s: expected an integer", v, key)
	}
	return n, true, nil
}
