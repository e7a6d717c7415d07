// Command bearimy creates, inspects and edits map files.
//
// Usage:
//
//	bearimy [--config dir] [--logLevel level] <command> [flags] [map]
//
// Commands:
//
//	new       write the default map
//	info      describe a map
//	fmt       rewrite a map in canonical form
//	scale     scale a map to a bounding size
//	recenter  center a map on the origin
//	rotate    change which control point comes first
//	sample    print evenly spaced points along a map's curve
//	walk      print the positions of an object moving along a map's curve
//	levels    check that every level in a level list loads
//	edit      edit a map in the terminal
//
// The map argument defaults to the mapPath setting.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/Waridley/bearimy"
	"github.com/Waridley/bearimy/internal/config"
	"github.com/Waridley/bearimy/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

type command struct {
	name  string
	short string
	run   func(env *env, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"new", "write the default map", runNew},
		{"info", "describe a map", runInfo},
		{"fmt", "rewrite a map in canonical form", runFmt},
		{"scale", "scale a map to a bounding size", runScale},
		{"recenter", "center a map on the origin", runRecenter},
		{"rotate", "change which control point comes first", runRotate},
		{"sample", "print evenly spaced points along a map's curve", runSample},
		{"walk", "print the positions of an object moving along a map's curve", runWalk},
		{"levels", "check that every level in a level list loads", runLevels},
		{"edit", "edit a map in the terminal", runEdit},
	}
}

// env is what every command gets to work with.
type env struct {
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("bearimy", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	configDir := global.String("config", ".", "directory containing "+config.FileName)
	global.String("logLevel", "info", "log level (trace, debug, info, warn, error, off)")
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := config.Load(*configDir); err != nil {
		fmt.Fprintln(stderr, "bearimy:", err)
		return 1
	}
	if err := config.BindFlags(global); err != nil {
		fmt.Fprintln(stderr, "bearimy:", err)
		return 1
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr, global)
		return 2
	}
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == rest[0] })
	if i < 0 {
		fmt.Fprintf(stderr, "bearimy: unknown command %q\n", rest[0])
		usage(stderr, global)
		return 2
	}
	cmd := commands[i]

	e := &env{
		stdout: stdout,
		stderr: stderr,
		log:    logging.New(stderr, config.GetString("logLevel"), false),
	}
	bearimy.SetLogger(e.log)
	defer bearimy.SetLogger(zerolog.Nop())
	if f := config.ConfigFile(); f != "" {
		e.log.Debug().Str("file", f).Msg("read config")
	}

	if err := cmd.run(e, rest[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "bearimy %s: %s\n", cmd.name, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: bearimy [flags] <command> [command flags] [map]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	width := 0
	for _, c := range commands {
		width = max(width, len(c.name))
	}
	for _, c := range commands {
		fmt.Fprintf(w, "  %-*s  %s\n", width, c.name, c.short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, global.FlagUsages())
}

// flagSet returns a flag set for a subcommand that reports errors to e.
func (e *env) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bearimy "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse parses args and binds the flags to the config, then returns the
// single optional map path argument.
func (e *env) parse(fs *pflag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if err := config.BindFlags(fs); err != nil {
		return "", err
	}
	switch fs.NArg() {
	case 0:
		return config.GetString("mapPath"), nil
	case 1:
		return fs.Arg(0), nil
	default:
		fmt.Fprintf(e.stderr, "%s: unexpected arguments: %s\n", fs.Name(), strings.Join(fs.Args()[1:], " "))
		return "", errUsage
	}
}
