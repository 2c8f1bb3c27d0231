// Command stateql is the CLI entrypoint: parse options with go-flags, open a
// connection for the chosen --dialect, read the desired schema from a file
// or stdin, and run the orchestrator in dry-run, apply, or export mode.
//
// Grounded on sqldef's cmd/psqldef/psqldef.go (go-flags option struct,
// --password-prompt via golang.org/x/term, file-or-stdin schema reading) and
// database/mysql/parser.go's use of k0kubun/pp for structural debug
// printing, extended here to gate colorized output behind
// mattn/go-isatty/go-colorable the way pp itself does internally. Unlike
// sqldef's four separate per-dialect binaries, this merges them behind one
// --dialect flag since all four dialects already live in one module here.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/sqldef/stateql/dialect"
	"github.com/sqldef/stateql/dialect/mssql"
	"github.com/sqldef/stateql/dialect/mysql"
	"github.com/sqldef/stateql/dialect/postgres"
	"github.com/sqldef/stateql/dialect/sqlite"
	"github.com/sqldef/stateql/orchestrate"
	"github.com/sqldef/stateql/stateconfig"
)

var version string

type cliOptions struct {
	Dialect  string `long:"dialect" description:"Target database: postgres, mysql, sqlite, mssql" required:"true"`
	User     string `short:"U" long:"user" description:"Database user name" value-name:"username"`
	Password string `short:"W" long:"password" description:"Database user password" value-name:"password"`
	Prompt   bool   `long:"password-prompt" description:"Force an interactive password prompt"`
	Host     string `short:"h" long:"host" description:"Host or socket directory to connect to" value-name:"hostname" default:"127.0.0.1"`
	Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port"`
	Socket   string `short:"S" long:"socket" description:"Unix domain socket path"`
	File     string `short:"f" long:"file" description:"Read desired schema SQL from the file, rather than stdin" value-name:"filename" default:"-"`
	Config   string `long:"config" description:"YAML runtime config file (enable_drop, target_tables, ...)" value-name:"filename"`
	DryRun   bool   `long:"dry-run" description:"Don't run DDLs, just print them"`
	Export   bool   `long:"export" description:"Dump the current schema to stdout instead of diffing"`
	SkipDrop bool   `long:"skip-drop" description:"Skip destructive changes such as DROP"`
	Debug    bool   `long:"debug" description:"Pretty-print the resolved dialect, mode and file, then the run result, to stderr"`
	NoColor  bool   `long:"no-color" description:"Disable colorized --debug output even on a terminal"`
	Help     bool   `long:"help" description:"Show this help"`
	Version  bool   `long:"version" description:"Show this version"`
}

func main() {
	opts, database := parseOptions(os.Args[1:])

	d, err := dialectFor(opts.Dialect)
	if err != nil {
		log.Fatal(err)
	}

	password := opts.Password
	if opts.Prompt {
		fmt.Fprint(os.Stderr, "Enter Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
		password = string(raw)
	}

	cfg := dialect.ConnectionConfig{
		Host:     opts.Host,
		Port:     int(opts.Port),
		User:     opts.User,
		Password: password,
		Database: database,
		Socket:   opts.Socket,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	adapter, err := d.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	desiredSQL, err := readSchema(opts.File)
	if err != nil {
		log.Fatal(err)
	}

	runtimeCfg, err := stateconfig.Parse(opts.Config)
	if err != nil {
		log.Fatal(err)
	}

	mode := orchestrate.DryRun
	switch {
	case opts.Export:
		mode = orchestrate.Export
	case !opts.DryRun:
		mode = orchestrate.Apply
	}

	enableDrop := runtimeCfg.EnableDrop && !opts.SkipDrop

	if opts.Debug {
		debugPrinter(opts.NoColor).Println(map[string]any{
			"dialect": d.Name(),
			"mode":    mode,
			"file":    opts.File,
		})
	}

	result, err := orchestrate.Run(ctx, d, adapter, desiredSQL, orchestrate.Options{
		Mode:             mode,
		EnableDrop:       enableDrop,
		SchemaSearchPath: runtimeCfg.SchemaSearchPath,
	})
	if err != nil {
		log.Fatal(err)
	}

	if opts.Debug {
		debugPrinter(opts.NoColor).Println(result)
	}

	switch mode {
	case orchestrate.Export:
		fmt.Print(result.ExportSql)
	case orchestrate.DryRun:
		fmt.Print(result.DryRunSql)
	case orchestrate.Apply:
		if result.Applied {
			fmt.Fprintln(os.Stderr, "Applied.")
		}
	}
}

func dialectFor(name string) (dialect.Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "psql":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	case "mssql", "sqlserver":
		return mssql.New(), nil
	default:
		return nil, fmt.Errorf("unknown --dialect %q (want postgres, mysql, sqlite, or mssql)", name)
	}
}

func parseOptions(args []string) (cliOptions, string) {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "--dialect <postgres|mysql|sqlite|mssql> [option...] db_name"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, "No database is specified!\n\n")
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	if len(rest) > 1 {
		fmt.Fprintf(os.Stderr, "Multiple databases are given: %v\n\n", rest)
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	return opts, rest[0]
}

func readSchema(file string) (string, error) {
	if file == "" || file == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(file)
	return string(b), err
}

// debugPrinter routes k0kubun/pp's output through a colorable stderr writer
// when one is attached to a terminal, and disables color outright otherwise
// (redirected to a file, piped into another process, or --no-color), the
// same terminal-detection pp itself does internally via go-isatty.
func debugPrinter(noColor bool) *pp.PrettyPrinter {
	p := pp.New()
	p.SetOutput(colorable.NewColorableStderr())
	p.SetColoringEnabled(!noColor && isatty.IsTerminal(os.Stderr.Fd()))
	return p
}
