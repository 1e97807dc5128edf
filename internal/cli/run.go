package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/scigolib/bibindex/internal/config"
)

// Run is bibindex's entry point. Returns a process exit code.
func Run(out, errOut io.Writer, args []string, workDir string) int {
	globalFlags := flag.NewFlagSet("bibindex", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagHashFile := globalFlags.String("hash-file", "", "Override the record (hash) file `path`")
	flagIDTree := globalFlags.String("id-tree", "", "Override the primary index file `path`")
	flagTitleTree := globalFlags.String("title-tree", "", "Override the secondary index file `path`")
	flagBlockSize := globalFlags.Int("block-size", 0, "Override the ioblock block `size` in bytes, for newly created files")
	flagDataDir := globalFlags.String("data-dir", "", "Resolve relative hash-file/id-tree/title-tree paths under this `dir`")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)
		return 2
	}

	cfg, err := config.Load(workDir, *flagConfig, config.Overrides{
		HashFile:  *flagHashFile,
		IDTree:    *flagIDTree,
		TitleTree: *flagTitleTree,
		BlockSize: *flagBlockSize,
		DataDir:   *flagDataDir,
	}, os.Environ())
	if err != nil {
		fprintln(errOut, "error:", err)
		return 2
	}

	// Relative store paths are resolved against workDir.
	for _, p := range []*string{&cfg.HashFile, &cfg.IDTree, &cfg.TitleTree} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(workDir, *p)
		}
	}

	commands := allCommands(cfg)
	commandMap := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name] = cmd
	}

	rest := globalFlags.Args()

	if *flagHelp || len(rest) == 0 {
		printUsage(out, commands)
		if len(rest) == 0 && !*flagHelp {
			return 2
		}
		return 0
	}

	cmdName := rest[0]
	cmd, ok := commandMap[cmdName]
	if !ok {
		fprintln(errOut, "error: unknown command:", cmdName)
		printUsage(errOut, commands)
		return 2
	}

	return cmd.Run(context.Background(), NewIO(out, errOut), rest[1:])
}

const globalOptionsHelp = `  -h, --help               Show help
  -c, --config <file>      Use specified config file
  --hash-file <path>       Override the record (hash) file path
  --id-tree <path>         Override the primary index file path
  --title-tree <path>      Override the secondary index file path
  --block-size <size>      Override the ioblock block size in bytes, for newly created files
  --data-dir <dir>         Resolve relative hash-file/id-tree/title-tree paths under this dir`

func printGlobalOptions(w io.Writer) {
	fprintln(w, "Usage: bibindex [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, globalOptionsHelp)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, "bibindex - bibliographic article record store")
	fprintln(w)
	fprintln(w, "Usage: bibindex [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Flags:")
	fprintln(w, globalOptionsHelp)
	fprintln(w)
	fprintln(w, "Commands:")
	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
