package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/scigolib/bibindex/internal/config"
	"github.com/scigolib/bibindex/internal/index"
	"github.com/scigolib/bibindex/internal/ingest"
)

// shellCmd is a supplemental command, not present in the original
// design: an interactive REPL wrapping findrec/seek1/seek2 so a user
// can issue several queries against one store from a single process.
// Each query still opens the index and record files afresh. Modeled on
// the sloty REPL's liner-driven command loop.
func shellCmd(cfg config.Config) *Command {
	return &Command{
		Name:  "shell",
		Short: "Interactive REPL for repeated findrec/seek1/seek2 queries",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("usage: bibindex shell")
			}
			return runShell(o, cfg)
		},
	}
}

type shell struct {
	cfg   config.Config
	o     *IO
	liner *liner.State
}

func runShell(o *IO, cfg config.Config) error {
	s := &shell{cfg: cfg, o: o}
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFilePath()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	o.Println("bibindex shell - type 'help' for commands, 'exit' to quit")
	o.Println()

	for {
		line, err := s.liner.Prompt("bibindex> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				o.Println("\nBye!")
				break
			}
			return fmt.Errorf("shell: reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			o.Println("Bye!")
			s.saveHistory()
			return nil
		case "help", "?":
			s.printHelp()
		case "findrec":
			s.cmdFindrec(args)
		case "seek1":
			s.cmdSeek1(args)
		case "seek2":
			s.cmdSeek2(args)
		case "upload":
			s.cmdUpload(args)
		case "stats":
			s.cmdStats(args)
		default:
			o.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()
	return nil
}

func (s *shell) printHelp() {
	s.o.Println("Commands:")
	s.o.Println("  upload <csv-file> build the record file and both indexes from a CSV dump")
	s.o.Println("  findrec <id>      fetch by id via direct offset computation")
	s.o.Println("  seek1 <id>        fetch by id via the primary index")
	s.o.Println("  seek2 <title>     fetch by title via the secondary index")
	s.o.Println("  stats             show block-I/O statistics for both indexes")
	s.o.Println("  help              show this message")
	s.o.Println("  exit              leave the shell")
}

func (s *shell) cmdFindrec(args []string) {
	if len(args) != 1 {
		s.o.Println("usage: findrec <id>")
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		s.o.Println("invalid id:", args[0])
		return
	}
	result, err := ingest.FindRec(s.cfg.HashFile, s.cfg.BlockSize, id)
	if err != nil {
		s.o.Printf("Record with id %d was not found.\n", id)
		return
	}
	printFound(s.o, result)
}

func (s *shell) cmdSeek1(args []string) {
	if len(args) != 1 {
		s.o.Println("usage: seek1 <id>")
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		s.o.Println("invalid id:", args[0])
		return
	}
	result, err := ingest.Seek1(toPaths(s.cfg), id)
	if err != nil {
		s.o.Printf("Record with id %d was not found in the primary index.\n", id)
		return
	}
	printFound(s.o, result)
}

func (s *shell) cmdSeek2(args []string) {
	if len(args) != 1 {
		s.o.Println("usage: seek2 <title>")
		return
	}
	result, err := ingest.Seek2(toPaths(s.cfg), args[0])
	if err != nil {
		s.o.Printf("Record with title %q was not found in the secondary index.\n", args[0])
		return
	}
	printFound(s.o, result)
}

func (s *shell) cmdUpload(args []string) {
	if len(args) != 1 {
		s.o.Println("usage: upload <csv-file>")
		return
	}

	f, err := os.Open(args[0])
	if err != nil {
		s.o.Println("Could not open the input file.")
		s.o.Printf("Path: %q\n", args[0])
		return
	}
	defer f.Close()

	s.o.Printf("Record file block size: %d bytes\n\n", s.cfg.BlockSize)
	s.o.Println("Starting upload...")

	report, err := ingest.Upload(toPaths(s.cfg), f, func(count int) {
		s.o.Printf("%d records read so far.\n", count)
	})
	if err != nil {
		s.o.Println("Upload failed:", err)
		return
	}

	s.o.Println()
	s.o.Println("Upload finished.")
	s.o.Printf("%d record(s) read in total.\n\n", report.EntriesRead)
	s.o.Printf("Hash file:          %d blocks.\n", report.HashFileBlockCount)
	s.o.Printf("Primary index:      %d blocks.\n", report.IDTreeStats.BlocksCreated)
	s.o.Printf("Secondary index:    %d blocks.\n", report.TitleTreeStats.BlocksCreated)
}

func (s *shell) cmdStats(args []string) {
	if len(args) != 0 {
		s.o.Println("usage: stats")
		return
	}

	idIdx, err := index.NewIDIndexWithBlockSize(s.cfg.BlockSize)
	if err != nil {
		s.o.Println("Could not open the primary index:", err)
		return
	}
	if err := idIdx.Load(s.cfg.IDTree); err != nil {
		s.o.Println("Could not open the primary index:", err)
		return
	}
	defer idIdx.Close()

	titleIdx, err := index.NewTitleIndexWithBlockSize(s.cfg.BlockSize)
	if err != nil {
		s.o.Println("Could not open the secondary index:", err)
		return
	}
	if err := titleIdx.Load(s.cfg.TitleTree); err != nil {
		s.o.Println("Could not open the secondary index:", err)
		return
	}
	defer titleIdx.Close()

	idStats, err := idIdx.Statistics(true)
	if err != nil {
		s.o.Println("Could not read primary index statistics:", err)
		return
	}
	titleStats, err := titleIdx.Statistics(true)
	if err != nil {
		s.o.Println("Could not read secondary index statistics:", err)
		return
	}

	s.o.Println("Primary index (id):")
	s.o.Printf("  blocks on disk : %d\n", idStats.BlocksInDisk)
	s.o.Printf("  blocks created : %d\n", idStats.BlocksCreated)
	s.o.Printf("  blocks read    : %d\n", idStats.BlocksRead)
	s.o.Println("Secondary index (title):")
	s.o.Printf("  blocks on disk : %d\n", titleStats.BlocksInDisk)
	s.o.Printf("  blocks created : %d\n", titleStats.BlocksCreated)
	s.o.Printf("  blocks read    : %d\n", titleStats.BlocksRead)
}

func (s *shell) completer(line string) []string {
	commands := []string{"upload", "findrec", "seek1", "seek2", "stats", "help", "exit"}
	var matches []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			matches = append(matches, c)
		}
	}
	return matches
}

func (s *shell) saveHistory() {
	if path := historyFilePath(); path != "" {
		if f, err := os.Create(path); err == nil {
			s.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bibindex_history")
}
