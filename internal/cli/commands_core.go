package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/scigolib/bibindex/internal/config"
	"github.com/scigolib/bibindex/internal/ingest"
)

func toPaths(cfg config.Config) ingest.Paths {
	return ingest.Paths{
		HashFile:  cfg.HashFile,
		IDTree:    cfg.IDTree,
		TitleTree: cfg.TitleTree,
		BlockSize: cfg.BlockSize,
	}
}

func allCommands(cfg config.Config) []*Command {
	return []*Command{
		uploadCmd(cfg),
		findrecCmd(cfg),
		seek1Cmd(cfg),
		seek2Cmd(cfg),
		shellCmd(cfg),
		dumpCmd(cfg),
	}
}

func uploadCmd(cfg config.Config) *Command {
	return &Command{
		Name:           "upload",
		Usage:          "<csv-file>",
		Short:          "Build the record file and both indexes from a CSV dump",
		AlwaysExitZero: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				o.ErrPrintln("usage: bibindex upload <csv-file>")
				return nil
			}

			f, err := os.Open(args[0])
			if err != nil {
				o.Println("Could not open the input file.")
				o.Printf("Path: %q\n", args[0])
				return nil
			}
			defer f.Close()

			o.Printf("Record file block size: %d bytes\n\n", cfg.BlockSize)
			o.Println("Starting upload...")

			report, err := ingest.Upload(toPaths(cfg), f, func(count int) {
				o.Printf("%d records read so far.\n", count)
			})
			if err != nil {
				o.Println("Upload failed:", err)
				return nil
			}

			o.Println()
			o.Println("Upload finished.")
			o.Printf("%d record(s) read in total.\n\n", report.EntriesRead)
			o.Printf("Hash file:          %d blocks.\n", report.HashFileBlockCount)
			o.Printf("Primary index:      %d blocks.\n", report.IDTreeStats.BlocksCreated)
			o.Printf("Secondary index:    %d blocks.\n", report.TitleTreeStats.BlocksCreated)
			return nil
		},
	}
}

func findrecCmd(cfg config.Config) *Command {
	return &Command{
		Name:           "findrec",
		Usage:          "<id>",
		Short:          "Fetch an entry by id via the direct perfect-hash offset",
		AlwaysExitZero: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				o.ErrPrintln("usage: bibindex findrec <id>")
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				o.Println("Invalid id:", args[0])
				return nil
			}

			result, err := ingest.FindRec(cfg.HashFile, cfg.BlockSize, id)
			if err != nil {
				o.Printf("Record with id %d was not found.\n", id)
				return nil
			}

			printFound(o, result)
			return nil
		},
	}
}

func seek1Cmd(cfg config.Config) *Command {
	return &Command{
		Name:           "seek1",
		Usage:          "<id>",
		Short:          "Fetch an entry by id via the primary index",
		AlwaysExitZero: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				o.ErrPrintln("usage: bibindex seek1 <id>")
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				o.Println("Invalid id:", args[0])
				return nil
			}

			result, err := ingest.Seek1(toPaths(cfg), id)
			if err != nil {
				o.Printf("Record with id %d was not found in the primary index.\n", id)
				return nil
			}

			printFound(o, result)
			return nil
		},
	}
}

func seek2Cmd(cfg config.Config) *Command {
	return &Command{
		Name:           "seek2",
		Usage:          "<title>",
		Short:          "Fetch an entry by title via the secondary index",
		AlwaysExitZero: true,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				o.ErrPrintln("usage: bibindex seek2 <title>")
				return nil
			}

			result, err := ingest.Seek2(toPaths(cfg), args[0])
			if err != nil {
				o.Printf("Record with title %q was not found in the secondary index.\n", args[0])
				return nil
			}

			printFound(o, result)
			return nil
		},
	}
}

func parseID(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

func printFound(o *IO, result ingest.QueryResult) {
	e := result.Entry
	o.Println("Record found:")
	o.Println()
	o.Printf("id        : %d\n", e.ID)
	o.Printf("title     : %s\n", e.TitleString())
	o.Printf("year      : %d\n", e.Year)
	o.Printf("authors   : %s\n", e.AuthorsString())
	o.Printf("citations : %d\n", e.Citations)
	o.Printf("timestamp : %s\n", e.UpdateTimestampString())
	o.Printf("snippet   : %s\n", e.SnippetString())
	o.Println()

	plural := "s were"
	if result.BlocksRead == 1 {
		plural = " was"
	}
	o.Printf("%d block%s read to find it.\n", result.BlocksRead, plural)
	o.Printf("The file currently holds %d blocks total.\n", result.BlockCount)
}
