package cli

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/scigolib/bibindex/internal/config"
)

// dumpCmd is a debugging tool, not present in the original design: it
// hex-dumps a slice of any bibindex-managed file, the same way the
// scigolib-hdf5 toolchain's own dump utility inspects its files.
func dumpCmd(cfg config.Config) *Command {
	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	offset := flags.Int64("offset", 0, "Offset in file to start dumping from")
	length := flags.Int("length", 128, "Number of bytes to dump")

	return &Command{
		Name:  "dump",
		Usage: "[--offset N] [--length N] <file>",
		Short: "Hex-dump a slice of a store file (debugging aid)",
		Flags: flags,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: bibindex dump [--offset N] [--length N] <file>")
			}
			return hexDump(o, args[0], *offset, *length)
		},
	}
}

func hexDump(o *IO, path string, offset int64, length int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dump: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("dump: stat %s: %w", path, err)
	}
	fileSize := info.Size()

	if offset < 0 || offset >= fileSize {
		return fmt.Errorf("dump: invalid offset %d (file size %d)", offset, fileSize)
	}
	if length < 1 {
		return fmt.Errorf("dump: invalid length %d", length)
	}

	remaining := fileSize - offset
	readLength := int64(length)
	if readLength > remaining {
		readLength = remaining
		o.Printf("warning: requested length %d exceeds available bytes (%d); dumping %d bytes.\n", length, remaining, readLength)
	}

	buf := make([]byte, readLength)
	n, err := f.ReadAt(buf, offset)
	if err != nil && n == 0 {
		return fmt.Errorf("dump: read %s at %d: %w", path, offset, err)
	}

	o.Printf("Dumping %d bytes at offset 0x%x (%d) of %s (size: %d bytes):\n", n, offset, offset, path, fileSize)

	for i := 0; i < n; i += 16 {
		end := i + 16
		if end > n {
			end = n
		}
		chunk := buf[i:end]

		o.Printf("%08x: ", offset+int64(i))
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				o.Printf("%02x ", chunk[j])
			} else {
				o.Printf("   ")
			}
			if j == 7 {
				o.Printf(" ")
			}
		}
		o.Printf(" |")
		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				o.Printf("%c", b)
			} else {
				o.Printf(".")
			}
		}
		o.Println("|")
	}

	return nil
}
