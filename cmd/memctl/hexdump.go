package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/mem"
)

var (
	dumpOffset int
	dumpLength int
	dumpChunks bool
)

func init() {
	cmd := newHexdumpCmd()
	cmd.Flags().IntVar(&dumpOffset, "offset", 0, "Start offset into the heap image")
	cmd.Flags().IntVar(&dumpLength, "length", 256, "Number of bytes to dump (0 = to end)")
	cmd.Flags().BoolVar(&dumpChunks, "chunks", false, "Walk boundary tags and list chunks instead of dumping bytes")
	rootCmd.AddCommand(cmd)
}

func newHexdumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hexdump <file>",
		Short: "Dump a heap image file",
		Long: `The hexdump command opens a file-backed heap image (for example one
written by exercise --file) and prints its raw bytes, or with --chunks
walks the boundary tags and lists every chunk with its size and state.

Example:
  memctl exercise --file /tmp/heap.img
  memctl hexdump /tmp/heap.img --offset 0 --length 128
  memctl hexdump /tmp/heap.img --chunks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHexdump(args[0])
		},
	}
}

type chunkLine struct {
	Off   int    `json:"off"`
	Size  int    `json:"size"`
	State string `json:"state"`
	Next  int    `json:"next,omitempty"` // free-list link, free chunks only
}

func runHexdump(path string) error {
	h, err := mem.OpenFile(path, format.PageSize)
	if err != nil {
		return err
	}
	defer h.Close()

	if dumpChunks {
		return dumpChunkWalk(h)
	}
	return dumpBytes(h)
}

// dumpChunkWalk walks boundary tags from the first chunk. A zero tag means
// untouched space past the frontier and ends the walk. The image is
// untrusted, so all raw words go through the tolerant buf readers.
func dumpChunkWalk(h *mem.Heap) error {
	data := h.Bytes()
	var lines []chunkLine

	size, used := format.DecodeTag(buf.U32LE(data))
	if !used || size != format.BaseGuardSize {
		return fmt.Errorf("no base guard at offset 0: not an arena image")
	}
	lines = append(lines, chunkLine{Off: 0, Size: size, State: "guard"})

	for off := format.FirstChunkOffset; off < len(data); {
		size, used := format.DecodeTag(buf.U32LE(data[off:]))
		if size == 0 {
			break
		}
		if size < format.MinChunkSize || off+size > len(data) {
			return fmt.Errorf("bad tag at offset 0x%X: size %d", off, size)
		}
		line := chunkLine{Off: off, Size: size, State: "used"}
		if !used {
			line.State = "free"
			link := data[off+format.TagSize:]
			if len(link) > format.FreeLinkSize {
				link = link[:format.FreeLinkSize]
			}
			line.Next = int(buf.U32LE(link))
		}
		lines = append(lines, line)
		off += size
	}

	if jsonOut {
		return printJSON(lines)
	}
	for _, l := range lines {
		if l.State == "free" {
			printInfo("0x%08X  %6d  %s  next=0x%X\n", l.Off, l.Size, l.State, l.Next)
			continue
		}
		printInfo("0x%08X  %6d  %s\n", l.Off, l.Size, l.State)
	}
	printInfo("%d chunks\n", len(lines))
	return nil
}

func dumpBytes(h *mem.Heap) error {
	data := h.Bytes()
	if dumpOffset < 0 || dumpOffset > len(data) {
		return fmt.Errorf("offset %d outside heap of %d bytes", dumpOffset, len(data))
	}
	end := len(data)
	if dumpLength > 0 && dumpOffset+dumpLength < end {
		end = dumpOffset + dumpLength
	}

	for off := dumpOffset; off < end; off += 16 {
		row := data[off:min(off+16, end)]
		var hexCol, asciiCol strings.Builder
		for i, b := range row {
			if i == 8 {
				hexCol.WriteByte(' ')
			}
			fmt.Fprintf(&hexCol, "%02x ", b)
			if b >= 0x20 && b < 0x7f {
				asciiCol.WriteByte(b)
			} else {
				asciiCol.WriteByte('.')
			}
		}
		printInfo("%08x  %-49s |%s|\n", off, hexCol.String(), asciiCol.String())
	}
	return nil
}
