package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/format"
)

// Config defines the arena's size-class strategy and limits.
type Config struct {
	// Name for this configuration (for benchmarking and stats output).
	Name string

	// Step is the width of one size-class bin. Must be a positive multiple
	// of the chunk alignment (16).
	Step int

	// BinMax is the largest chunk size kept in a size-class bin. Chunks
	// above it live on the single large free list. Must be a multiple of
	// Step.
	BinMax int

	// MaxSize caps the heap size the arena will grow to. Defaults to the
	// format-level maximum (2GB - 1). Tests lower it to exercise
	// out-of-memory paths.
	MaxSize int

	// Checked enables boundary-tag consistency checks on free and coalesce.
	// Defaults to the MEMKIT_DEBUG environment toggle.
	Checked bool
}

// Predefined configurations.
var (
	// ConfigFine: one bin per chunk size, 16..512. Bin scans degenerate to
	// head pops since all chunks in a bin share a size.
	ConfigFine = Config{
		Name:   "Fine",
		Step:   16,
		BinMax: 512,
	}

	// ConfigCoarse: fewer, wider bins. Faster bookkeeping, slightly longer
	// first-fit scans inside a bin.
	ConfigCoarse = Config{
		Name:   "Coarse",
		Step:   64,
		BinMax: 1024,
	}

	// DefaultConfig is used when NewArena receives nil.
	DefaultConfig = ConfigFine
)

// normalize validates the configuration and fills defaults in place.
func (c *Config) normalize() error {
	if c.Step == 0 {
		c.Step = DefaultConfig.Step
	}
	if c.BinMax == 0 {
		c.BinMax = DefaultConfig.BinMax
	}
	if c.MaxSize == 0 {
		c.MaxSize = format.MaxHeapSize
	}
	if c.Step < format.ChunkAlignment || c.Step%format.ChunkAlignment != 0 {
		return fmt.Errorf("alloc: config step %d must be a positive multiple of %d",
			c.Step, format.ChunkAlignment)
	}
	if c.BinMax < format.MinChunkSize || c.BinMax%c.Step != 0 {
		return fmt.Errorf("alloc: config bin ceiling %d must be a multiple of step %d",
			c.BinMax, c.Step)
	}
	if c.MaxSize < format.PageSize || c.MaxSize > format.MaxHeapSize {
		return fmt.Errorf("alloc: config max size %d out of range", c.MaxSize)
	}
	return nil
}

// numBins returns the number of size-class bins for this configuration.
func (c *Config) numBins() int {
	return (c.BinMax-format.MinChunkSize)/c.Step + 1
}

// binIndex returns the bin for a chunk of the given size, or -1 for sizes
// above the bin ceiling.
func (c *Config) binIndex(size int) int {
	if size > c.BinMax {
		return -1
	}
	return (size - format.MinChunkSize) / c.Step
}
