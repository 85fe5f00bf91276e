package alloc

// Stats holds internal allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls   int   // Total Malloc calls (Calloc and growing Realloc included)
	FreeCalls    int   // Total Free calls
	ReallocCalls int   // Total Realloc calls
	GrowCalls    int   // Heap growths triggered by bump allocation
	GrowBytes    int64 // Total bytes added by growth

	ListAllocs int // Allocations served from a free list
	BumpAllocs int // Allocations served by carving the frontier

	SplitCount       int // Chunk splits (malloc and realloc-shrink)
	CoalesceForward  int // Merges with the following chunk
	CoalesceBackward int // Merges with the preceding chunk

	BytesAllocated int64 // Total chunk bytes handed out (including tags)
	BytesFreed     int64 // Total chunk bytes released
}

// Stats returns a copy of the arena's counters.
func (a *Arena) Stats() Stats { return a.stats }
