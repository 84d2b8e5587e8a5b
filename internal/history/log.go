package history

// Capacity is the maximum number of entries a Log retains.
const Capacity = 10

// Log is an ordered sequence of entries, newest first, never longer than Capacity.
type Log []Entry

// Prepend returns a new log with e at the head, dropping the oldest entries
// beyond Capacity. The receiver is not modified.
func (l Log) Prepend(e Entry) Log {
	keep := min(len(l), Capacity-1)
	out := make(Log, 0, keep+1)
	out = append(out, e)
	return append(out, l[:keep]...)
}

// Truncate returns a copy of the log limited to Capacity entries.
func (l Log) Truncate() Log {
	return l[:min(len(l), Capacity)].Clone()
}

// Clone returns an independent copy of the log. A nil log clones to an empty one.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	copy(out, l)
	return out
}
