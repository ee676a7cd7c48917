package dispatch

// Output bounding policy for log-bearing operations. The tail default and
// caps mirror what downstream consumers can usefully ingest; whichever cap
// trips first wins, and truncation is always reported explicitly.
const (
	DefaultLogTail = 100
	MaxLogTail     = 1000
	MaxLogBytes    = 100 * 1024
)

// BoundedOutput is a size-limited view over a line-oriented payload.
type BoundedOutput struct {
	Items     []string
	Truncated bool
	Bytes     int
}

// Bound limits items to at most maxItems entries and maxBytes total bytes,
// truncating at item granularity. Keeping the most recent entries is the
// caller's concern: pass the slice already tail-ordered.
func Bound(items []string, maxItems, maxBytes int) BoundedOutput {
	out := BoundedOutput{}
	kept := items
	if maxItems >= 0 && len(kept) > maxItems {
		kept = kept[len(kept)-maxItems:]
		out.Truncated = true
	}

	total := 0
	for _, item := range kept {
		total += len(item) + 1 // newline accounting
	}
	for maxBytes >= 0 && total > maxBytes && len(kept) > 0 {
		total -= len(kept[0]) + 1
		kept = kept[1:]
		out.Truncated = true
	}

	out.Items = kept
	out.Bytes = total
	if len(kept) == 0 {
		out.Bytes = 0
	}
	return out
}

// EffectiveTail clamps a requested tail to the hard item ceiling, applying
// the default when the request is unset or nonsensical.
func EffectiveTail(requested int) int {
	if requested <= 0 {
		return DefaultLogTail
	}
	if requested > MaxLogTail {
		return MaxLogTail
	}
	return requested
}
