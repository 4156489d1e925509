package license

// Blacklist is a set of revoked key fragments. It does no locking; callers
// sharing an Operator across goroutines must serialize writes.
type Blacklist struct {
	set     map[string]struct{}
	entries [][]byte
}

func NewBlacklist(fragments ...[]byte) *Blacklist {
	b := &Blacklist{set: make(map[string]struct{}, len(fragments))}
	for _, f := range fragments {
		b.Add(f)
	}
	return b
}

// Add reports whether the fragment was not already present.
func (b *Blacklist) Add(fragment []byte) bool {
	if _, ok := b.set[string(fragment)]; ok {
		return false
	}
	b.set[string(fragment)] = struct{}{}
	b.entries = append(b.entries, append([]byte(nil), fragment...))
	return true
}

func (b *Blacklist) Contains(fragment []byte) bool {
	_, ok := b.set[string(fragment)]
	return ok
}

func (b *Blacklist) Len() int { return len(b.entries) }

// Entries returns the fragments in insertion order.
func (b *Blacklist) Entries() [][]byte {
	out := make([][]byte, len(b.entries))
	for i, e := range b.entries {
		out[i] = append([]byte(nil), e...)
	}
	return out
}
