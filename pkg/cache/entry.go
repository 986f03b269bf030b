package cache

import (
	"time"
)

// Entry is a value held by the in-memory backend together with its expiry.
type Entry struct {
	// Data is the encoded value
	Data []byte

	// Expires is when the entry becomes stale
	Expires time.Time
}

// NewEntry creates an entry that expires ttl from now.
func NewEntry(data []byte, ttl time.Duration) Entry {
	return Entry{
		Data:    data,
		Expires: time.Now().Add(ttl),
	}
}

// IsExpired returns true if the entry has expired.
func (e Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}
