package feedback

// Repository persists the whole feedback collection as one ordered document,
// newest first.
type Repository interface {
	// Load returns the stored records. A missing or unreadable document is an
	// empty collection, not an error.
	Load() ([]Record, error)
	// Save replaces the stored document.
	Save(records []Record) error
	// Mutate performs a read-modify-write that no other writer can interleave with.
	Mutate(fn func(records []Record) ([]Record, error)) error
}
