//go:build !unix && !windows

package vmem

// reserve allocates the region on the heap when no virtual-memory API is
// available. Pages are always accessible; commit and decommit only keep the
// zero-on-commit contract.
func reserve(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func commit(span []byte) error {
	return nil
}

func decommit(span []byte) error {
	clear(span)
	return nil
}

func release(region []byte) error {
	return nil
}
