package pmath

// CeilToPowerOf2 rounds size up to the next power of two.
// Sizes below 2 round to 2.
func CeilToPowerOf2(size int) int {
	if size < 2 {
		return 2
	}
	size--
	size |= size >> 1
	size |= size >> 2
	size |= size >> 4
	size |= size >> 8
	size |= size >> 16
	size |= size >> 32
	return size + 1
}

// CeilToPageSize rounds size up to a multiple of pageSize.
// pageSize must be a power of two.
func CeilToPageSize(size, pageSize uintptr) uintptr {
	return (size + pageSize - 1) &^ (pageSize - 1)
}
