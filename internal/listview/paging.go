package listview

// ToZeroBased converts a 1-based page number to the 0-based index used by
// table pagination widgets.
func ToZeroBased(page int) int {
	if page < 1 {
		return 0
	}
	return page - 1
}

// FromZeroBased converts a 0-based page index back to a page number.
func FromZeroBased(index int) int {
	if index < 0 {
		return 1
	}
	return index + 1
}
