package fair

// Combine reduces a house addend and a user addend to (a + b) mod modulus.
// The house value is committed before the user picks theirs, so neither side
// controls the result alone. Negative addends are normalized into
// [0, modulus).
func Combine(a, b, modulus int) (int, error) {
	if modulus <= 0 {
		return 0, ErrInvalidModulus
	}

	r := (a + b) % modulus
	if r < 0 {
		r += modulus
	}
	return r, nil
}
