package carbon

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidProduct indicates a product is missing a field even the
	// local formulas need, or carries an out-of-range value.
	ErrInvalidProduct = constError("invalid product")

	// ErrInvalidFactors indicates a factor table file failed validation.
	ErrInvalidFactors = constError("invalid factor tables")
)
