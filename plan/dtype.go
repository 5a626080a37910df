package plan

// DType is the element type of an array.
type DType uint8

const (
	Invalid DType = iota
	Float32
	Float64
	Complex64
	Complex128
	Int32
	Uint32
	Int64
	Uint64
)

var dtypeNames = [...]string{
	Invalid:    "invalid",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	Int32:      "int32",
	Uint32:     "uint32",
	Int64:      "int64",
	Uint64:     "uint64",
}

func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return "invalid"
}

// ParseDType maps a dtype name back to its value, Invalid if unknown.
func ParseDType(name string) DType {
	for i, n := range dtypeNames {
		if n == name && i != int(Invalid) {
			return DType(i)
		}
	}
	return Invalid
}

// Valid reports whether d is a known dtype.
func (d DType) Valid() bool {
	return d > Invalid && d <= Uint64
}

// IsFloat reports whether d is a real floating-point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsComplex reports whether d is a complex type.
func (d DType) IsComplex() bool {
	return d == Complex64 || d == Complex128
}

// IsInteger reports whether d is an integer type.
func (d DType) IsInteger() bool {
	return d >= Int32 && d <= Uint64
}

// IsSigned reports whether d is a signed integer type.
func (d DType) IsSigned() bool {
	return d == Int32 || d == Int64
}

// Single reports whether d carries single-precision floating-point parts.
func (d DType) Single() bool {
	return d == Float32 || d == Complex64
}

// Bits returns the width of one scalar component in bits.
func (d DType) Bits() int {
	switch d {
	case Float32, Complex64, Int32, Uint32:
		return 32
	case Float64, Complex128, Int64, Uint64:
		return 64
	}
	return 0
}

// Real returns the real counterpart of a complex dtype and d otherwise.
func (d DType) Real() DType {
	switch d {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	}
	return d
}
