package dither

// Matrix is a square ordered-dither threshold table with entries in (0, 1).
type Matrix struct {
	N int
	T []float64
}

// At returns the threshold for pixel (x, y), tiling the matrix.
func (m *Matrix) At(x, y int) float64 {
	return m.T[(y%m.N)*m.N+x%m.N]
}

func newMatrix(n int, index []int) *Matrix {
	m := &Matrix{N: n, T: make([]float64, n*n)}
	for i, v := range index {
		m.T[i] = (float64(v) + 0.5) / float64(n*n)
	}
	return m
}

var (
	bayer2 = newMatrix(2, []int{
		0, 2,
		3, 1,
	})
	bayer4 = newMatrix(4, []int{
		0, 8, 2, 10,
		12, 4, 14, 6,
		3, 11, 1, 9,
		15, 7, 13, 5,
	})
	bayer8 = newMatrix(8, []int{
		0, 32, 8, 40, 2, 34, 10, 42,
		48, 16, 56, 24, 50, 18, 58, 26,
		12, 44, 4, 36, 14, 46, 6, 38,
		60, 28, 52, 20, 62, 30, 54, 22,
		3, 35, 11, 43, 1, 33, 9, 41,
		51, 19, 59, 27, 49, 17, 57, 25,
		15, 47, 7, 39, 13, 45, 5, 37,
		63, 31, 55, 23, 61, 29, 53, 21,
	})
)

var matrices = map[Method]*Matrix{
	Bayer2: bayer2,
	Bayer4: bayer4,
	Bayer8: bayer8,
}

// BayerMatrix returns the matrix of size 2, 4 or 8.
func BayerMatrix(n int) (*Matrix, error) {
	switch n {
	case 2:
		return bayer2, nil
	case 4:
		return bayer4, nil
	case 8:
		return bayer8, nil
	}
	return nil, &ConfigError{Param: "matrix size", Value: n, Msg: "must be 2, 4 or 8"}
}

// Tap is one error-diffusion target relative to the current pixel.
type Tap struct {
	DX, DY int
	W      float64
}

// Kernel is an error-diffusion kernel. Each tap receives W/Div of the error.
type Kernel struct {
	Name string
	Taps []Tap
	Div  float64
}

var (
	floydSteinberg = &Kernel{
		Name: "floyd-steinberg",
		Taps: []Tap{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
		Div: 16,
	}
	burkes = &Kernel{
		Name: "burkes",
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
		Div: 32,
	}
	// atkinson spreads only 6/8 of the error.
	atkinson = &Kernel{
		Name: "atkinson",
		Taps: []Tap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
		Div: 8,
	}
)

var kernels = map[Method]*Kernel{
	FloydSteinberg: floydSteinberg,
	Burkes:         burkes,
	Atkinson:       atkinson,
}

// MatrixFor returns the matrix used by an ordered method.
func MatrixFor(m Method) (*Matrix, bool) {
	mat, ok := matrices[m]
	return mat, ok
}

// KernelFor returns the kernel used by a diffusing method.
func KernelFor(m Method) (*Kernel, bool) {
	k, ok := kernels[m]
	return k, ok
}
