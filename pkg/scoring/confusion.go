package scoring

import (
	"encoding/json"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//ConfusionMatrix counts objects by (actual class, predicted class). Row i is the corrected label, column j the
//label the model predicted, both indexed by position in the class vocabulary.
type ConfusionMatrix struct {
	m *mat.Dense
}

//NewConfusionMatrix counts the (actual[k], predicted[k]) pairs. Indexes outside [0, classes) are skipped.
//classes must be positive.
func NewConfusionMatrix(actual, predicted []int, classes int) ConfusionMatrix {
	m := mat.NewDense(classes, classes, nil)
	n := min(len(actual), len(predicted))
	for k := 0; k < n; k++ {
		i, j := actual[k], predicted[k]
		if i < 0 || j < 0 || i >= classes || j >= classes {
			continue
		}
		m.Set(i, j, m.At(i, j)+1)
	}
	return ConfusionMatrix{m: m}
}

//ConfusionMatrixFromRows builds a matrix from counts given row by row. rows must be square and non empty.
func ConfusionMatrixFromRows(rows [][]int) ConfusionMatrix {
	n := len(rows)
	m := mat.NewDense(n, n, nil)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, float64(v))
		}
	}
	return ConfusionMatrix{m: m}
}

//Size returns the number of classes
func (c ConfusionMatrix) Size() int {
	if c.m == nil {
		return 0
	}
	r, _ := c.m.Dims()
	return r
}

//At returns the number of objects of actual class i the model predicted as class j
func (c ConfusionMatrix) At(i, j int) int {
	return int(c.m.At(i, j))
}

//RowSum returns how many objects actually are of class i
func (c ConfusionMatrix) RowSum(i int) float64 {
	return floats.Sum(mat.Row(nil, i, c.m))
}

//ColSum returns how many objects the model predicted as class j
func (c ConfusionMatrix) ColSum(j int) float64 {
	return floats.Sum(mat.Col(nil, j, c.m))
}

//Total returns the number of counted pairs
func (c ConfusionMatrix) Total() int {
	if c.m == nil {
		return 0
	}
	return int(mat.Sum(c.m))
}

//Rows returns the counts as a plain 2D slice
func (c ConfusionMatrix) Rows() [][]int {
	n := c.Size()
	rows := make([][]int, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]int, n)
		for j := 0; j < n; j++ {
			rows[i][j] = c.At(i, j)
		}
	}
	return rows
}

func (c ConfusionMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Rows())
}
