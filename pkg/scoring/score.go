package scoring

import (
	"encoding/json"
	"strconv"
)

//Score is a ratio that may be undefined, e.g. the precision of a class the model never predicted.
//An undefined Score is the zero value; it is left out of averages and encodes as JSON null.
type Score struct {
	value   float64
	defined bool
}

//Defined wraps a computed value
func Defined(v float64) Score {
	return Score{value: v, defined: true}
}

//Undefined returns a score without a value
func Undefined() Score {
	return Score{}
}

//ratio returns num/den, undefined when den is 0
func ratio(num, den float64) Score {
	if den == 0 {
		return Score{}
	}
	return Defined(num / den)
}

//Value returns the score and whether it is defined
func (s Score) Value() (float64, bool) {
	return s.value, s.defined
}

//Valid returns true when the score has a value
func (s Score) Valid() bool {
	return s.defined
}

//Or returns the value, or def when the score is undefined
func (s Score) Or(def float64) float64 {
	if !s.defined {
		return def
	}
	return s.value
}

//String formats the value, "NaN" when undefined (the way the exported sheets show it)
func (s Score) String() string {
	if !s.defined {
		return "NaN"
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

//Percent formats the value as a percentage with two decimals
func (s Score) Percent() string {
	if !s.defined {
		return "NaN"
	}
	return strconv.FormatFloat(s.value*100, 'f', 2, 64) + "%"
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Defined(v)
	return nil
}
