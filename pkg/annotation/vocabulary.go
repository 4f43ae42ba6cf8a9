package annotation

import (
	"github.com/chenBenjamin97/model-checker/pkg/utils"
)

type annotationError string

func (e annotationError) Error() string { return string(e) }

const (
	ErrEmptyVocabulary = annotationError("class vocabulary has no classes")
	ErrMissingColumn   = annotationError("prediction csv is missing a required column")
)

//Vocabulary is the ordered list of labels of a container. The confusion matrix and every per class table
//are indexed by position in this list, the reserved labels always come last.
type Vocabulary struct {
	labels []string
}

//NewVocabulary appends the reserved labels (false_detection, then unlabelled) to given classes.
//Duplicates are dropped, and reserved labels given by the caller are moved to the end.
func NewVocabulary(classes []string) (Vocabulary, error) {
	labels := make([]string, 0, len(classes)+len(utils.ReservedLabels))
	for _, c := range classes {
		if c == "" || utils.InSlice(c, utils.ReservedLabels) || utils.InSlice(c, labels) {
			continue
		}
		labels = append(labels, c)
	}
	if len(labels) == 0 {
		return Vocabulary{}, ErrEmptyVocabulary
	}

	labels = append(labels, utils.ReservedLabels...)
	return Vocabulary{labels: labels}, nil
}

//Labels returns a copy of all labels, reserved ones included
func (v Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

//Len returns the number of labels, reserved ones included
func (v Vocabulary) Len() int {
	return len(v.labels)
}

//ClassCount returns the number of non reserved labels
func (v Vocabulary) ClassCount() int {
	if len(v.labels) < len(utils.ReservedLabels) {
		return 0
	}
	return len(v.labels) - len(utils.ReservedLabels)
}

//IndexOf returns the position of given label, -1 when it is not part of the vocabulary
func (v Vocabulary) IndexOf(label string) int {
	for i, l := range v.labels {
		if l == label {
			return i
		}
	}
	return -1
}

//Contains returns true if label is part of the vocabulary
func (v Vocabulary) Contains(label string) bool {
	return v.IndexOf(label) != -1
}

//IsReserved returns true for false_detection and unlabelled
func IsReserved(label string) bool {
	return utils.InSlice(label, utils.ReservedLabels)
}
