package annotation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var requiredColumns = []string{
	"frame_num", "object_id", "label",
	"tracker_l", "tracker_t", "tracker_w", "tracker_h",
	"model_confidence", "tracker_confidence",
}

//ReadCSV parses a model output file. The first line is a header (any case), values are trimmed.
//Records come back in intrinsic video coordinates, with given origin.
func ReadCSV(r io.Reader, origin Origin) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("ReadCSV: Could not read header, got '%w'", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("ReadCSV: %w: '%s'", ErrMissingColumn, c)
		}
	}

	records := make([]Record, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d, got '%w'", line, err)
		}

		p := rowParser{row: row, columns: columns}
		rec := Record{
			FrameNum:          p.asInt("frame_num"),
			ObjectID:          p.asInt("object_id"),
			Label:             p.asString("label"),
			Left:              p.asFloat("tracker_l"),
			Top:               p.asFloat("tracker_t"),
			Width:             p.asFloat("tracker_w"),
			Height:            p.asFloat("tracker_h"),
			ModelConfidence:   p.asFloat("model_confidence"),
			TrackerConfidence: p.asFloat("tracker_confidence"),
			Origin:            origin,
		}
		if _, ok := columns["csv_id"]; ok {
			rec.CsvID = int64(p.asInt("csv_id"))
		}
		if _, ok := columns["id"]; ok && p.asString("id") != "" {
			id := int64(p.asInt("id"))
			rec.RecordID = &id
		}
		if p.err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d, got '%w'", line, p.err)
		}
		if rec.FrameNum < 0 {
			return nil, fmt.Errorf("ReadCSV: line %d, negative frame number %d", line, rec.FrameNum)
		}

		records = append(records, rec)
	}

	return records, nil
}

//rowParser keeps the first conversion error, so a row is checked once after all fields were read
type rowParser struct {
	row     []string
	columns map[string]int
	err     error
}

func (p *rowParser) asString(name string) string {
	i := p.columns[name]
	if i >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[i])
}

func (p *rowParser) asInt(name string) int {
	v, err := strconv.Atoi(p.asString(name))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column '%s': %w", name, err)
	}
	return v
}

func (p *rowParser) asFloat(name string) float64 {
	v, err := strconv.ParseFloat(p.asString(name), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column '%s': %w", name, err)
	}
	return v
}
