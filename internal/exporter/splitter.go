package exporter

import (
	"fmt"

	"github.com/bnema/lootfilter/internal/models"
)

// MaxRecordsPerFile is the default number of block records per export file
const MaxRecordsPerFile = 5000

// Part is one export file worth of records
type Part struct {
	Name    string
	Records []models.BlockRecord
}

// Splitter splits records into parts for separate export files
type Splitter struct {
	maxRecords int
}

// NewSplitter creates a splitter with the given max records per file
func NewSplitter(maxRecords int) *Splitter {
	if maxRecords <= 0 {
		maxRecords = MaxRecordsPerFile
	}
	return &Splitter{maxRecords: maxRecords}
}

// Split divides records into parts of at most maxRecords, in order. Parts
// are cut between top-level groups where possible; a group larger than one
// part is cut at the limit.
func (s *Splitter) Split(records []models.BlockRecord, baseName string) []Part {
	if len(records) <= s.maxRecords {
		return []Part{{Name: baseName, Records: records}}
	}

	var chunks [][]models.BlockRecord
	var cur []models.BlockRecord
	for _, run := range groupRuns(records) {
		if len(cur) > 0 && len(cur)+len(run) > s.maxRecords {
			chunks = append(chunks, cur)
			cur = nil
		}
		for len(run) > s.maxRecords-len(cur) {
			n := s.maxRecords - len(cur)
			chunks = append(chunks, append(cur, run[:n]...))
			cur, run = nil, run[n:]
		}
		cur = append(cur, run...)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}

	parts := make([]Part, len(chunks))
	for i, c := range chunks {
		parts[i] = Part{Name: fmt.Sprintf("%s-part%d", baseName, i+1), Records: c}
	}
	return parts
}

// groupRuns cuts records into maximal runs sharing a top-level group
func groupRuns(records []models.BlockRecord) [][]models.BlockRecord {
	var runs [][]models.BlockRecord
	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || topGroup(records[i]) != topGroup(records[start]) {
			runs = append(runs, records[start:i])
			start = i
		}
	}
	return runs
}

func topGroup(r models.BlockRecord) string {
	if len(r.Group) == 0 {
		return ""
	}
	return r.Group[0]
}
