package stack

import (
	"errors"
	"strings"
)

// ErrNoFastaRecord indicates a FASTA file with no ">header" line.
var ErrNoFastaRecord = errors.New("stack: no FASTA record found")

// parseFastaFirstRecord extracts the first record's residues as one
// symbol per character.
func parseFastaFirstRecord(raw string) ([]string, error) {
	lines := strings.Split(raw, "\n")
	var body strings.Builder
	inRecord := false
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, ">") {
			if inRecord {
				break
			}
			inRecord = true

			continue
		}
		if inRecord {
			body.WriteString(strings.TrimSpace(line))
		}
	}
	if !inRecord {
		return nil, ErrNoFastaRecord
	}

	seq := make([]string, 0, body.Len())
	for _, r := range body.String() {
		seq = append(seq, string(r))
	}

	return seq, nil
}
