package domain

import (
	"fmt"
	"strings"
)

// ListingSeparator splits the fields of one listing line: id, name, status.
const ListingSeparator = ";"

// ParseListing turns the output lines of the listing query into container
// records. Blank lines are ignored; an empty listing yields an empty slice.
func ParseListing(lines []string) ([]Container, error) {
	containers := make([]Container, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, ListingSeparator, 3)
		if len(fields) < 3 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedListingLine, i+1, line)
		}

		container, err := NewContainer(fields[0], fields[1], fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		containers = append(containers, container)
	}
	return containers, nil
}
