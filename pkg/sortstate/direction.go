package sortstate

import (
	"strconv"
	"strings"
)

// Direction is the sort order of a single column.
//
// The numeric values are the ones carried on the wire as data-sortorder.
type Direction int8

const (
	// Unsorted means the column does not take part in the current sort.
	Unsorted Direction = 0

	// Ascending sorts low to high.
	Ascending Direction = 1

	// Descending sorts high to low.
	Descending Direction = -1
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Unsorted:
		return "Unsorted"
	case Ascending:
		return "Ascending"
	case Descending:
		return "Descending"
	default:
		return "Unknown"
	}
}

// Wire returns the data-sortorder attribute value.
func (d Direction) Wire() string {
	return strconv.Itoa(int(d))
}

// Valid reports whether d is one of the three known directions.
func (d Direction) Valid() bool {
	return d == Unsorted || d == Ascending || d == Descending
}

// Reverse flips Ascending and Descending. Unsorted stays Unsorted.
func (d Direction) Reverse() Direction {
	return -d
}

// Next is the tri-state transition applied on activation.
//
//	Unsorted   -> Descending if defaultDescending, else Ascending
//	Ascending  -> Descending
//	Descending -> Ascending
//
// There is no transition back to Unsorted.
func Next(current Direction, defaultDescending bool) Direction {
	switch current {
	case Ascending:
		return Descending
	case Descending:
		return Ascending
	default:
		if defaultDescending {
			return Descending
		}
		return Ascending
	}
}

// ParseDirection parses a wire value ("1", "-1", "0") or a name
// ("asc", "desc", case-insensitive). Unknown input yields Unsorted.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "asc", "ascending":
		return Ascending
	case "-1", "desc", "descending":
		return Descending
	default:
		return Unsorted
	}
}
