package markup

import "fmt"

// Category is the closed set of entity categories an annotation element can
// denote. The zero value None means "no label".
type Category uint8

const (
	None Category = iota
	Person
	Location
)

// String returns the canonical corpus label for the category.
func (c Category) String() string {
	switch c {
	case Person:
		return "PERSON"
	case Location:
		return "LOCATION"
	case None:
		return "NONE"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// CategoryForTag maps an annotation element name to its category.
// Unrecognized tags report ok=false and never produce an interval.
func CategoryForTag(tag string) (Category, bool) {
	switch tag {
	case "persName":
		return Person, true
	case "placeName":
		return Location, true
	}
	return None, false
}

// ParseCategory is the inverse of String for stored labels.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "PERSON":
		return Person, nil
	case "LOCATION":
		return Location, nil
	}
	return None, fmt.Errorf("unknown entity category %q", s)
}
