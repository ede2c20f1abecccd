package model

import "strings"

// Brewery is a single record from the brewery directory.
type Brewery struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone"`
	WebsiteURL *string `json:"website_url"`
}

// Location formats the record as "city, state country".
func (b Brewery) Location() string {
	return strings.TrimSpace(b.City + ", " + b.State + " " + b.Country)
}

// PhoneNumber returns the phone number or an empty string.
func (b Brewery) PhoneNumber() string {
	if b.Phone == nil {
		return ""
	}
	return *b.Phone
}

// Website returns the website URL or an empty string.
func (b Brewery) Website() string {
	if b.WebsiteURL == nil {
		return ""
	}
	return *b.WebsiteURL
}

// SortDirection orders a listing by brewery name.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Param renders the direction the way the upstream expects it, e.g. "name:asc".
func (d SortDirection) Param() string {
	if d == SortDesc {
		return "name:desc"
	}
	return "name:asc"
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}
