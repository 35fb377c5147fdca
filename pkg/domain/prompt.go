package domain

import "time"

// SavedPrompt is a prompt stored in the user's library.
type SavedPrompt struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"` // markdown
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
}

// Analytics holds prompt generation counters for the dashboard cards.
type Analytics struct {
	Day   int `json:"day"`
	Week  int `json:"week"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// MonthlyCount is one bar of the analytics chart.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DevTypes are the development types offered by the brief generator.
var DevTypes = []string{
	"Web Application",
	"Mobile App",
	"Desktop Software",
	"AI/ML Solution",
	"E-commerce",
	"Game Development",
	"IoT Application",
	"Blockchain/Web3",
	"API/Backend Service",
	"Cross-platform App",
}

// ValidDevType reports whether t is one of DevTypes.
func ValidDevType(t string) bool {
	for _, v := range DevTypes {
		if v == t {
			return true
		}
	}
	return false
}
