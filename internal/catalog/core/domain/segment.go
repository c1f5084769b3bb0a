package domain

// Segment is a named cohort. Rules is nil for manually managed segments.
type Segment struct {
	ID          int64
	Name        string
	Description string
	Rules       Rule
}
