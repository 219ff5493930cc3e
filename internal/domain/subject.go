package domain

// Category classifies a subject for reporting purposes. It may be
// reclassified after creation; the bundle identifier never changes.
type Category string

const (
	CategoryUnknown       Category = "unknown"
	CategoryDevelopment   Category = "development"
	CategoryBrowser       Category = "browser"
	CategoryCommunication Category = "communication"
	CategoryProductivity  Category = "productivity"
	CategoryEntertainment Category = "entertainment"
)

// Subject is a tracked application. Identity is the bundle identifier;
// subjects are created on first observation and never deleted.
type Subject struct {
	ID          int64
	BundleID    string
	DisplayName string
	Category    Category
}
