package coursevane

import (
	"strings"
	"time"
)

// InstructionMode is how a section is delivered. Values outside the known
// set are preserved as-is since the schedule site occasionally adds new ones.
type InstructionMode string

const (
	ModeInPerson InstructionMode = "In Person"
	ModeOnline   InstructionMode = "Online"
	ModeHybrid   InstructionMode = "Hybrid"
)

func (m InstructionMode) Known() bool {
	return m == ModeInPerson || m == ModeOnline || m == ModeHybrid
}

// SectionType is the schedule's class-type column (lecture, lab, ...).
type SectionType string

const (
	TypeLecture  SectionType = "LEC"
	TypeLab      SectionType = "LAB"
	TypeSeminar  SectionType = "SEM"
	TypeSupervis SectionType = "SUP"
	TypeActivity SectionType = "ACT"
)

func (t SectionType) Known() bool {
	switch t {
	case TypeLecture, TypeLab, TypeSeminar, TypeSupervis, TypeActivity:
		return true
	}
	return false
}

// TextbookUse is the ratings provider's textbook-use survey answer. The
// provider encodes it as a tri-state number; anything outside the known
// codes maps to TextbookUnknown.
type TextbookUse string

const (
	TextbookYes     TextbookUse = "Yes"
	TextbookNo      TextbookUse = "No"
	TextbookNA      TextbookUse = "N/A"
	TextbookUnknown TextbookUse = "Unknown"
)

// ClassRecord is one scheduled section. ClassNumber is the only externally
// addressable identifier and is unique within a snapshot.
type ClassRecord struct {
	Subject           string          `json:"subject"`
	Course            string          `json:"course"`
	Section           string          `json:"section"`
	ClassNumber       int             `json:"classNumber"`
	ModeOfInstruction InstructionMode `json:"modeOfInstruction"`
	CourseTitle       string          `json:"courseTitle"`
	Satisfies         string          `json:"satisfies"`
	Units             float64         `json:"units"`
	Type              SectionType     `json:"type"`
	Days              string          `json:"days"`
	Times             string          `json:"times"`
	Instructor        string          `json:"instructor"`
	Location          string          `json:"location"`
	Dates             string          `json:"dates"`
	OpenSeats         int             `json:"openSeats"`
	Notes             string          `json:"notes,omitempty"`
}

func (r ClassRecord) CourseKey() string {
	return CourseKey(r.Subject, r.Course)
}

// CourseKey identifies a course across all of its sections: the normalized
// uppercase "SUBJECT COURSE" string.
func CourseKey(subject, course string) string {
	return strings.ToUpper(strings.TrimSpace(subject) + " " + strings.TrimSpace(course))
}

// ClassDetails is a catalog-level description shared by every section of a
// course. Oid records which catalog snapshot the record was fetched under so
// stale entries can be told apart later.
type ClassDetails struct {
	Oid         string `json:"oid"`
	CourseKey   string `json:"courseKey"`
	CourseTitle string `json:"courseTitle"`
	Credits     string `json:"credits"`
	Description string `json:"description"`
	Satisfies   string `json:"satisfies"`
	Prereq      string `json:"prereq"`
	Grading     string `json:"grading"`
	Notes       string `json:"notes,omitempty"`
}

// Professor is an aggregate rating snapshot keyed by display name
// ("First Last").
type Professor struct {
	Name                  string  `json:"name"`
	AverageQuality        float64 `json:"averageQuality"`
	Difficulty            float64 `json:"difficulty"`
	WouldTakeAgainPercent float64 `json:"wouldTakeAgainPercent"`
	Department            string  `json:"department"`
}

// ProfessorReview is one normalized review. Reviews are immutable once
// fetched; a cache write replaces a professor's whole collection at once.
type ProfessorReview struct {
	ProfName       string      `json:"profName"`
	Date           time.Time   `json:"date"`
	Quality        float64     `json:"quality"`
	Difficulty     float64     `json:"difficulty"`
	Class          string      `json:"class"`
	Attendance     string      `json:"attendance"`
	WouldTakeAgain bool        `json:"wouldTakeAgain"`
	GradeReceived  string      `json:"gradeReceived"`
	Grade          string      `json:"grade"`
	Textbook       TextbookUse `json:"textbook"`
	OnlineClass    bool        `json:"onlineClass"`
	ReviewText     string      `json:"reviewText"`
	Likes          int         `json:"likes"`
	Dislikes       int         `json:"dislikes"`
	Tags           []string    `json:"tags"`
}

// ProfessorRating bundles a professor with their reviews, the shape the
// professor lookup operation returns.
type ProfessorRating struct {
	Professor Professor         `json:"professor"`
	Reviews   []ProfessorReview `json:"reviews"`
}
