package ratings

// RawProfessor and RawReview are the provider's payload shapes, kept at the
// boundary: nothing outside this package should ever see them, normalize
// immediately into the domain types.

type RawProfessor struct {
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	AvgRating             float64 `json:"avgRating"`
	AvgDifficulty         float64 `json:"avgDifficulty"`
	WouldTakeAgainPercent float64 `json:"wouldTakeAgainPercent"`
	Department            string  `json:"department"`
}

type RawReview struct {
	// e.g. "2023-05-01 14:30:00 +0000 UTC"
	DatePosted       string  `json:"date_posted"`
	ClarityRating    float64 `json:"clarity_rating"`
	DifficultyRating float64 `json:"difficulty_rating"`
	Class            string  `json:"class"`
	AttendanceStatus string  `json:"attendance_status"`
	WouldTakeAgain   bool    `json:"would_take_again"`
	StudentGrade     string  `json:"student_grade"`
	// tri-state numeric code: 3 yes, 1 no, -1 n/a
	TextbookUse     int    `json:"textbook_use"`
	IsOnline        bool   `json:"is_online"`
	Comment         string `json:"comment"`
	CommentLikes    int    `json:"comment_likes"`
	CommentDislikes int    `json:"comment_dislikes"`
	// tags concatenated with a literal "--"
	RatingTags string `json:"rating_tags"`
}
