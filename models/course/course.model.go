package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Author               string  `json:"author"`
	TotalDurationSeconds int     `json:"total_duration_seconds" gorm:"default:0"` // Sum of lesson durations
	Rating               float64 `json:"rating" gorm:"default:0"`                 // Mean student rating (1-5)
	RatingCount          int     `json:"rating_count" gorm:"default:0"`
	ThumbnailURL         string  `json:"thumbnail_url"`
	IsPublished          bool    `json:"is_published" gorm:"default:false"`
	IsDeleted            bool    `gorm:"default:false"`
}

// Lesson represents a video lesson within a course
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"` // Lesson order in course
	IsDeleted       bool   `gorm:"default:false"`
}
