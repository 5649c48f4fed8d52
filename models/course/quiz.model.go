package course

import "gorm.io/gorm"

// QuizQuestion represents a quiz question attached to a lesson
type QuizQuestion struct {
	gorm.Model
	LessonID    uint   `json:"lesson_id" gorm:"index;not null"`
	Question    string `json:"question" gorm:"type:text"`
	Explanation string `json:"explanation" gorm:"type:text"` // Shown after the answer is submitted
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// QuizOption represents an answer option for a quiz question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
