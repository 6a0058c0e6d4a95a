package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment thuộc về một campground. Module này chỉ đọc comment để hiển thị.
type Comment struct {
	ID             uuid.UUID
	CampgroundID   uuid.UUID
	Text           string
	AuthorID       uuid.UUID
	AuthorUsername string
	CreatedAt      time.Time
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Author:    c.AuthorUsername,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
	}
}
