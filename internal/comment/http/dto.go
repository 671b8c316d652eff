package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type CommentResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ItemID:     c.ItemID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		Created:    c.CreatedAt,
	}
}

// NewCommentResponses maps a slice, never returning nil.
func NewCommentResponses(comments []*comment.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = NewCommentResponse(c)
	}
	return out
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
