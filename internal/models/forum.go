package models

import "time"

const (
	NodeTypeBoard  = "board"
	NodeTypeThread = "thread"
	NodeTypePost   = "post"
)

// Node is a board, thread or post with its latest revision's title and content.
type Node struct {
	ID       int64     `json:"id"`
	ParentID int64     `json:"parentId"`
	Type     string    `json:"type"`
	UserID   int64     `json:"userId"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Created  time.Time `json:"created"`
}

// NodeChild is the minimal view of a child used for page math.
type NodeChild struct {
	ID      int64     `json:"id"`
	Created time.Time `json:"created"`
}
