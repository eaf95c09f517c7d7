package models

// ChatMessage is one entry in the shared chatroom.
type ChatMessage struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`
	Body   string `gorm:"not null" json:"body"`

	Timestamps
}

// BoardPost is an anonymous-question board entry. Posting costs coins;
// the author id is always stored but withheld from listings when
// Anonymous is set.
type BoardPost struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug      string `gorm:"uniqueIndex;not null" json:"slug"`
	AuthorID  string `gorm:"index;not null" json:"-"`
	Title     string `gorm:"not null" json:"title"`
	Body      string `gorm:"not null" json:"body"`
	Anonymous bool   `gorm:"default:true" json:"anonymous"`

	Timestamps
}

// BoardReply is a reply to a board post. Replying costs coins and earns
// the replier reputation.
type BoardReply struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID   string `gorm:"index;not null" json:"post_id"`
	AuthorID string `gorm:"index;not null" json:"-"`
	Body     string `gorm:"not null" json:"body"`

	Timestamps
}
