package dto

type CreateJournalEntryDTO struct {
	Title   string `json:"title"   binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

type ShareJournalEntryDTO struct {
	RoomID string `json:"roomId" binding:"required"`
}
