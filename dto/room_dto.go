package dto

type CreateRoomDTO struct {
	ClientID string `json:"clientId" binding:"required"`
}

type CreateSharedEntryDTO struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

type CreateMessageDTO struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type CreateSessionNoteDTO struct {
	Content string `json:"content" binding:"required,max=10000"`
}

type CreateNoteCommentDTO struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type CreateCheckInDTO struct {
	Mood string `json:"mood" binding:"required,max=64"`
	Note string `json:"note" binding:"max=2000"`
}

type CreateResourceDTO struct {
	Title string `json:"title" binding:"required,max=200"`
	URL   string `json:"url"   binding:"required,url"`
}

type CreateTherapistNoteDTO struct {
	Content string `json:"content" binding:"required,max=10000"`
}
