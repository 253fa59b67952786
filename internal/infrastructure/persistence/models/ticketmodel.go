package models

type TicketModel struct {
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"size:64;not null;index"`
	ChannelID   string `gorm:"size:64;index"`
	OwnerID     uint   `gorm:"not null;index"`
	Type        string `gorm:"size:20;not null"`
	Status      string `gorm:"size:20;not null;index"`
	MiddlemanID *uint  `gorm:"index"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
	ClosedAt    *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type TicketParticipantModel struct {
	ID       uint   `gorm:"primaryKey"`
	TicketID uint   `gorm:"not null;uniqueIndex:idx_ticket_participant"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_ticket_participant"`
	Role     string `gorm:"size:20;not null"`
	JoinedAt int64  `gorm:"not null"`
}

func (TicketParticipantModel) TableName() string {
	return "ticket_participants"
}
