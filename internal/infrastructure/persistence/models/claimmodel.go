package models

// ClaimModel's unique index on TicketID is the system's only mutual
// exclusion primitive: a second claim insert for the same ticket must fail
// at the database.
type ClaimModel struct {
	ID                    uint    `gorm:"primaryKey"`
	TicketID              uint    `gorm:"not null;uniqueIndex"`
	MiddlemanID           uint    `gorm:"not null;index"`
	ClaimedAt             int64   `gorm:"not null"`
	ClosedAt              *int64
	ForcedClose           bool    `gorm:"not null;default:false"`
	PanelMessageID        *string `gorm:"size:64"`
	FinalizationMessageID *string `gorm:"size:64"`
	ReviewRequestedAt     *int64
}

func (ClaimModel) TableName() string {
	return "claims"
}

// FinalizationConfirmationModel is one row per currently confirmed party.
// The composite unique index makes Confirm an idempotent set-add.
type FinalizationConfirmationModel struct {
	ID          uint  `gorm:"primaryKey"`
	TicketID    uint  `gorm:"not null;uniqueIndex:idx_finalization_ticket_user"`
	UserID      uint  `gorm:"not null;uniqueIndex:idx_finalization_ticket_user"`
	ConfirmedAt int64 `gorm:"not null"`
}

func (FinalizationConfirmationModel) TableName() string {
	return "finalization_confirmations"
}
