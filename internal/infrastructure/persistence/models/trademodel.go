package models

type TradeModel struct {
	ID         uint    `gorm:"primaryKey"`
	TicketID   uint    `gorm:"not null;uniqueIndex:idx_trade_ticket_user"`
	UserID     uint    `gorm:"not null;uniqueIndex:idx_trade_ticket_user"`
	PartnerTag string  `gorm:"size:100"`
	PartnerID  *string `gorm:"size:64"`
	Status     string  `gorm:"size:20;not null;index"`
	Confirmed  bool    `gorm:"not null;default:false"`
	Items      string  `gorm:"type:json"`
	CreatedAt  int64   `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64   `gorm:"autoUpdateTime:milli;not null"`
}

func (TradeModel) TableName() string {
	return "trades"
}
