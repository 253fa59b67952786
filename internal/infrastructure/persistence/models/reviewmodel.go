package models

type ReviewModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;uniqueIndex:idx_review_ticket_reviewer"`
	ReviewerID  uint   `gorm:"not null;uniqueIndex:idx_review_ticket_reviewer"`
	MiddlemanID uint   `gorm:"not null;index"`
	Rating      int    `gorm:"not null"`
	Comment     string `gorm:"size:500"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

type MemberTradeStatsModel struct {
	UserID          uint   `gorm:"primaryKey;autoIncrement:false"`
	TradesCompleted int64  `gorm:"not null;default:0"`
	LastTradeAt     *int64
	LastPartnerTag  string `gorm:"size:100"`
	UpdatedAt       int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (MemberTradeStatsModel) TableName() string {
	return "member_trade_stats"
}
