package migrations

import (
	"gorm.io/gorm"

	"tradedesk/internal/infrastructure/persistence/models"
)

func MigrateTradeTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TicketModel{},
		&models.TicketParticipantModel{},
		&models.TradeModel{},
		&models.ClaimModel{},
		&models.FinalizationConfirmationModel{},
		&models.ReviewModel{},
		&models.MemberTradeStatsModel{},
	)
}
