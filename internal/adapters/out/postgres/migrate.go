package postgres

import (
	"fooddelivery/internal/adapters/out/postgres/notificationrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/paymentrepo"
	"fooddelivery/internal/adapters/out/postgres/riderrepo"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date. The earthdistance extension and the GiST index
// on rider positions back riderrepo's proximity search.
func Migrate(db *gorm.DB) error {
	for _, stmt := range []string{
		"CREATE EXTENSION IF NOT EXISTS cube",
		"CREATE EXTENSION IF NOT EXISTS earthdistance",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderHistoryDTO{},
		&riderrepo.RiderDTO{},
		&paymentrepo.PaymentDTO{},
		&notificationrepo.NotificationDTO{},
	)
	if err != nil {
		return err
	}

	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_riders_position ON riders USING gist (ll_to_earth(latitude, longitude))",
	).Error
}
