package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PaymentGatewayURL     string
	PaymentGatewayKeyID   string
	PaymentGatewaySecret  string
	PaymentGatewayTimeout time.Duration

	RabbitMQURL          string
	NotificationExchange string

	// AcceptanceWindow and MaxProposals drive proposal expiry and escalation.
	AcceptanceWindow       time.Duration
	MaxProposals           int
	RiderMaxActiveOrders   int
	DispatchRadiusMeters   float64
	DispatchCandidateLimit int
	DispatchBatchSize      int
	GeoQueryTimeout        time.Duration

	ExpiryBatchSize        int
	NotificationRelayBatch int
}
