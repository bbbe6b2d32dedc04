package paymentrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PayerID          uuid.UUID       `gorm:"type:uuid;not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method           int             `gorm:"not null"`
	Status           int             `gorm:"not null"`
	GatewayOrderID   *string         `gorm:"uniqueIndex"`
	GatewayPaymentID string          `gorm:"not null;default:''"`
	CreatedAt        time.Time       `gorm:"autoCreateTime:false"`
	ResolvedAt       *time.Time
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	var gatewayOrderID *string
	if p.GatewayOrderID() != "" {
		id := p.GatewayOrderID()
		gatewayOrderID = &id
	}

	return PaymentDTO{
		ID:               p.ID().Bytes(),
		OrderID:          p.OrderID().Bytes(),
		PayerID:          p.PayerID().Bytes(),
		Amount:           p.Amount().Decimal(),
		Method:           int(p.Method()),
		Status:           int(p.Status()),
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID(),
		CreatedAt:        p.CreatedAt(),
		ResolvedAt:       p.ResolvedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	payerID, err := kernel.UUIDFromBytes(dto.PayerID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	var gatewayOrderID string
	if dto.GatewayOrderID != nil {
		gatewayOrderID = *dto.GatewayOrderID
	}

	return payment.RestorePayment(
		id, orderID, payerID,
		amount,
		payment.Method(dto.Method),
		payment.Status(dto.Status),
		gatewayOrderID, dto.GatewayPaymentID,
		dto.CreatedAt,
		dto.ResolvedAt,
	)
}
