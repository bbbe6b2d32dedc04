// Package riderrepo is the geospatial rider directory on PostgreSQL. Proximity queries
// use the cube and earthdistance extensions with a GiST index on the rider position,
// so a radius search never scans the whole table.
package riderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RiderDTO is the riders table.
type RiderDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Longitude      float64        `gorm:"type:double precision;not null"`
	Latitude       float64        `gorm:"type:double precision;not null"`
	LastUpdated    time.Time      `gorm:"not null"`
	Status         int            `gorm:"not null;index"`
	AssignedOrders pq.StringArray `gorm:"type:text[]"`
	Version        int            `gorm:"not null;default:0"`
}

func (RiderDTO) TableName() string {
	return "riders"
}

// nearbyDTO is a directory hit: the rider row plus its distance from the search origin.
type nearbyDTO struct {
	RiderDTO
	Distance float64
}

func fromDomain(r *rider.Rider) RiderDTO {
	assigned := make(pq.StringArray, 0, len(r.AssignedOrders()))
	for _, id := range r.AssignedOrders() {
		assigned = append(assigned, id.String())
	}

	return RiderDTO{
		ID:             r.ID().Bytes(),
		UserID:         r.UserID().Bytes(),
		Longitude:      r.Location().Longitude(),
		Latitude:       r.Location().Latitude(),
		LastUpdated:    r.LastUpdated(),
		Status:         int(r.Status()),
		AssignedOrders: assigned,
		Version:        r.Version() + 1,
	}
}

func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewLocation(dto.Longitude, dto.Latitude)
	if err != nil {
		return nil, err
	}

	assigned := make([]kernel.UUID, 0, len(dto.AssignedOrders))
	for _, raw := range dto.AssignedOrders {
		orderID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		assigned = append(assigned, orderID)
	}

	return rider.RestoreRider(id, userID, location, dto.LastUpdated, rider.Status(dto.Status), assigned, dto.Version)
}
