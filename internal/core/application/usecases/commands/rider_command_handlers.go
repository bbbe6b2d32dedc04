package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/rider"
)

type RegisterRiderCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewRegisterRiderCommandHandler(uowFactory RiderUoWFactory) RegisterRiderCommandHandler {
	return RegisterRiderCommandHandler{uowFactory: uowFactory}
}

func (h RegisterRiderCommandHandler) Handle(ctx context.Context, command RegisterRiderCommand) (*rider.Rider, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	r, err := rider.NewRider(command.riderID, command.userID, command.location, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RiderRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRiderLocationCommandHandler stores a position report. The write touches only the
// position columns, so it needs no transaction and never conflicts with assignment writes.
type UpdateRiderLocationCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewUpdateRiderLocationCommandHandler(uowFactory RiderUoWFactory) UpdateRiderLocationCommandHandler {
	return UpdateRiderLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateRiderLocationCommandHandler) Handle(ctx context.Context, command UpdateRiderLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	return h.uowFactory.Create().RiderRepository().UpdateLocation(
		ctx, command.riderID, command.location, time.Now().UTC(),
	)
}

type SetRiderStatusCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewSetRiderStatusCommandHandler(uowFactory RiderUoWFactory) SetRiderStatusCommandHandler {
	return SetRiderStatusCommandHandler{uowFactory: uowFactory}
}

func (h SetRiderStatusCommandHandler) Handle(ctx context.Context, command SetRiderStatusCommand) (*rider.Rider, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()
	r, err := riderRepo.Get(ctx, command.riderID)
	if err != nil {
		return nil, err
	}

	if err = r.SetStatus(command.status); err != nil {
		return nil, err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return nil, riderConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
