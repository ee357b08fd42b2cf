package in

import (
	"context"

	"checkpoint/internal/modules/session/dto"
	sessionin "checkpoint/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, game, intent string) (dto.ActiveOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Game: game, Intent: intent})
}

func (h CLIHandler) Stop(ctx context.Context) (dto.SessionRecord, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Checkout(ctx context.Context, outcome string, skip bool) (dto.SessionRecord, error) {
	return h.usecase.Checkout(ctx, dto.CheckoutInput{Outcome: outcome, Skip: skip})
}

func (h CLIHandler) ManualAdd(ctx context.Context, input dto.ManualAddInput) (dto.SessionRecord, error) {
	return h.usecase.ManualAdd(ctx, input)
}

func (h CLIHandler) Edit(ctx context.Context, input dto.EditInput) (dto.SessionRecord, error) {
	return h.usecase.Edit(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) ListAll(ctx context.Context) ([]dto.SessionRecord, error) {
	return h.usecase.ListAll(ctx)
}

func (h CLIHandler) ListDay(ctx context.Context, dayKey int64) (dto.DayOutput, error) {
	return h.usecase.ListDay(ctx, dayKey)
}

func (h CLIHandler) Active(ctx context.Context) (dto.ActiveOutput, error) {
	return h.usecase.Active(ctx)
}

func (h CLIHandler) Pending(ctx context.Context) (dto.SessionRecord, error) {
	return h.usecase.Pending(ctx)
}
