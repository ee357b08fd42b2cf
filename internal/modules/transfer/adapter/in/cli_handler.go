package in

import (
	"context"
	"fmt"
	"os"

	"checkpoint/internal/modules/transfer/dto"
	transferin "checkpoint/internal/modules/transfer/port/in"
)

type CLIHandler struct {
	usecase transferin.Usecase
}

func NewCLIHandler(usecase transferin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ImportFile(ctx context.Context, path string) (dto.ImportOutput, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return dto.ImportOutput{}, fmt.Errorf("read import file: %w", err)
	}
	return h.usecase.Import(ctx, payload)
}

func (h CLIHandler) ExportFile(ctx context.Context, path string) (dto.ExportOutput, error) {
	out, err := h.usecase.Export(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	if err := os.WriteFile(path, out.Payload, 0o644); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("write export file: %w", err)
	}
	return out, nil
}
