package usecase

import (
	"context"

	sessiondomain "checkpoint/internal/modules/session/domain"
	sessiondto "checkpoint/internal/modules/session/dto"
	sessionin "checkpoint/internal/modules/session/port/in"
	"checkpoint/internal/modules/transfer/dto"
	transferin "checkpoint/internal/modules/transfer/port/in"
	"checkpoint/internal/modules/transfer/service"
)

type Interactor struct {
	svc      *service.TransferService
	sessions sessionin.Usecase
}

func NewInteractor(svc *service.TransferService, sessions sessionin.Usecase) transferin.Usecase {
	return &Interactor{svc: svc, sessions: sessions}
}

func (i *Interactor) Import(ctx context.Context, payload []byte) (dto.ImportOutput, error) {
	result, err := i.svc.Parse(payload)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	out := dto.ImportOutput{Total: result.Total, Skipped: result.InvalidCount}
	if result.Total == 0 {
		return out, nil
	}

	incoming := make([]sessiondto.SessionRecord, 0, len(result.Sessions))
	for _, s := range result.Sessions {
		incoming = append(incoming, sessiondto.SessionRecord{
			ID:      s.ID,
			Game:    s.Game,
			Start:   s.Start,
			End:     s.End,
			Intent:  s.Intent,
			Outcome: s.Outcome,
		})
	}
	merged, err := i.sessions.ImportMerge(ctx, incoming)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	out.Imported = merged.Merged
	out.Collection = merged.Collection
	return out, nil
}

func (i *Interactor) Export(ctx context.Context) (dto.ExportOutput, error) {
	records, err := i.sessions.ListAll(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	sessions := make([]sessiondomain.Session, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, sessiondomain.Session{
			ID:      r.ID,
			Game:    r.Game,
			Start:   r.Start,
			End:     r.End,
			Intent:  r.Intent,
			Outcome: r.Outcome,
		})
	}
	payload, digest, err := i.svc.BuildExport(sessions)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Payload: payload, Digest: digest, Count: len(sessions)}, nil
}
