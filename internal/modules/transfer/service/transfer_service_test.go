package service_test

import (
	"errors"
	"testing"
	"time"

	sessiondomain "checkpoint/internal/modules/session/domain"
	"checkpoint/internal/modules/transfer/service"
	apperrors "checkpoint/internal/platform/errors"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

func newService() *service.TransferService {
	return service.NewTransferService(fakeClock{now: time.UnixMilli(1234)})
}

func TestParseTaxonomy(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"malformed json", `{"sessions":`, apperrors.ErrMalformedPayload},
		{"malformed wins over shape", `[{"id"`, apperrors.ErrMalformedPayload},
		{"no list in object", `{"data":[]}`, apperrors.ErrNoSessionList},
		{"scalar payload", `42`, apperrors.ErrNoSessionList},
		{"null sessions field", `{"sessions":null}`, apperrors.ErrNoSessionList},
		{"all entries invalid", `[{"id":1},{"game":"G"}]`, apperrors.ErrNoValidSessions},
		{"empty array is not an error", `[]`, nil},
		{"partial success is not an error", `[{"id":"a","game":"G","start":1,"end":2},{"id":"b"}]`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := newService().Parse([]byte(tc.payload))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil {
				t.Fatalf("expected a result")
			}
		})
	}
}

func TestParseCountsPartialSuccess(t *testing.T) {
	t.Parallel()
	payload := `[{"id":"a","game":"G","start":1,"end":2},{"id":"b"},{"bogus":true}]`
	result, err := newService().Parse([]byte(payload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Total != 3 || result.InvalidCount != 2 || len(result.Sessions) != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestBuildExportDigestMatchesPayload(t *testing.T) {
	t.Parallel()
	svc := newService()
	intent := "one run"
	payload, digest, err := svc.BuildExport([]sessiondomain.Session{
		{ID: "a", Game: "Hades", Start: 100, End: 200, Intent: &intent},
	})
	if err != nil {
		t.Fatalf("build export: %v", err)
	}
	if len(payload) == 0 || len(digest) != 64 {
		t.Fatalf("expected payload and a sha256 hex digest, got %d bytes / %q", len(payload), digest)
	}
	_, again, err := svc.BuildExport([]sessiondomain.Session{
		{ID: "a", Game: "Hades", Start: 100, End: 200, Intent: &intent},
	})
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if digest != again {
		t.Fatalf("same collection and clock must digest identically")
	}
}
