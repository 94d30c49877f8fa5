package recordset

import (
	"context"
	"sync"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

var _ Store = &storeMock{}

type storeMock struct {
	UpsertRecordsFunc func(ctx context.Context, records []domain.DerivationRecord) error
	PatchRecordFunc   func(ctx context.Context, id string, patch domain.RecordPatch) error
	TouchPingFunc     func(ctx context.Context, id string, at time.Time) error

	calls struct {
		UpsertRecords []struct {
			Records []domain.DerivationRecord
		}
		PatchRecord []struct {
			ID    string
			Patch domain.RecordPatch
		}
		TouchPing []struct {
			ID string
			At time.Time
		}
	}
	lockUpsertRecords sync.RWMutex
	lockPatchRecord   sync.RWMutex
	lockTouchPing     sync.RWMutex
}

func (mock *storeMock) UpsertRecords(ctx context.Context, records []domain.DerivationRecord) error {
	if mock.UpsertRecordsFunc == nil {
		panic("storeMock.UpsertRecordsFunc: method is nil but Store.UpsertRecords was just called")
	}
	callInfo := struct {
		Records []domain.DerivationRecord
	}{Records: records}
	mock.lockUpsertRecords.Lock()
	mock.calls.UpsertRecords = append(mock.calls.UpsertRecords, callInfo)
	mock.lockUpsertRecords.Unlock()
	return mock.UpsertRecordsFunc(ctx, records)
}

func (mock *storeMock) UpsertRecordsCalls() []struct {
	Records []domain.DerivationRecord
} {
	mock.lockUpsertRecords.RLock()
	calls := mock.calls.UpsertRecords
	mock.lockUpsertRecords.RUnlock()
	return calls
}

func (mock *storeMock) PatchRecord(ctx context.Context, id string, patch domain.RecordPatch) error {
	if mock.PatchRecordFunc == nil {
		panic("storeMock.PatchRecordFunc: method is nil but Store.PatchRecord was just called")
	}
	callInfo := struct {
		ID    string
		Patch domain.RecordPatch
	}{ID: id, Patch: patch}
	mock.lockPatchRecord.Lock()
	mock.calls.PatchRecord = append(mock.calls.PatchRecord, callInfo)
	mock.lockPatchRecord.Unlock()
	return mock.PatchRecordFunc(ctx, id, patch)
}

func (mock *storeMock) PatchRecordCalls() []struct {
	ID    string
	Patch domain.RecordPatch
} {
	mock.lockPatchRecord.RLock()
	calls := mock.calls.PatchRecord
	mock.lockPatchRecord.RUnlock()
	return calls
}

func (mock *storeMock) TouchPing(ctx context.Context, id string, at time.Time) error {
	if mock.TouchPingFunc == nil {
		panic("storeMock.TouchPingFunc: method is nil but Store.TouchPing was just called")
	}
	callInfo := struct {
		ID string
		At time.Time
	}{ID: id, At: at}
	mock.lockTouchPing.Lock()
	mock.calls.TouchPing = append(mock.calls.TouchPing, callInfo)
	mock.lockTouchPing.Unlock()
	return mock.TouchPingFunc(ctx, id, at)
}

func (mock *storeMock) TouchPingCalls() []struct {
	ID string
	At time.Time
} {
	mock.lockTouchPing.RLock()
	calls := mock.calls.TouchPing
	mock.lockTouchPing.RUnlock()
	return calls
}
