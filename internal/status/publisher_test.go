// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/mock"
	"github.com/MKhiriev/carehome-sync/models"
)

func newTestPublisher(t *testing.T) (*Publisher, *mock.MockLocalStore) {
	ctrl := gomock.NewController(t)
	st := mock.NewMockLocalStore(ctrl)

	p := NewPublisher(st, "home-1", logger.Nop())
	p.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return p, st
}

func TestPublisher_InitialState(t *testing.T) {
	p, _ := newTestPublisher(t)
	assert.Equal(t, models.SyncState{Status: models.SyncIdle}, p.GetStatus())
}

func TestPublisher_Transitions(t *testing.T) {
	p, _ := newTestPublisher(t)

	var seen []models.SyncStatus
	unsubscribe := p.Subscribe(func(s models.SyncState) {
		seen = append(seen, s.Status)
	})
	defer unsubscribe()

	p.SetSyncing()
	p.SetIdle()
	p.SetSyncing()
	p.SetError("http 409: conflict: stale", 1)
	p.SetSyncing()

	assert.Equal(t, []models.SyncStatus{
		models.SyncSyncing,
		models.SyncIdle,
		models.SyncSyncing,
		models.SyncError,
		models.SyncSyncing,
	}, seen)
}

func TestPublisher_ErrorStateCarriesDetail(t *testing.T) {
	p, _ := newTestPublisher(t)

	p.SetSyncing()
	p.SetError("boom", 2)

	state := p.GetStatus()
	assert.Equal(t, models.SyncError, state.Status)
	assert.Equal(t, "boom", state.LastError)
	assert.Equal(t, 2, state.Failed)
	assert.False(t, state.LastSyncAt.IsZero())

	// syncing keeps the last error until the cycle resolves it
	p.SetSyncing()
	assert.Equal(t, "boom", p.GetStatus().LastError)

	p.SetIdle()
	state = p.GetStatus()
	assert.Equal(t, models.SyncIdle, state.Status)
	assert.Empty(t, state.LastError)
	assert.Zero(t, state.Failed)
}

func TestPublisher_NoNotificationWithoutChange(t *testing.T) {
	p, _ := newTestPublisher(t)

	calls := 0
	p.Subscribe(func(models.SyncState) { calls++ })

	p.SetIdle()
	assert.Zero(t, calls)

	p.SetSyncing()
	p.SetSyncing()
	assert.Equal(t, 1, calls)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	p, _ := newTestPublisher(t)

	calls := 0
	unsubscribe := p.Subscribe(func(models.SyncState) { calls++ })

	p.SetSyncing()
	unsubscribe()
	p.SetIdle()

	assert.Equal(t, 1, calls)
}

func TestPublisher_ListenerMayReadStatus(t *testing.T) {
	p, _ := newTestPublisher(t)

	var got models.SyncState
	p.Subscribe(func(models.SyncState) { got = p.GetStatus() })

	p.SetSyncing()
	assert.Equal(t, models.SyncSyncing, got.Status)
}

func TestPublisher_GetPendingCount(t *testing.T) {
	p, st := newTestPublisher(t)

	st.EXPECT().CountPending(gomock.Any(), "home-1", "carePlans").Return(3, nil)
	count, err := p.GetPendingCount(context.Background(), "carePlans")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	st.EXPECT().CountPending(gomock.Any(), "home-1", "").Return(0, errors.New("disk"))
	_, err = p.GetPendingCount(context.Background(), "")
	assert.Error(t, err)
}

func TestPublisher_ConcurrentUse(t *testing.T) {
	p, _ := newTestPublisher(t)
	p.Subscribe(func(models.SyncState) {})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.SetSyncing()
			p.SetIdle()
		}()
		go func() {
			defer wg.Done()
			_ = p.GetStatus()
		}()
	}
	wg.Wait()
}
