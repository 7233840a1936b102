// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/queue"
	"github.com/MKhiriev/carehome-sync/internal/status"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

type clientEntityService struct {
	store       store.LocalStore
	queue       *queue.Queue
	status      *status.Publisher
	syncService ClientSyncService
	syncJob     ClientSyncJob
	tenantID    string
	ids         *utils.UUIDGenerator

	logger *logger.Logger
}

// NewClientEntityService builds the consumer facade. syncJob may be nil, in
// which case writes are only synchronised by explicit ForceSync calls.
func NewClientEntityService(
	localStore store.LocalStore,
	publisher *status.Publisher,
	syncService ClientSyncService,
	syncJob ClientSyncJob,
	tenantID string,
	logger *logger.Logger,
) ClientEntityService {
	return &clientEntityService{
		store:       localStore,
		queue:       queue.New(localStore),
		status:      publisher,
		syncService: syncService,
		syncJob:     syncJob,
		tenantID:    tenantID,
		ids:         utils.NewUUIDGenerator(),
		logger:      logger,
	}
}

func (s *clientEntityService) CreateEntity(ctx context.Context, collection string, data json.RawMessage) (models.CachedEntity, error) {
	if collection == "" {
		return models.CachedEntity{}, ErrValidationNoCollection
	}
	fields, err := objectFields(data)
	if err != nil {
		return models.CachedEntity{}, err
	}

	id := s.ids.LocalID()
	if raw, ok := fields["id"]; ok {
		var given string
		if json.Unmarshal(raw, &given) == nil && given != "" {
			id = given
		}
	}

	entity := models.CachedEntity{ID: id, TenantID: s.tenantID, Collection: collection, Data: data}
	if err = s.store.Put(ctx, s.tenantID, collection, entity); err != nil {
		return models.CachedEntity{}, err
	}

	if _, err = s.queue.Enqueue(ctx, s.tenantID, collection, models.OperationCreate, id, data); err != nil {
		s.rollbackPut(ctx, collection, id)
		return models.CachedEntity{}, err
	}

	s.trigger()
	return s.store.Get(ctx, s.tenantID, collection, id)
}

func (s *clientEntityService) UpdateEntity(ctx context.Context, collection, id string, data json.RawMessage) (models.CachedEntity, error) {
	if collection == "" {
		return models.CachedEntity{}, ErrValidationNoCollection
	}
	if id == "" {
		return models.CachedEntity{}, ErrValidationNoEntityID
	}
	if _, err := objectFields(data); err != nil {
		return models.CachedEntity{}, err
	}

	previous, err := s.store.Get(ctx, s.tenantID, collection, id)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		previous = models.CachedEntity{}
	case err != nil:
		return models.CachedEntity{}, err
	}

	merged := queue.MergePayload(previous.Data, data)
	entity := models.CachedEntity{ID: id, TenantID: s.tenantID, Collection: collection, Data: merged}
	if err = s.store.Put(ctx, s.tenantID, collection, entity); err != nil {
		return models.CachedEntity{}, err
	}

	if _, err = s.queue.Enqueue(ctx, s.tenantID, collection, models.OperationUpdate, id, merged); err != nil {
		s.restore(ctx, collection, previous)
		return models.CachedEntity{}, err
	}

	s.trigger()
	return s.store.Get(ctx, s.tenantID, collection, id)
}

func (s *clientEntityService) DeleteEntity(ctx context.Context, collection, id string) error {
	if collection == "" {
		return ErrValidationNoCollection
	}
	if id == "" {
		return ErrValidationNoEntityID
	}

	previous, err := s.store.Get(ctx, s.tenantID, collection, id)
	if err != nil && !errors.Is(err, store.ErrEntityNotFound) {
		return err
	}

	if err = s.store.Remove(ctx, s.tenantID, collection, id); err != nil {
		return err
	}

	if _, err = s.queue.Enqueue(ctx, s.tenantID, collection, models.OperationDelete, id, nil); err != nil {
		s.restore(ctx, collection, previous)
		return err
	}

	s.trigger()
	return nil
}

func (s *clientEntityService) GetEntity(ctx context.Context, collection, id string) (models.CachedEntity, error) {
	return s.store.Get(ctx, s.tenantID, collection, id)
}

func (s *clientEntityService) GetPendingChangesCount(ctx context.Context, collection string) (int, error) {
	return s.status.GetPendingCount(ctx, collection)
}

func (s *clientEntityService) GetSyncStatus() models.SyncState {
	return s.status.GetStatus()
}

func (s *clientEntityService) SubscribeStatus(fn status.Listener) func() {
	return s.status.Subscribe(fn)
}

func (s *clientEntityService) ForceSync(ctx context.Context) (models.SyncResult, error) {
	n, err := s.store.ResetFailed(ctx, s.tenantID, "")
	if err != nil {
		return models.SyncResult{}, err
	}

	logger.FromContext(ctx).Info().
		Str("func", "clientEntityService.ForceSync").
		Int64("reset", n).
		Msg("failed mutations moved back to pending")

	res, err := s.syncService.Drain(ctx, "")
	if errors.Is(err, ErrDrainInProgress) {
		return res, nil
	}
	return res, err
}

func (s *clientEntityService) DiscardMutation(ctx context.Context, id string) error {
	m, err := s.store.GetMutation(ctx, s.tenantID, id)
	if err != nil {
		return err
	}

	if err = s.store.DiscardMutation(ctx, s.tenantID, id); err != nil {
		return err
	}

	// a create that never reached the server leaves nothing to show
	if m.Operation == models.OperationCreate && utils.IsLocalID(m.TargetID) {
		if err = s.store.Remove(ctx, s.tenantID, m.Collection, m.TargetID); err != nil {
			return err
		}
	}

	logger.FromContext(ctx).Info().
		Str("func", "clientEntityService.DiscardMutation").
		Str("collection", m.Collection).
		Str("mutation_id", m.ID).
		Str("target_id", m.TargetID).
		Str("operation", string(m.Operation)).
		Msg("mutation discarded by caller")

	return s.refreshStatus(ctx)
}

func (s *clientEntityService) ListFailed(ctx context.Context, collection string) ([]models.PendingMutation, error) {
	muts, err := s.store.ListPendingMutations(ctx, s.tenantID, collection)
	if err != nil {
		return nil, err
	}

	failed := make([]models.PendingMutation, 0)
	for _, m := range muts {
		if m.SyncStatus == models.MutationFailed {
			failed = append(failed, m)
		}
	}
	return failed, nil
}

// refreshStatus leaves the error state once the caller has resolved every
// failed mutation.
func (s *clientEntityService) refreshStatus(ctx context.Context) error {
	if s.status.GetStatus().Status != models.SyncError {
		return nil
	}

	failed, err := s.store.CountFailed(ctx, s.tenantID, "")
	if err != nil {
		return err
	}
	if failed == 0 {
		s.status.SetIdle()
	}
	return nil
}

func (s *clientEntityService) trigger() {
	if s.syncJob != nil {
		s.syncJob.Trigger()
	}
}

func (s *clientEntityService) rollbackPut(ctx context.Context, collection, id string) {
	if err := s.store.Remove(ctx, s.tenantID, collection, id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "clientEntityService.rollbackPut").
			Str("collection", collection).
			Str("id", id).
			Msg("optimistic entity could not be rolled back")
	}
}

// restore puts back the cached entity a failed write replaced.
func (s *clientEntityService) restore(ctx context.Context, collection string, previous models.CachedEntity) {
	if previous.ID == "" {
		return
	}
	if err := s.store.Put(ctx, s.tenantID, collection, previous); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "clientEntityService.restore").
			Str("collection", collection).
			Str("id", previous.ID).
			Msg("cached entity could not be restored")
	}
}

func objectFields(data json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, ErrValidationDataNotJSON)
	}
	return fields, nil
}
