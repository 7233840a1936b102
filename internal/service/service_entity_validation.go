// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/carehome-sync/internal/validators"
	"github.com/MKhiriev/carehome-sync/models"
)

type EntityValidationService struct {
	inner     EntityService
	validator validators.Validator
}

func NewEntityValidationService() EntityServiceWrapper {
	return &EntityValidationService{
		validator: validators.NewEntityValidator(),
	}
}

func (v *EntityValidationService) Create(ctx context.Context, req models.EntityRequest) (models.Entity, bool, error) {
	if err := v.validator.Validate(ctx, req,
		validators.FieldTenantID,
		validators.FieldCollection,
		validators.FieldIdempotencyKey,
		validators.FieldData,
	); err != nil {
		return models.Entity{}, false, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Create(ctx, req)
}

func (v *EntityValidationService) Get(ctx context.Context, tenantID, collection, id string) (models.Entity, error) {
	req := models.EntityRequest{TenantID: tenantID, Collection: collection, ID: id}
	if err := v.validator.Validate(ctx, req, validators.FieldTenantID, validators.FieldCollection, validators.FieldID); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Get(ctx, tenantID, collection, id)
}

func (v *EntityValidationService) Update(ctx context.Context, req models.EntityRequest) (models.Entity, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Update(ctx, req)
}

func (v *EntityValidationService) Delete(ctx context.Context, tenantID, collection, id string) error {
	req := models.EntityRequest{TenantID: tenantID, Collection: collection, ID: id}
	if err := v.validator.Validate(ctx, req, validators.FieldTenantID, validators.FieldCollection, validators.FieldID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Delete(ctx, tenantID, collection, id)
}

func (v *EntityValidationService) Wrap(wrapper EntityService) EntityService {
	v.inner = wrapper
	return v
}
