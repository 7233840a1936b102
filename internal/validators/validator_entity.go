// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"

	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

const (
	FieldTenantID       = "tenant_id"
	FieldCollection     = "collection"
	FieldID             = "id"
	FieldIdempotencyKey = "idempotency_key"
	FieldData           = "data"
)

const maxIdempotencyKeyLength = 255

var (
	tenantPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	collectionPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)
)

type EntityValidator struct {
}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.EntityRequest:
		return v.validateEntityRequest(ctx, value, fields...)
	case *models.EntityRequest:
		return v.validateEntityRequest(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntityRequest(_ context.Context, req models.EntityRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTenantID, FieldCollection, FieldID, FieldData}
	}

	for _, f := range fields {
		switch f {
		case FieldTenantID:
			if !tenantPattern.MatchString(req.TenantID) {
				return ErrInvalidTenantID
			}
		case FieldCollection:
			if !collectionPattern.MatchString(req.Collection) {
				return ErrInvalidCollection
			}
		case FieldID:
			if req.ID == "" {
				return ErrInvalidEntityID
			}
			if utils.IsLocalID(req.ID) {
				return ErrLocalEntityID
			}
		case FieldIdempotencyKey:
			if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
				return ErrInvalidIdempotencyKey
			}
		case FieldData:
			if len(bytes.TrimSpace(req.Data)) == 0 {
				return ErrEmptyData
			}
			var object map[string]json.RawMessage
			if err := json.Unmarshal(req.Data, &object); err != nil || object == nil {
				return ErrDataNotObject
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
