// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/carehome-sync/models"
)

func validEntityRequest() models.EntityRequest {
	return models.EntityRequest{
		TenantID:   "home-1",
		Collection: "carePlans",
		ID:         "1",
		Data:       json.RawMessage(`{"status":"ACTIVE"}`),
	}
}

func TestNewEntityValidator(t *testing.T) {
	require.NotNil(t, NewEntityValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewEntityValidator()
	ctx := context.Background()

	req := validEntityRequest()
	assert.NoError(t, v.Validate(ctx, req))
	assert.NoError(t, v.Validate(ctx, &req))
	assert.ErrorIs(t, v.Validate(ctx, "not a request"), ErrUnsupportedType)
}

func TestValidateEntityRequest(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *models.EntityRequest)
		fields  []string
		wantErr error
	}{
		{name: "valid", modify: func(r *models.EntityRequest) {}},
		{name: "empty tenant", modify: func(r *models.EntityRequest) { r.TenantID = "" }, wantErr: ErrInvalidTenantID},
		{name: "tenant with slash", modify: func(r *models.EntityRequest) { r.TenantID = "a/b" }, wantErr: ErrInvalidTenantID},
		{name: "empty collection", modify: func(r *models.EntityRequest) { r.Collection = "" }, wantErr: ErrInvalidCollection},
		{name: "collection starting with digit", modify: func(r *models.EntityRequest) { r.Collection = "1plans" }, wantErr: ErrInvalidCollection},
		{name: "empty id", modify: func(r *models.EntityRequest) { r.ID = "" }, wantErr: ErrInvalidEntityID},
		{name: "local id", modify: func(r *models.EntityRequest) { r.ID = "local-abc" }, wantErr: ErrLocalEntityID},
		{name: "empty data", modify: func(r *models.EntityRequest) { r.Data = nil }, wantErr: ErrEmptyData},
		{name: "array data", modify: func(r *models.EntityRequest) { r.Data = json.RawMessage(`[1,2]`) }, wantErr: ErrDataNotObject},
		{name: "null data", modify: func(r *models.EntityRequest) { r.Data = json.RawMessage(`null`) }, wantErr: ErrDataNotObject},
		{
			name:    "id not checked when not requested",
			modify:  func(r *models.EntityRequest) { r.ID = "" },
			fields:  []string{FieldTenantID, FieldCollection, FieldData},
			wantErr: nil,
		},
		{
			name:    "long idempotency key",
			modify:  func(r *models.EntityRequest) { r.IdempotencyKey = strings.Repeat("k", 256) },
			fields:  []string{FieldIdempotencyKey},
			wantErr: ErrInvalidIdempotencyKey,
		},
		{
			name:    "unknown field",
			modify:  func(r *models.EntityRequest) {},
			fields:  []string{"version"},
			wantErr: ErrUnknownField,
		},
	}

	v := NewEntityValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEntityRequest()
			tt.modify(&req)

			err := v.Validate(context.Background(), req, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
