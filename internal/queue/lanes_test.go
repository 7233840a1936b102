// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/carehome-sync/models"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mut(seq int64, op models.Operation, target, payload string) models.PendingMutation {
	m := models.PendingMutation{
		ID:         "m" + string(rune('0'+seq)),
		Seq:        seq,
		TenantID:   "home-1",
		Collection: "carePlans",
		Operation:  op,
		TargetID:   target,
		SyncStatus: models.MutationPending,
	}
	if payload != "" {
		m.Payload = json.RawMessage(payload)
	}
	return m
}

func lane(muts ...models.PendingMutation) Lane {
	return Lane{Key: muts[0].LaneKey(), Mutations: muts}
}

func TestBuildLanes(t *testing.T) {
	a1 := mut(1, models.OperationCreate, "a", `{}`)
	b1 := mut(2, models.OperationUpdate, "b", `{}`)
	a2 := mut(3, models.OperationUpdate, "a", `{}`)
	other := mut(4, models.OperationUpdate, "a", `{}`)
	other.Collection = "updates"

	lanes := BuildLanes([]models.PendingMutation{a1, b1, a2, other})

	require.Len(t, lanes, 3)
	assert.Equal(t, models.LaneKey{Collection: "carePlans", TargetID: "a"}, lanes[0].Key)
	assert.Equal(t, []models.PendingMutation{a1, a2}, lanes[0].Mutations)
	assert.Equal(t, models.LaneKey{Collection: "carePlans", TargetID: "b"}, lanes[1].Key)
	assert.Equal(t, models.LaneKey{Collection: "updates", TargetID: "a"}, lanes[2].Key)
}

func TestBuildLanes_Empty(t *testing.T) {
	assert.Empty(t, BuildLanes(nil))
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name        string
		lane        Lane
		wantCancel  []string
		wantSteps   [][]string
		wantPayload string
		wantBlocked string
	}{
		{
			name:        "create then updates merge into one call",
			lane:        lane(mut(1, models.OperationCreate, "l", `{"a":1,"b":1}`), mut(2, models.OperationUpdate, "l", `{"b":2}`), mut(3, models.OperationUpdate, "l", `{"c":3}`)),
			wantSteps:   [][]string{{"m1", "m2", "m3"}},
			wantPayload: `{"a":1,"b":2,"c":3}`,
		},
		{
			name:       "create then delete cancels everything",
			lane:       lane(mut(1, models.OperationCreate, "l", `{}`), mut(2, models.OperationDelete, "l", "")),
			wantCancel: []string{"m1", "m2"},
		},
		{
			name:       "create update delete cancels everything",
			lane:       lane(mut(1, models.OperationCreate, "l", `{}`), mut(2, models.OperationUpdate, "l", `{"x":1}`), mut(3, models.OperationDelete, "l", "")),
			wantCancel: []string{"m1", "m2", "m3"},
		},
		{
			name:       "recreate after cancelled delete is planned",
			lane:       lane(mut(1, models.OperationCreate, "l", `{}`), mut(2, models.OperationDelete, "l", ""), mut(3, models.OperationCreate, "l", `{"v":2}`)),
			wantCancel: []string{"m1", "m2"},
			wantSteps:  [][]string{{"m3"}},
		},
		{
			name:      "updates without pending create are sent one by one",
			lane:      lane(mut(1, models.OperationUpdate, "s", `{"a":1}`), mut(2, models.OperationUpdate, "s", `{"a":2}`), mut(3, models.OperationDelete, "s", "")),
			wantSteps: [][]string{{"m1"}, {"m2"}, {"m3"}},
		},
		{
			name: "attempted create is neither merged nor cancelled",
			lane: func() Lane {
				c := mut(1, models.OperationCreate, "l", `{"a":1}`)
				c.Attempts = 1
				return lane(c, mut(2, models.OperationUpdate, "l", `{"a":2}`), mut(3, models.OperationDelete, "l", ""))
			}(),
			wantSteps:   [][]string{{"m1"}, {"m2"}, {"m3"}},
			wantPayload: `{"a":1}`,
		},
		{
			name: "create reset after a failure keeps its original payload",
			lane: func() Lane {
				c := mut(1, models.OperationCreate, "l", `{"a":1}`)
				c.LastError = "http 502: bad gateway"
				return lane(c, mut(2, models.OperationUpdate, "l", `{"a":2}`), mut(3, models.OperationDelete, "l", ""))
			}(),
			wantSteps:   [][]string{{"m1"}, {"m2"}, {"m3"}},
			wantPayload: `{"a":1}`,
		},
		{
			name: "failed head blocks the lane",
			lane: func() Lane {
				u := mut(1, models.OperationUpdate, "s", `{}`)
				u.SyncStatus = models.MutationFailed
				return lane(u, mut(2, models.OperationUpdate, "s", `{}`))
			}(),
			wantBlocked: "m1",
		},
		{
			name: "failed entry blocks later entries only",
			lane: func() Lane {
				u := mut(2, models.OperationUpdate, "s", `{}`)
				u.SyncStatus = models.MutationFailed
				return lane(mut(1, models.OperationUpdate, "s", `{}`), u, mut(3, models.OperationDelete, "s", ""))
			}(),
			wantSteps:   [][]string{{"m1"}},
			wantBlocked: "m2",
		},
		{
			name: "entry in backoff blocks the lane",
			lane: func() Lane {
				u := mut(1, models.OperationUpdate, "s", `{}`)
				u.Attempts = 1
				u.NextAttemptAt = now.Add(time.Minute)
				return lane(u)
			}(),
			wantBlocked: "m1",
		},
		{
			name: "entry whose backoff expired is sent",
			lane: func() Lane {
				u := mut(1, models.OperationUpdate, "s", `{}`)
				u.Attempts = 1
				u.NextAttemptAt = now.Add(-time.Second)
				return lane(u)
			}(),
			wantSteps: [][]string{{"m1"}},
		},
		{
			name: "syncing entry held by another process blocks",
			lane: func() Lane {
				c := mut(1, models.OperationCreate, "l", `{}`)
				c.SyncStatus = models.MutationSyncing
				return lane(c, mut(2, models.OperationDelete, "l", ""))
			}(),
			wantBlocked: "m1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Coalesce(tt.lane, now)

			assert.Equal(t, tt.lane.Key, plan.Key)

			var cancelled []string
			for _, m := range plan.Cancel {
				cancelled = append(cancelled, m.ID)
			}
			assert.Equal(t, tt.wantCancel, cancelled)

			var steps [][]string
			for _, s := range plan.Steps {
				steps = append(steps, s.IDs())
			}
			assert.Equal(t, tt.wantSteps, steps)

			if tt.wantPayload != "" {
				require.NotEmpty(t, plan.Steps)
				assert.JSONEq(t, tt.wantPayload, string(plan.Steps[0].Mutation.Payload))
			}

			if tt.wantBlocked == "" {
				assert.Nil(t, plan.Blocked)
			} else {
				require.NotNil(t, plan.Blocked)
				assert.Equal(t, tt.wantBlocked, plan.Blocked.ID)
			}
		})
	}
}

func TestCoalesce_DoesNotMutateInput(t *testing.T) {
	create := mut(1, models.OperationCreate, "l", `{"a":1}`)
	l := lane(create, mut(2, models.OperationUpdate, "l", `{"a":2}`))

	Coalesce(l, now)

	assert.JSONEq(t, `{"a":1}`, string(l.Mutations[0].Payload))
}

func TestMergePayload(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		patch string
		want  string
	}{
		{name: "override and add", base: `{"a":1,"b":1}`, patch: `{"b":2,"c":3}`, want: `{"a":1,"b":2,"c":3}`},
		{name: "nested objects replaced not merged", base: `{"o":{"x":1,"y":1}}`, patch: `{"o":{"x":2}}`, want: `{"o":{"x":2}}`},
		{name: "null field kept as null", base: `{"a":1}`, patch: `{"a":null}`, want: `{"a":null}`},
		{name: "non object patch replaces", base: `{"a":1}`, patch: `[1,2]`, want: `[1,2]`},
		{name: "non object base replaced", base: `"x"`, patch: `{"a":1}`, want: `{"a":1}`},
		{name: "empty base", base: ``, patch: `{"a":1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergePayload(json.RawMessage(tt.base), json.RawMessage(tt.patch))
			assert.JSONEq(t, tt.want, string(got))
		})
	}

	assert.JSONEq(t, `{"a":1}`, string(MergePayload(json.RawMessage(`{"a":1}`), nil)))
}
