// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package queue

import (
	"encoding/json"
	"time"

	"github.com/MKhiriev/carehome-sync/models"
)

// Lane is the FIFO sub-queue of one entity.
type Lane struct {
	Key       models.LaneKey
	Mutations []models.PendingMutation
}

// Step is one remote call. Absorbed holds UPDATE entries merged into a
// CREATE; they leave the log together with it.
type Step struct {
	Mutation models.PendingMutation
	Absorbed []models.PendingMutation
}

// IDs returns the ids of the step's mutation and of everything it absorbed.
func (s Step) IDs() []string {
	ids := make([]string, 0, 1+len(s.Absorbed))
	ids = append(ids, s.Mutation.ID)
	for _, m := range s.Absorbed {
		ids = append(ids, m.ID)
	}
	return ids
}

// Plan is what a drain cycle does with one lane.
type Plan struct {
	Key models.LaneKey

	// Cancel lists entries that are dropped locally without a remote call.
	Cancel []models.PendingMutation

	// Steps are sent in order. A failed step stops the rest of the lane.
	Steps []Step

	// Blocked is the entry holding the lane back in this cycle, if any.
	Blocked *models.PendingMutation
}

// BuildLanes groups mutations by (collection, targetId). Lanes are ordered by
// the Seq of their first entry and entries keep their Seq order.
func BuildLanes(muts []models.PendingMutation) []Lane {
	index := make(map[models.LaneKey]int)
	var lanes []Lane

	for _, m := range muts {
		key := m.LaneKey()
		i, ok := index[key]
		if !ok {
			i = len(lanes)
			index[key] = i
			lanes = append(lanes, Lane{Key: key})
		}
		lanes[i].Mutations = append(lanes[i].Mutations, m)
	}

	return lanes
}

// Coalesce turns a lane into a plan:
//
//   - A CREATE that was never attempted, followed later by a DELETE, is
//     cancelled together with everything between them.
//   - UPDATEs directly following a never-attempted CREATE are merged into
//     its payload.
//   - The first failed, in-flight or not yet due entry blocks itself and
//     every later entry.
func Coalesce(lane Lane, now time.Time) Plan {
	plan := Plan{Key: lane.Key}
	muts := lane.Mutations

	for len(muts) > 0 {
		head := muts[0]

		if blocks(head, now) {
			h := head
			plan.Blocked = &h
			return plan
		}

		if head.Operation == models.OperationCreate && fresh(head) {
			if end := cancelEnd(muts); end >= 0 {
				plan.Cancel = append(plan.Cancel, muts[:end+1]...)
				muts = muts[end+1:]
				continue
			}

			step := Step{Mutation: head}
			i := 1
			for ; i < len(muts) && muts[i].Operation == models.OperationUpdate && fresh(muts[i]); i++ {
				step.Mutation.Payload = MergePayload(step.Mutation.Payload, muts[i].Payload)
				step.Absorbed = append(step.Absorbed, muts[i])
			}
			plan.Steps = append(plan.Steps, step)
			muts = muts[i:]
			continue
		}

		plan.Steps = append(plan.Steps, Step{Mutation: head})
		muts = muts[1:]
	}

	return plan
}

// cancelEnd returns the index of the first DELETE in muts, or -1.
func cancelEnd(muts []models.PendingMutation) int {
	for i, m := range muts {
		if m.Operation == models.OperationDelete {
			return i
		}
		if i > 0 && m.Operation == models.OperationCreate {
			return -1
		}
	}
	return -1
}

// fresh reports whether m has never been sent. A CREATE that was sent may
// already exist remotely, so it can be neither cancelled nor rewritten.
// Attempts counts dispatches and LastError survives a manual reset.
func fresh(m models.PendingMutation) bool {
	return m.SyncStatus == models.MutationPending && m.Attempts == 0 && m.LastError == ""
}

func blocks(m models.PendingMutation, now time.Time) bool {
	return m.SyncStatus != models.MutationPending || !m.Due(now)
}

// MergePayload applies the top-level fields of patch over base. When either
// side is not a JSON object, patch replaces base.
func MergePayload(base, patch json.RawMessage) json.RawMessage {
	if len(patch) == 0 {
		return base
	}

	var baseFields, patchFields map[string]json.RawMessage
	if json.Unmarshal(base, &baseFields) != nil || json.Unmarshal(patch, &patchFields) != nil ||
		baseFields == nil || patchFields == nil {
		return patch
	}

	for k, v := range patchFields {
		baseFields[k] = v
	}

	merged, err := json.Marshal(baseFields)
	if err != nil {
		return patch
	}
	return merged
}
