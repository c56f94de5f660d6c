package iot

import "time"

// ShadowUpdate is the document shape AWS IoT expects on the shadow update
// topic. Only the desired state is ever written by this service.
type ShadowUpdate struct {
	State ShadowState `json:"state"`
}

type ShadowState struct {
	Desired map[string]any `json:"desired"`
}

// NewShadowUpdate wraps a payload under the given key together with an update
// timestamp, matching what the device firmware reads back after wake-up.
func NewShadowUpdate(key string, doc any, updatedAt time.Time) ShadowUpdate {
	return ShadowUpdate{
		State: ShadowState{
			Desired: map[string]any{
				key:           doc,
				"lastUpdated": updatedAt.UTC().Format(time.RFC3339),
			},
		},
	}
}
