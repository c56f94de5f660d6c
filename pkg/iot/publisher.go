package iot

import (
	"context"
	"fmt"
)

// Publisher delivers documents to the device: once over a plain data topic
// for immediate consumption, and once as a shadow update that persists the
// latest state for a sleeping device.
type Publisher interface {
	// Publish serializes doc and sends it to the topic. It returns the
	// serialized size in bytes.
	Publish(ctx context.Context, topic string, doc any) (int, error)
	// UpdateShadow stores doc under the given key in the device shadow's
	// desired state.
	UpdateShadow(ctx context.Context, key string, doc any) error
}

// EventsTopic is the data topic carrying calendar payloads.
func EventsTopic(prefix, thing string) string {
	return fmt.Sprintf("%s/%s/events", prefix, thing)
}

// WeatherTopic is the data topic carrying weather payloads.
func WeatherTopic(prefix, thing string) string {
	return fmt.Sprintf("%s/%s/weather", prefix, thing)
}

// ShadowUpdateTopic is the AWS IoT reserved topic for shadow updates.
func ShadowUpdateTopic(thing string) string {
	return fmt.Sprintf("$aws/things/%s/shadow/update", thing)
}
