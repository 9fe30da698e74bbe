package queue

import "context"

// ActionGenerateImage names the background action the worker executes
// for image generation jobs.
const ActionGenerateImage = "generate_image"

// Dispatcher hands an action payload to a background execution
// facility. Delivery is at least once, at an unspecified later time,
// in a separate process. The core depends on this contract but does
// not implement delivery itself.
type Dispatcher interface {
	Enqueue(ctx context.Context, action string, payload []byte) error
}
