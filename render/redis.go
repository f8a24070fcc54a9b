package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beka-birhanu/gridbot/sim"
	"github.com/redis/go-redis/v9"
)

// channel name format: <prefix>:run:<run id>:frames
const framesChannelFmt = "%s:run:%s:frames"

// Publisher is the part of a Redis client used to fan frames out.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

var _ Publisher = &redis.Client{}

// RedisPublisher publishes every frame as JSON on a per-run pub/sub channel.
// Nothing is stored; subscribers that are not listening miss the frame.
type RedisPublisher struct {
	ctx     context.Context
	client  Publisher
	channel string
}

var _ sim.Renderer = &RedisPublisher{}

// NewRedisPublisher creates a publisher for one run.
func NewRedisPublisher(ctx context.Context, client Publisher, prefix, runID string) *RedisPublisher {
	return &RedisPublisher{
		ctx:     ctx,
		client:  client,
		channel: FramesChannel(prefix, runID),
	}
}

// FramesChannel returns the pub/sub channel carrying a run's frames.
func FramesChannel(prefix, runID string) string {
	return fmt.Sprintf(framesChannelFmt, prefix, runID)
}

// Channel returns the channel frames are published on.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Render implements sim.Renderer.
func (p *RedisPublisher) Render(f sim.Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := p.client.Publish(p.ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish frame %d on %s: %w", f.Step, p.channel, err)
	}
	return nil
}
