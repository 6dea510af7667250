package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"ai-coach-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// InvalidationChannel carries athlete ids whose packets must be dropped on
// every instance.
const InvalidationChannel = "packet_invalidations"

type invalidation struct {
	Origin    string `json:"origin"`
	AthleteID string `json:"athlete_id"`
}

// PacketCache keeps compacted coach packets per (athlete, week start).
//
// Each athlete has a generation that every invalidation bumps. A builder
// reads the generation before touching the stores and stores its packet
// with SetIfGeneration, so a packet assembled from reads that raced an
// invalidation is discarded instead of cached.
type PacketCache struct {
	mu          sync.Mutex
	generations map[string]uint64

	cache      *cache.Cache
	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

// NewPacketCache creates the cache. rdb may be nil for a single instance.
func NewPacketCache(ttl time.Duration, rdb *redis.Client, log logger.ILogger) *PacketCache {
	return &PacketCache{
		generations: make(map[string]uint64),
		cache:       cache.New(ttl, 10*time.Minute),
		rdb:         rdb,
		instanceID:  uuid.NewString(),
		logger:      log,
	}
}

func packetKey(athleteID uuid.UUID, weekStart string) string {
	return athleteID.String() + "|" + weekStart
}

func (c *PacketCache) Get(athleteID uuid.UUID, weekStart string) (json.RawMessage, bool) {
	if x, found := c.cache.Get(packetKey(athleteID, weekStart)); found {
		return x.(json.RawMessage), true
	}
	return nil, false
}

// Set stores a packet unconditionally.
func (c *PacketCache) Set(athleteID uuid.UUID, weekStart string, packet json.RawMessage) {
	c.cache.Set(packetKey(athleteID, weekStart), packet, cache.DefaultExpiration)
}

// Generation returns the athlete's current invalidation count.
func (c *PacketCache) Generation(athleteID uuid.UUID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[athleteID.String()]
}

// SetIfGeneration stores the packet only if no invalidation happened since
// gen was read. It reports whether the packet was stored.
func (c *PacketCache) SetIfGeneration(athleteID uuid.UUID, weekStart string, gen uint64, packet json.RawMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[athleteID.String()] != gen {
		return false
	}
	c.cache.Set(packetKey(athleteID, weekStart), packet, cache.DefaultExpiration)
	return true
}

// Invalidate drops every cached week of the athlete here and, through redis,
// on the other instances.
func (c *PacketCache) Invalidate(ctx context.Context, athleteID uuid.UUID) {
	c.evictLocal(athleteID.String())

	if c.rdb == nil {
		return
	}
	payload, _ := json.Marshal(invalidation{Origin: c.instanceID, AthleteID: athleteID.String()})
	if err := c.rdb.Publish(ctx, InvalidationChannel, payload).Err(); err != nil {
		c.logger.Warn("PacketCache", "Failed to broadcast invalidation", map[string]interface{}{
			"athlete_id": athleteID,
			"error":      err.Error(),
		})
	}
}

func (c *PacketCache) evictLocal(athleteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[athleteID]++

	prefix := athleteID + "|"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

// Listen applies invalidations published by other instances until ctx ends.
func (c *PacketCache) Listen(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	pubsub := c.rdb.Subscribe(ctx, InvalidationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var inv invalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				c.logger.Warn("PacketCache", "Invalid invalidation payload", map[string]interface{}{"error": err.Error()})
				continue
			}
			if inv.Origin == c.instanceID {
				continue
			}
			c.evictLocal(inv.AthleteID)
		}
	}
}
