package metadatacache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KEYS[1] entry, KEYS[2] invalidation marker; ARGV[1] payload, ARGV[2] fetched at (ms), ARGV[3] ttl (ms).
var putScript = redis.NewScript(`
local inv = redis.call('GET', KEYS[2])
if inv and tonumber(inv) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// KEYS[1] entry, KEYS[2] invalidation marker; ARGV[1] invalidated at (ms), ARGV[2] ttl (ms).
var removeScript = redis.NewScript(`
redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
redis.call('DEL', KEYS[1])
return 1
`)

type redisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
	logger lumber.Logger
}

// NewRedis returns a metadata cache shared by every replica through redis.
func NewRedis(redisDB core.RedisDB, ttl time.Duration, logger lumber.Logger) core.MetadataCache {
	return &redisCache{client: redisDB.Client(), ttl: ttl, now: time.Now, logger: logger}
}

// redisKeys share a hash tag so both keys live in the same cluster slot.
func redisKeys(projectKey string, issueType int64) (entryKey, invalidationKey string) {
	tag := fmt.Sprintf("{%s:%d}", projectKey, issueType)
	return "jr:meta:" + tag, "jr:meta-inv:" + tag
}

func (c *redisCache) GetCacheEntry(ctx context.Context, projectKey string, issueType int64) (*core.CacheEntry, error) {
	entryKey, _ := redisKeys(projectKey, issueType)
	raw, err := c.client.Get(ctx, entryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.ErrCacheMiss
		}
		return nil, err
	}
	entry := new(core.CacheEntry)
	if err := json.Unmarshal(raw, entry); err != nil {
		c.logger.Errorf("corrupt metadata cache entry %s, error: %v", entryKey, err)
		return nil, errs.ErrCacheMiss
	}
	return entry, nil
}

func (c *redisCache) PutCacheEntry(ctx context.Context, entry *core.CacheEntry) error {
	entryKey, invKey := redisKeys(entry.ProjectKey, entry.IssueType)
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	stored, err := putScript.Run(ctx, c.client, []string{entryKey, invKey},
		raw, entry.FetchedAt.UnixMilli(), c.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if stored == 0 {
		c.logger.Debugf("dropping stale metadata for %s fetched at %s", entryKey, entry.FetchedAt)
	}
	return nil
}

func (c *redisCache) RemoveCacheEntry(ctx context.Context, projectKey string, issueType int64) error {
	entryKey, invKey := redisKeys(projectKey, issueType)
	// the marker must outlive any entry written before it
	return removeScript.Run(ctx, c.client, []string{entryKey, invKey},
		c.now().UnixMilli(), c.ttl.Milliseconds()).Err()
}
