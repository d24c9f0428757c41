package metadatacache

import (
	"context"
	"errors"
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"golang.org/x/sync/singleflight"
)

// Loader reads schema through the cache and fetches it from the tracker on a miss.
// Concurrent misses for one key share a single tracker call.
type Loader struct {
	cache   core.MetadataCache
	tracker core.IssueTracker
	group   singleflight.Group
	now     func() time.Time
	logger  lumber.Logger
}

// NewLoader returns a pull-through loader.
func NewLoader(cache core.MetadataCache, tracker core.IssueTracker, logger lumber.Logger) *Loader {
	return &Loader{cache: cache, tracker: tracker, now: time.Now, logger: logger}
}

// Load returns the schema of the (project, issue type) pair.
func (l *Loader) Load(ctx context.Context, projectKey string, issueType int64) (*core.CacheEntry, error) {
	entry, err := l.cache.GetCacheEntry(ctx, projectKey, issueType)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, errs.ErrCacheMiss) {
		l.logger.Warnf("metadata cache read failed for %s/%d, fetching from tracker: %v", projectKey, issueType, err)
	}

	v, err, _ := l.group.Do(cacheKey(projectKey, issueType), func() (interface{}, error) {
		// stamp before the fetch so an invalidation racing with it wins
		started := l.now()
		fetched, err := l.tracker.GetCreateMetadata(ctx, projectKey, issueType)
		if err != nil {
			return nil, err
		}
		fetched.FetchedAt = started
		if err := l.cache.PutCacheEntry(ctx, fetched); err != nil {
			l.logger.Warnf("failed to cache metadata for %s/%d: %v", projectKey, issueType, err)
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.CacheEntry), nil
}
