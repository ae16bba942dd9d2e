package ot

import (
	"container/list"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// PlanCacheCapacity is the default LRU capacity for a Shaper's
// compiled-plan cache. A plan is cheap to recompute but not free
// (walks ScriptList/FeatureList/LookupList once per distinct
// script+language+feature-set+variation combination), so a small
// bounded cache amortizes repeated shape calls with the same
// configuration against the same face.
const PlanCacheCapacity = 64

// planCacheKey identifies one compiled OTMap: the script, language,
// the exact feature set applied (order-independent), and the
// variation-store index in effect (0 for a non-variable font or the
// default instance).
type planCacheKey struct {
	script, language Tag
	variationsIndex  uint32
	features         string // canonicalized "tag=value,tag=value,..."
}

func canonicalizeFeatures(features []Feature) string {
	if len(features) == 0 {
		return ""
	}
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = strconv.FormatUint(uint64(f.Tag), 10) + "=" + strconv.FormatUint(uint64(f.Value), 10)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// planCache is a fixed-capacity, least-recently-used cache of compiled
// OTMaps, safe for concurrent use (the common deployment pattern is
// one Face/Shaper per goroutine, but shared use only needs this lock).
type planCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List // front = most recently used
	entries  map[planCacheKey]*list.Element
}

type planCacheEntry struct {
	key planCacheKey
	m   *OTMap
}

func newPlanCache(capacity int) *planCache {
	if capacity <= 0 {
		capacity = PlanCacheCapacity
	}
	return &planCache{
		capacity: capacity,
		ll:       list.New(),
		entries:  make(map[planCacheKey]*list.Element),
	}
}

func (c *planCache) get(key planCacheKey) (*OTMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*planCacheEntry).m, true
}

func (c *planCache) put(key planCacheKey, m *OTMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*planCacheEntry).m = m
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&planCacheEntry{key: key, m: m})
	c.entries[key] = el
	for c.ll.Len() > c.capacity {
		back := c.ll.Back()
		if back == nil {
			break
		}
		c.ll.Remove(back)
		delete(c.entries, back.Value.(*planCacheEntry).key)
	}
}

// CompileMapCached compiles (or retrieves from s's plan cache) the
// OTMap for the given script/language/feature selection and the
// shaper's current variation coordinates.
func (s *Shaper) CompileMapCached(features []Feature, scriptTag, languageTag Tag) *OTMap {
	if s.planCache == nil {
		s.planCache = newPlanCache(PlanCacheCapacity)
	}

	var variationsIndex uint32
	if s.gsub != nil {
		variationsIndex = s.gsub.FindVariationsIndex(s.normalizedCoordsI)
	}

	key := planCacheKey{
		script:          scriptTag,
		language:        languageTag,
		variationsIndex: variationsIndex,
		features:        canonicalizeFeatures(features),
	}

	if m, ok := s.planCache.get(key); ok {
		return m
	}

	m := CompileMap(s.gsub, s.gpos, features, scriptTag, languageTag)
	s.planCache.put(key, m)
	return m
}
