package ot

import "testing"

func TestCanonicalizeFeaturesOrderIndependent(t *testing.T) {
	a := canonicalizeFeatures([]Feature{{Tag: 2, Value: 1}, {Tag: 1, Value: 0}})
	b := canonicalizeFeatures([]Feature{{Tag: 1, Value: 0}, {Tag: 2, Value: 1}})
	if a != b {
		t.Errorf("expected order-independent canonicalization, got %q vs %q", a, b)
	}
}

func TestCanonicalizeFeaturesEmpty(t *testing.T) {
	if got := canonicalizeFeatures(nil); got != "" {
		t.Errorf("expected empty string for no features, got %q", got)
	}
}

func TestPlanCacheGetPutEviction(t *testing.T) {
	c := newPlanCache(2)

	k1 := planCacheKey{script: 1}
	k2 := planCacheKey{script: 2}
	k3 := planCacheKey{script: 3}

	m1, m2, m3 := &OTMap{}, &OTMap{}, &OTMap{}

	c.put(k1, m1)
	c.put(k2, m2)
	// Touch k1 so it's most-recently-used, making k2 the next eviction target.
	if _, ok := c.get(k1); !ok {
		t.Fatalf("expected k1 to be present")
	}
	c.put(k3, m3)

	if _, ok := c.get(k2); ok {
		t.Errorf("expected k2 to have been evicted")
	}
	if v, ok := c.get(k1); !ok || v != m1 {
		t.Errorf("expected k1 to survive eviction")
	}
	if v, ok := c.get(k3); !ok || v != m3 {
		t.Errorf("expected k3 to be present")
	}
}

func TestPlanCacheCapacityDefault(t *testing.T) {
	c := newPlanCache(0)
	if c.capacity != PlanCacheCapacity {
		t.Errorf("expected default capacity %d, got %d", PlanCacheCapacity, c.capacity)
	}
}
