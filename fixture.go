package mapbench

import "github.com/pkg/errors"

var ErrUnsafeShare = errors.New("variant is not safe to share between workers")

// BuildFixture returns a new instance of v holding exactly KeySpace
// entries. Keys 0..N-1 are inserted in a shuffled order with
// pseudo-random values; both the order and the values are the same on
// every build.
//
// scope is chosen by the caller, but ScopeRun is rejected for a variant
// that is not Concurrent: sharing it would race.
func (s *Suite) BuildFixture(v Variant, scope Scope) (Map, error) {
	if v.IsZero() {
		return nil, errors.Wrap(ErrUnknownVariant, "variant has no constructor")
	}
	if scope == ScopeRun && !v.Concurrent {
		return nil, errors.Wrapf(ErrUnsafeShare, "%s with %s scope", v.Name, scope)
	}
	return s.buildFixture(v), nil
}

func (s *Suite) buildFixture(v Variant) Map {
	m := v.New(s.cfg.KeySpace)
	keys, values := fixtureEntries(&s.cfg)
	for i, k := range keys {
		m.Put(k, values[i])
	}
	return m
}

// fixtureEntries returns the insertion order and the value for each
// inserted key, in that order. Keys are shuffled first, then one signed
// 32-bit value is drawn per key from the same source.
func fixtureEntries(cfg *Config) (keys, values []int) {
	r := newRand(cfg, fixtureSeedKey)
	n := cfg.KeySpace

	keys = make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	// Fisher-Yates, high to low.
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		keys[i], keys[j] = keys[j], keys[i]
	}

	values = make([]int, n)
	for i := range values {
		values[i] = int(int32(r.Uint32()))
	}
	return keys, values
}
