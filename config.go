package mapbench

import (
	"math/big"

	"github.com/pkg/errors"
)

// ============================================================================
// Configuration
// ============================================================================

const (
	// DefaultKeySpace is the number of keys every fixture holds.
	// It must stay prime so that any stride in [1, KeySpace-1] is coprime
	// with it and striding visits the whole key space before repeating.
	DefaultKeySpace = 1009

	// DefaultIdentity is mixed into every seed so that two programs using
	// the same seed keys still draw different sequences.
	DefaultIdentity = "github.com/llxisdsh/mapbench"

	// DefaultOddsOfWrite makes Mixed issue roughly one Put per hundred calls.
	DefaultOddsOfWrite = 100

	// fixtureSeedKey seeds fixture population. It must never collide with
	// a worker name.
	fixtureSeedKey = "prepareMap"
)

var (
	ErrKeySpaceNotPrime = errors.New("key space size must be a prime number")
	ErrInvalidOdds      = errors.New("odds of write must be positive")
	ErrEmptyIdentity    = errors.New("identity must not be empty")
)

// Config holds the parameters shared by every sequence, fixture and
// measured unit created from one Suite.
type Config struct {
	// KeySpace is the fixture size N. Keys are 0..N-1.
	KeySpace int

	// Identity is the program-identity constant combined with each
	// seed key. Changing it changes every sequence and every fixture.
	Identity string

	// OddsOfWrite is the modulus used by Mixed to decide between Put and
	// Get. A value of 1 makes every Mixed call a Put.
	OddsOfWrite int
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		KeySpace:    DefaultKeySpace,
		Identity:    DefaultIdentity,
		OddsOfWrite: DefaultOddsOfWrite,
	}
}

// WithKeySpace sets the fixture size. n must be prime.
func WithKeySpace(n int) func(*Config) {
	return func(c *Config) {
		c.KeySpace = n
	}
}

// WithIdentity replaces the program-identity constant used for seeding.
func WithIdentity(identity string) func(*Config) {
	return func(c *Config) {
		c.Identity = identity
	}
}

// WithOddsOfWrite sets the Put modulus used by Mixed.
func WithOddsOfWrite(odds int) func(*Config) {
	return func(c *Config) {
		c.OddsOfWrite = odds
	}
}

// Validate reports whether c can drive a benchmark run.
func (c *Config) Validate() error {
	if !isPrime(c.KeySpace) {
		return errors.Wrapf(ErrKeySpaceNotPrime, "key space %d", c.KeySpace)
	}
	if c.OddsOfWrite < 1 {
		return errors.Wrapf(ErrInvalidOdds, "odds of write %d", c.OddsOfWrite)
	}
	if c.Identity == "" {
		return ErrEmptyIdentity
	}
	return nil
}

// isPrime is exact for every int: ProbablyPrime is deterministic below 2^64.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	return big.NewInt(int64(n)).ProbablyPrime(0)
}

// ============================================================================
// Suite
// ============================================================================

// Suite is the entry point of the harness. It carries a validated Config
// and constructs sequences, fixtures and measured units from it.
type Suite struct {
	cfg Config
}

// NewSuite creates a Suite from DefaultConfig adjusted by options.
//
// Usage:
//
//	s, err := NewSuite(WithKeySpace(101), WithOddsOfWrite(10))
func NewSuite(options ...func(*Config)) (*Suite, error) {
	cfg := DefaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Suite{cfg: cfg}, nil
}

// Config returns a copy of the suite configuration.
func (s *Suite) Config() Config {
	return s.cfg
}
