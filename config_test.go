package mapbench

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNewSuiteDefaults(t *testing.T) {
	s, err := NewSuite()
	if err != nil {
		t.Fatalf("NewSuite() error: %v", err)
	}
	cfg := s.Config()
	if cfg.KeySpace != DefaultKeySpace {
		t.Fatalf("KeySpace = %d, want %d", cfg.KeySpace, DefaultKeySpace)
	}
	if cfg.Identity != DefaultIdentity {
		t.Fatalf("Identity = %q, want %q", cfg.Identity, DefaultIdentity)
	}
	if cfg.OddsOfWrite != DefaultOddsOfWrite {
		t.Fatalf("OddsOfWrite = %d, want %d", cfg.OddsOfWrite, DefaultOddsOfWrite)
	}
}

func TestNewSuiteOptions(t *testing.T) {
	s, err := NewSuite(WithKeySpace(101), WithIdentity("other"), WithOddsOfWrite(7))
	if err != nil {
		t.Fatalf("NewSuite() error: %v", err)
	}
	want := Config{KeySpace: 101, Identity: "other", OddsOfWrite: 7}
	if got := s.Config(); got != want {
		t.Fatalf("Config() = %+v, want %+v", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  func(*Config)
		want error
	}{
		{"Prime2", WithKeySpace(2), nil},
		{"Prime101", WithKeySpace(101), nil},
		{"Prime65537", WithKeySpace(65537), nil},
		{"Zero", WithKeySpace(0), ErrKeySpaceNotPrime},
		{"One", WithKeySpace(1), ErrKeySpaceNotPrime},
		{"Negative", WithKeySpace(-7), ErrKeySpaceNotPrime},
		{"Composite1000", WithKeySpace(1000), ErrKeySpaceNotPrime},
		{"Carmichael561", WithKeySpace(561), ErrKeySpaceNotPrime},
		{"OddsZero", WithOddsOfWrite(0), ErrInvalidOdds},
		{"OddsNegative", WithOddsOfWrite(-1), ErrInvalidOdds},
		{"OddsOne", WithOddsOfWrite(1), nil},
		{"EmptyIdentity", WithIdentity(""), ErrEmptyIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSuite(tt.opt)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsPrime(t *testing.T) {
	var sieve [2000]bool
	for i := 2; i < len(sieve); i++ {
		if sieve[i] {
			continue
		}
		for j := i * i; j < len(sieve); j += i {
			sieve[j] = true
		}
	}
	for n := -3; n < len(sieve); n++ {
		want := n >= 2 && !sieve[n]
		if got := isPrime(n); got != want {
			t.Fatalf("isPrime(%d) = %v, want %v", n, got, want)
		}
	}
}
