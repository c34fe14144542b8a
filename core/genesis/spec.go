package genesis

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

// Spec describes the initial state of a care-hours node.
type Spec struct {
	GenesisTime       string            `yaml:"genesisTime"`
	BookingAdmin      string            `yaml:"bookingAdmin"`
	VerificationAdmin string            `yaml:"verificationAdmin"`
	Alloc             map[string]uint64 `yaml:"alloc"`
	Profiles          []string          `yaml:"profiles"`
	Offers            []ListingSpec     `yaml:"offers"`
	Requests          []ListingSpec     `yaml:"requests"`

	genesisTimestamp  time.Time
	bookingAdmin      [20]byte
	verificationAdmin [20]byte
	alloc             []allocation
	profiles          [][20]byte
}

// ListingSpec seeds an offer or request owned by Owner.
type ListingSpec struct {
	Owner string `yaml:"owner"`
	Title string `yaml:"title"`
	Hours uint64 `yaml:"hours"`

	owner [20]byte
}

type allocation struct {
	account [20]byte
	amount  uint64
}

// LoadSpec reads and validates a YAML genesis file.
func LoadSpec(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genesis: read %s: %w", path, err)
	}
	return ParseSpec(raw)
}

// ParseSpec decodes and validates a YAML genesis document.
func ParseSpec(raw []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("genesis: decode: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// GenesisTimestamp returns the parsed genesis time. It is only meaningful after
// Validate succeeds.
func (s *Spec) GenesisTimestamp() time.Time { return s.genesisTimestamp }

// Validate parses every address and checks the listing amounts.
func (s *Spec) Validate() error {
	if s == nil {
		return errors.New("genesis: spec must not be nil")
	}
	ts, err := parseGenesisTime(s.GenesisTime)
	if err != nil {
		return err
	}
	s.genesisTimestamp = ts

	if s.bookingAdmin, err = parseRequired("bookingAdmin", s.BookingAdmin); err != nil {
		return err
	}
	if s.verificationAdmin, err = parseRequired("verificationAdmin", s.VerificationAdmin); err != nil {
		return err
	}

	s.alloc = s.alloc[:0]
	for addr, amount := range s.Alloc {
		account, err := crypto.ParseAccount(addr)
		if err != nil {
			return fmt.Errorf("genesis: alloc %q: %w", addr, err)
		}
		if amount == 0 {
			return fmt.Errorf("genesis: alloc %q: amount must be positive", addr)
		}
		s.alloc = append(s.alloc, allocation{account: account, amount: amount})
	}
	sort.Slice(s.alloc, func(i, j int) bool {
		return bytes.Compare(s.alloc[i].account[:], s.alloc[j].account[:]) < 0
	})

	s.profiles = s.profiles[:0]
	seen := make(map[[20]byte]struct{}, len(s.Profiles))
	for _, addr := range s.Profiles {
		account, err := crypto.ParseAccount(addr)
		if err != nil {
			return fmt.Errorf("genesis: profile %q: %w", addr, err)
		}
		if _, dup := seen[account]; dup {
			return fmt.Errorf("genesis: profile %q listed twice", addr)
		}
		seen[account] = struct{}{}
		s.profiles = append(s.profiles, account)
	}

	for i := range s.Offers {
		if err := s.Offers[i].validate("offer", i); err != nil {
			return err
		}
	}
	for i := range s.Requests {
		if err := s.Requests[i].validate("request", i); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListingSpec) validate(kind string, index int) error {
	owner, err := crypto.ParseAccount(l.Owner)
	if err != nil {
		return fmt.Errorf("genesis: %s %d owner: %w", kind, index, err)
	}
	if l.Hours == 0 {
		return fmt.Errorf("genesis: %s %d: hours must be positive", kind, index)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("genesis: %s %d: title required", kind, index)
	}
	l.owner = owner
	return nil
}

func parseRequired(field, value string) ([20]byte, error) {
	if strings.TrimSpace(value) == "" {
		return [20]byte{}, fmt.Errorf("genesis: %s required", field)
	}
	account, err := crypto.ParseAccount(value)
	if err != nil {
		return [20]byte{}, fmt.Errorf("genesis: %s: %w", field, err)
	}
	return account, nil
}

func parseGenesisTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, errors.New("genesis: genesisTime required")
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("genesis: invalid genesisTime %q: %w", value, err)
	}
	return ts.UTC(), nil
}
