package reputation

// MaxScore is the highest rating an account can receive.
const MaxScore = 100

// Profile aggregates the ratings an account has received.
type Profile struct {
	Account      [20]byte
	RegisteredAt uint64
	RatingCount  uint64
	RatingSum    uint64
	LastScore    uint64
}

// Average returns the mean score, or zero for an unrated profile.
func (p *Profile) Average() uint64 {
	if p == nil || p.RatingCount == 0 {
		return 0
	}
	return p.RatingSum / p.RatingCount
}

type storedProfile struct {
	Account      [20]byte
	RegisteredAt uint64
	RatingCount  uint64
	RatingSum    uint64
	LastScore    uint64
}

func (s storedProfile) toProfile() *Profile {
	return &Profile{
		Account:      s.Account,
		RegisteredAt: s.RegisteredAt,
		RatingCount:  s.RatingCount,
		RatingSum:    s.RatingSum,
		LastScore:    s.LastScore,
	}
}
