package catalog

// MaxTitleBytes bounds listing titles after NFC normalisation.
const MaxTitleBytes = 128

// Offer advertises care hours a provider is willing to deliver.
type Offer struct {
	ID           uint64
	Provider     [20]byte
	Title        string
	Hours        uint64
	Active       bool
	CreatedBlock uint64
}

// Request advertises care hours a requester needs.
type Request struct {
	ID           uint64
	Requester    [20]byte
	Title        string
	Hours        uint64
	Active       bool
	CreatedBlock uint64
}

// Clone returns a copy of the offer.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	dup := *o
	return &dup
}

// Clone returns a copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	dup := *r
	return &dup
}
