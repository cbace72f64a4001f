package contracts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hyli-org/explorer/internal/borsh"
)

// Domain names a contract family whose actions share a schema history.
type Domain string

const (
	DomainWallet    Domain = "wallet"
	DomainOrderbook Domain = "orderbook"
	DomainBlackjack Domain = "blackjack"
	DomainBoardGame Domain = "board_game"
	DomainMinigame  Domain = "minigame"
	DomainUTXO      Domain = "utxo"
	DomainUTXOState Domain = "utxo_state"
	DomainHyli      Domain = "hyli"
)

var (
	ErrUnknownDomain  = errors.New("unknown contract domain")
	ErrUnknownVersion = errors.New("unknown schema version")
)

// Entry is one independent schema version of a domain.
type Entry struct {
	Domain      Domain
	Version     int
	Label       string
	Action      *borsh.Schema
	Envelope    Envelope
	ExactLength int
	Redactions  []Redaction
	// Candidates replaces Action for untagged domains resolved by trial decoding.
	Candidates []Candidate
}

// Wire returns the full schema the buffer is decoded against.
func (e Entry) Wire() *borsh.Schema {
	if e.Action == nil {
		return nil
	}
	return Wrap(e.Envelope, e.Action)
}

// Action is a decoded, unwrapped and redacted contract action.
type Action struct {
	Domain   Domain      `json:"domain"`
	Version  int         `json:"version"`
	Envelope Envelope    `json:"envelope"`
	Name     string      `json:"name"`
	ID       string      `json:"id,omitempty"`
	Caller   *uint64     `json:"caller,omitempty"`
	Callees  []uint64    `json:"callees,omitempty"`
	Value    borsh.Value `json:"value"`
}

// Registry maps (domain, version) to schema entries. It is immutable after
// NewRegistry and safe for concurrent use.
type Registry struct {
	entries    map[Domain][]Entry
	candidates []Candidate
}

// NewRegistry builds the registry from the built-in schema tables.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[Domain][]Entry)}
	var all []Entry
	all = append(all, walletEntries()...)
	all = append(all, orderbookEntries()...)
	all = append(all, gameEntries()...)
	all = append(all, utxoEntries()...)
	all = append(all, hyliEntries()...)
	for _, e := range all {
		r.entries[e.Domain] = append(r.entries[e.Domain], e)
	}
	for d := range r.entries {
		list := r.entries[d]
		sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	}
	r.candidates = chainActionCandidates()
	return r
}

// Lookup returns the entry for an exact domain version.
func (r *Registry) Lookup(domain Domain, version int) (Entry, error) {
	list, ok := r.entries[domain]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}
	for _, e := range list {
		if e.Version == version {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s v%d", ErrUnknownVersion, domain, version)
}

// Latest returns the highest version of a domain.
func (r *Registry) Latest(domain Domain) (Entry, error) {
	list, ok := r.entries[domain]
	if !ok || len(list) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}
	return list[len(list)-1], nil
}

// Versions lists the known versions of a domain in ascending order.
func (r *Registry) Versions(domain Domain) []int {
	list := r.entries[domain]
	out := make([]int, len(list))
	for i, e := range list {
		out[i] = e.Version
	}
	return out
}

func (r *Registry) Domains() []Domain {
	out := make([]Domain, 0, len(r.entries))
	for d := range r.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entries returns every entry ordered by domain then version.
func (r *Registry) Entries() []Entry {
	var out []Entry
	for _, d := range r.Domains() {
		out = append(out, r.entries[d]...)
	}
	return out
}

// ChainActionCandidates returns the core chain actions in probe order.
func (r *Registry) ChainActionCandidates() []Candidate {
	out := make([]Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// DisambiguateChainAction decodes an untagged core chain action.
func (r *Registry) DisambiguateChainAction(buf []byte) (string, borsh.Value, error) {
	return Disambiguate(buf, r.candidates)
}

// DecodeAction decodes buf as an action of the given domain. Version 0
// selects the latest version. Redacted fields never leave this call in
// clear text.
func (r *Registry) DecodeAction(domain Domain, version int, buf []byte) (Action, error) {
	var (
		entry Entry
		err   error
	)
	if version == 0 {
		entry, err = r.Latest(domain)
	} else {
		entry, err = r.Lookup(domain, version)
	}
	if err != nil {
		return Action{}, err
	}
	return entry.Decode(buf)
}

// Decode decodes buf against this entry.
func (e Entry) Decode(buf []byte) (Action, error) {
	out := Action{Domain: e.Domain, Version: e.Version, Envelope: e.Envelope}

	if e.ExactLength > 0 {
		if err := borsh.CheckLength(buf, e.ExactLength); err != nil {
			return Action{}, err
		}
	}

	if len(e.Candidates) > 0 {
		label, value, err := Disambiguate(buf, e.Candidates)
		if err != nil {
			return Action{}, err
		}
		out.Name = label
		out.Value = redact(value, e.Redactions)
		return out, nil
	}

	wire := e.Wire()
	if wire == nil {
		return Action{}, fmt.Errorf("%s v%d has no schema", e.Domain, e.Version)
	}
	decoded, err := borsh.Unmarshal(wire, buf)
	if err != nil {
		return Action{}, fmt.Errorf("%s: %w", e.Label, err)
	}
	parts, err := unwrap(e.Envelope, decoded)
	if err != nil {
		return Action{}, fmt.Errorf("%s: %w", e.Label, err)
	}

	out.ID = parts.id
	out.Caller = parts.caller
	out.Callees = parts.callees
	out.Value = redact(parts.action, e.Redactions)
	out.Name = e.Label
	if out.Value.Kind == borsh.KindEnum {
		out.Name = out.Value.Variant
	}
	return out, nil
}
