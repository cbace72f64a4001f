package contracts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/hyli-org/explorer/internal/model"
)

// BlobDecoderConfig configures contract routing.
type BlobDecoderConfig struct {
	// ContractMap maps contract names to "domain" or "domain@version".
	ContractMap     map[string]string
	VersionFallback bool
	IncludeRaw      bool
}

// DefaultContractMap routes the contract names deployed by the Hyli apps.
func DefaultContractMap() map[string]string {
	return map[string]string{
		"wallet":     string(DomainWallet),
		"orderbook":  string(DomainOrderbook),
		"blackjack":  string(DomainBlackjack),
		"board_game": string(DomainBoardGame),
		"crash_game": string(DomainMinigame),
		"utxo":       string(DomainUTXO),
		"utxo_state": string(DomainUTXOState),
		"hyli":       string(DomainHyli),
	}
}

type route struct {
	domain  Domain
	version int
}

// BlobDecoder decodes transaction blobs by contract name.
type BlobDecoder struct {
	registry   *Registry
	routes     map[string]route
	fallback   bool
	includeRaw bool
}

// NewBlobDecoder builds a decoder from the defaults overridden by cfg.ContractMap.
func NewBlobDecoder(registry *Registry, cfg BlobDecoderConfig) (*BlobDecoder, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}

	mapping := DefaultContractMap()
	for name, target := range cfg.ContractMap {
		mapping[name] = target
	}

	routes := make(map[string]route, len(mapping))
	for name, target := range mapping {
		r, err := parseRoute(target)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", name, err)
		}
		if r.version == 0 {
			if _, err := registry.Latest(r.domain); err != nil {
				return nil, fmt.Errorf("contract %s: %w", name, err)
			}
		} else if _, err := registry.Lookup(r.domain, r.version); err != nil {
			return nil, fmt.Errorf("contract %s: %w", name, err)
		}
		routes[name] = r
	}

	return &BlobDecoder{
		registry:   registry,
		routes:     routes,
		fallback:   cfg.VersionFallback,
		includeRaw: cfg.IncludeRaw,
	}, nil
}

func parseRoute(target string) (route, error) {
	target = strings.TrimSpace(target)
	domain, version, found := strings.Cut(target, "@")
	r := route{domain: Domain(strings.TrimSpace(domain))}
	if r.domain == "" {
		return route{}, fmt.Errorf("empty domain in %q", target)
	}
	if found {
		v := strings.TrimPrefix(strings.TrimSpace(version), "v")
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return route{}, fmt.Errorf("invalid version in %q", target)
		}
		r.version = n
	}
	return r, nil
}

// CanDecode reports whether the contract is routed to a domain.
func (d *BlobDecoder) CanDecode(contractName string) bool {
	_, ok := d.routes[contractName]
	return ok
}

// Decode decodes one blob. With version fallback enabled, a failure on the
// routed version is retried against the other versions, newest first.
func (d *BlobDecoder) Decode(blob model.BlobRecord) (*model.DecodedBlob, error) {
	r, ok := d.routes[blob.ContractName]
	if !ok {
		return nil, fmt.Errorf("unsupported contract: %s", blob.ContractName)
	}

	data, err := decodeHex(blob.Data)
	if err != nil {
		return nil, fmt.Errorf("blob data: %w", err)
	}

	action, err := d.registry.DecodeAction(r.domain, r.version, data)
	if err == nil {
		return d.build(blob, action, 0)
	}
	if !d.fallback {
		return nil, err
	}

	tried := r.version
	if tried == 0 {
		latest, _ := d.registry.Latest(r.domain)
		tried = latest.Version
	}
	versions := d.registry.Versions(r.domain)
	for i := len(versions) - 1; i >= 0; i-- {
		if versions[i] == tried {
			continue
		}
		action, fallbackErr := d.registry.DecodeAction(r.domain, versions[i], data)
		if fallbackErr == nil {
			return d.build(blob, action, tried)
		}
	}
	return nil, err
}

func (d *BlobDecoder) build(blob model.BlobRecord, action Action, fallbackFrom int) (*model.DecodedBlob, error) {
	decoded, err := json.Marshal(action.Value)
	if err != nil {
		return nil, fmt.Errorf("render action: %w", err)
	}
	out := &model.DecodedBlob{
		TxHash:       blob.TxHash,
		BlockHeight:  blob.BlockHeight,
		BlobIndex:    blob.BlobIndex,
		ContractName: blob.ContractName,
		Domain:       string(action.Domain),
		Version:      action.Version,
		Envelope:     action.Envelope.String(),
		Action:       action.Name,
		ID:           action.ID,
		Caller:       action.Caller,
		Callees:      action.Callees,
		Decoded:      json.RawMessage(decoded),
		FallbackFrom: fallbackFrom,
	}
	if d.includeRaw {
		out.Raw = &model.RawBlobRef{Data: blob.Data}
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}
