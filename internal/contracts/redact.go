package contracts

import "github.com/hyli-org/explorer/internal/borsh"

// Redaction masks fields of one enum variant's struct payload.
type Redaction struct {
	Variant string
	Fields  []string
}

func redact(v borsh.Value, rules []Redaction) borsh.Value {
	if len(rules) == 0 || v.Kind != borsh.KindEnum || v.Payload == nil {
		return v
	}
	for _, rule := range rules {
		if rule.Variant != v.Variant {
			continue
		}
		payload := *v.Payload
		for _, field := range rule.Fields {
			if _, ok := payload.Field(field); ok {
				payload = payload.With(field, borsh.NewString(Masked))
			}
		}
		return borsh.NewEnum(v.Tag, v.Variant, payload)
	}
	return v
}
