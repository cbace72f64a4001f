package events

// Severity is the display class of an event.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

var severities = map[string]Severity{
	"RejectedBlobTransaction":   SeverityWarning,
	"DuplicateBlobTransaction":  SeverityWarning,
	"TxError":                   SeverityWarning,
	"SettledAsFailed":           SeverityError,
	"TimedOut":                  SeverityError,
	"Settled":                   SeveritySuccess,
	"SequencedBlobTransaction":  SeveritySuccess,
	"SequencedProofTransaction": SeveritySuccess,
	"NewProof":                  SeveritySuccess,
	"BlobSettled":               SeveritySuccess,
	"ContractRegistered":        SeveritySuccess,
}

// Classify maps an event kind to its severity. Unknown kinds are info.
func Classify(kind string) Severity {
	if s, ok := severities[kind]; ok {
		return s
	}
	return SeverityInfo
}

// ClassifyEvent is Classify with one override: an event carrying an error
// message is an error whatever its kind.
func ClassifyEvent(ev ProcessedEvent) Severity {
	if ev.Error != "" {
		return SeverityError
	}
	return Classify(ev.Kind)
}
