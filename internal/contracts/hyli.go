package contracts

import "github.com/hyli-org/explorer/internal/borsh"

const (
	LabelRegisterContract    = "RegisterContractAction"
	LabelUpdateTimeoutWindow = "UpdateContractTimeoutWindowAction"
	LabelUpdateProgramID     = "UpdateContractProgramIdAction"
	LabelDeleteContract      = "DeleteContractAction"
)

func hyliEntries() []Entry {
	return []Entry{
		{Domain: DomainHyli, Version: 1, Label: "HyliAction", Envelope: EnvelopeBare, Candidates: chainActionCandidates()},
	}
}

func timeoutWindow() *borsh.Schema {
	return borsh.Enum(
		borsh.F("NoTimeout", borsh.Unit()),
		borsh.F("Timeout", borsh.U64()),
	)
}

// chainActionCandidates lists core chain actions in probe order. A register
// payload can be mistaken for a shorter action unless it is tried first.
func chainActionCandidates() []Candidate {
	return []Candidate{
		{
			Label:    LabelRegisterContract,
			Envelope: EnvelopeBare,
			Schema: borsh.Struct(
				borsh.F("verifier", borsh.String()),
				borsh.F("program_id", borsh.Bytes()),
				borsh.F("state_commitment", borsh.Bytes()),
				borsh.F("contract_name", borsh.String()),
				borsh.F("timeout_window", borsh.Option(timeoutWindow())),
				borsh.F("metadata", borsh.Option(borsh.Bytes())),
			),
		},
		{
			Label:    LabelUpdateTimeoutWindow,
			Envelope: EnvelopeBare,
			Schema: borsh.Struct(
				borsh.F("contract_name", borsh.String()),
				borsh.F("timeout_window", timeoutWindow()),
			),
		},
		{
			Label:    LabelUpdateProgramID,
			Envelope: EnvelopeBare,
			Schema: borsh.Struct(
				borsh.F("contract_name", borsh.String()),
				borsh.F("program_id", borsh.Bytes()),
			),
		},
		{
			Label:    LabelDeleteContract,
			Envelope: EnvelopeBare,
			Schema: borsh.Struct(
				borsh.F("contract_name", borsh.String()),
			),
		},
	}
}
