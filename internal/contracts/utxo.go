package contracts

import "github.com/hyli-org/explorer/internal/borsh"

// UTXONoteLength is the exact size of a note blob: two commitments and two
// nullifiers of 32 bytes each.
const UTXONoteLength = 128

func utxoEntries() []Entry {
	return []Entry{
		{Domain: DomainUTXO, Version: 1, Label: "UtxoNotes", Envelope: EnvelopeBare, Action: utxoNotesV1(), ExactLength: UTXONoteLength},
		{Domain: DomainUTXOState, Version: 1, Label: "CommitmentSnapshot", Envelope: EnvelopeBare, Action: utxoStateV1()},
	}
}

func utxoNotesV1() *borsh.Schema {
	return borsh.Struct(
		borsh.F("commit0", borsh.FixedBytes(32)),
		borsh.F("commit1", borsh.FixedBytes(32)),
		borsh.F("nullifier0", borsh.FixedBytes(32)),
		borsh.F("nullifier1", borsh.FixedBytes(32)),
	)
}

func utxoStateV1() *borsh.Schema {
	return borsh.Struct(
		borsh.F("notes_root", borsh.FixedBytes(32)),
		borsh.F("nullified_notes_root", borsh.FixedBytes(32)),
	)
}
