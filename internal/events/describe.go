package events

import "fmt"

// Describe renders a one-line human summary of ev.
func Describe(ev ProcessedEvent) string {
	tx := ev.TxHash
	if tx == "" {
		tx = "unknown"
	}
	contract := ev.ContractName
	if contract == "" {
		contract = "unknown"
	}

	switch ev.Kind {
	case "RejectedBlobTransaction":
		return fmt.Sprintf("Blob transaction %s was rejected", tx)
	case "DuplicateBlobTransaction":
		return fmt.Sprintf("Duplicate blob transaction detected: %s", tx)
	case "SequencedBlobTransaction":
		return fmt.Sprintf("Blob transaction %s was successfully sequenced", tx)
	case "SequencedProofTransaction":
		return fmt.Sprintf("Proof transaction %s was successfully sequenced", tx)
	case "Settled":
		return fmt.Sprintf("Transaction %s was settled successfully", tx)
	case "SettledAsFailed":
		if ev.Error != "" {
			return fmt.Sprintf("Transaction %s was settled as failed: %s", tx, ev.Error)
		}
		return fmt.Sprintf("Transaction %s was settled as failed", tx)
	case "TimedOut":
		return fmt.Sprintf("Transaction %s timed out", tx)
	case "TxError":
		return fmt.Sprintf("Transaction %s encountered an error: %s", tx, ev.Error)
	case "NewProof":
		return fmt.Sprintf("New proof generated for transaction %s", tx)
	case "BlobSettled":
		return fmt.Sprintf("Blob settled for transaction %s", tx)
	case "ContractDeleted":
		return fmt.Sprintf("Contract %s was deleted", contract)
	case "ContractRegistered":
		return fmt.Sprintf("Contract %s was registered", contract)
	case "ContractStateUpdated":
		return fmt.Sprintf("State updated for contract %s", contract)
	case "ContractProgramIdUpdated":
		return fmt.Sprintf("Program ID updated for contract %s", contract)
	case "ContractTimeoutWindowUpdated":
		return fmt.Sprintf("Timeout window updated for contract %s", contract)
	default:
		return fmt.Sprintf("Event: %s", ev.Kind)
	}
}
