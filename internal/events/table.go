package events

import "sort"

// target is the ProcessedEvent field an extraction writes to.
type target uint8

const (
	targetTxHash target = iota + 1
	targetLaneID
	targetSequenceNumber
	targetContractName
	targetProgramID
	targetError
	targetBlobIndex
	targetSuccess
	targetExtra
)

// coercion is the expected shape of an extracted value.
type coercion uint8

const (
	// asString accepts JSON strings only.
	asString coercion = iota + 1
	// asHash accepts a string or the second element of a
	// (data proposal hash, tx hash) pair.
	asHash
	asUint
	asBool
	// asHex accepts a byte array or a hex string and renders lowercase hex.
	asHex
	asRaw
)

// fieldSpec declares where one output field comes from. Path is a gjson
// path into positional payloads ("3.0" is the first element of argument 3).
type fieldSpec struct {
	target target
	extra  string
	path   string
	keys   []string
	coerce coercion
}

type kindSpec struct {
	fields []fieldSpec
	reason string
}

var taggedAliases = map[target][]string{
	targetTxHash:         {"tx_hash", "txHash", "tx_id", "hash"},
	targetLaneID:         {"lane_id", "laneId"},
	targetSequenceNumber: {"sequence_number", "sequenceNumber", "seq"},
	targetContractName:   {"contract_name", "contractName"},
	targetProgramID:      {"program_id", "programId"},
	targetError:          {"error", "err"},
	targetBlobIndex:      {"blob_index", "blobIndex"},
	targetSuccess:        {"success"},
}

func txHash() fieldSpec {
	return fieldSpec{target: targetTxHash, path: "0", coerce: asHash}
}

func laneID(path string) fieldSpec {
	return fieldSpec{target: targetLaneID, path: path, coerce: asString}
}

func sequenceNumber(path string) fieldSpec {
	return fieldSpec{target: targetSequenceNumber, path: path, coerce: asUint}
}

func contractName(path string) fieldSpec {
	return fieldSpec{target: targetContractName, path: path, coerce: asString}
}

func programID(path string) fieldSpec {
	return fieldSpec{target: targetProgramID, path: path, coerce: asHex}
}

func errorText(path string) fieldSpec {
	return fieldSpec{target: targetError, path: path, coerce: asString}
}

func blobIndex(path string) fieldSpec {
	return fieldSpec{target: targetBlobIndex, path: path, coerce: asUint}
}

func success(path string) fieldSpec {
	return fieldSpec{target: targetSuccess, path: path, coerce: asBool}
}

func extra(key, path string, c coercion, keys ...string) fieldSpec {
	return fieldSpec{target: targetExtra, extra: key, path: path, coerce: c, keys: append([]string{key}, keys...)}
}

// extractionTable maps event kinds to their positional layouts, which follow
// the node's event constructor arguments.
var extractionTable = map[string]kindSpec{
	"RejectedBlobTransaction": {
		fields: []fieldSpec{
			txHash(),
			laneID("1"),
			sequenceNumber("2"),
			extra("context", "4", asRaw),
		},
		reason: "Transaction rejected during blob processing",
	},
	"DuplicateBlobTransaction": {
		fields: []fieldSpec{txHash()},
		reason: "Duplicate blob transaction detected",
	},
	"SequencedBlobTransaction": {
		fields: []fieldSpec{txHash(), laneID("1"), sequenceNumber("2")},
	},
	"SequencedProofTransaction": {
		fields: []fieldSpec{txHash(), laneID("1"), sequenceNumber("2")},
	},
	"Settled": {
		fields: []fieldSpec{txHash()},
	},
	"SettledAsFailed": {
		fields: []fieldSpec{txHash(), errorText("2")},
	},
	"TimedOut": {
		fields: []fieldSpec{
			txHash(),
			extra("unsettledBlobTransaction", "1", asRaw, "unsettled_blob_transaction"),
		},
		reason: "Transaction timed out",
	},
	"TxError": {
		fields: []fieldSpec{txHash(), errorText("1")},
	},
	"NewProof": {
		fields: []fieldSpec{
			txHash(),
			blobIndex("2"),
			programID("3.0"),
			extra("blobContractName", "1.contract_name", asString, "blob_contract_name"),
			extra("blobData", "1.data", asHex, "blob_data"),
			extra("verifier", "3.1", asString),
			extra("relatedTxHash", "3.2", asHash, "related_tx_hash"),
			extra("proofIndex", "4", asUint, "proof_index"),
		},
	},
	"BlobSettled": {
		fields: []fieldSpec{
			txHash(),
			blobIndex("3"),
			programID("4.0"),
			success("4.3.success"),
			extra("blobContractName", "2.contract_name", asString, "blob_contract_name"),
			extra("blobData", "2.data", asHex, "blob_data"),
			extra("verifier", "4.1", asString),
			extra("proofIndex", "5", asUint, "proof_index"),
		},
	},
	"ContractDeleted": {
		fields: []fieldSpec{txHash(), contractName("1")},
	},
	"ContractRegistered": {
		fields: []fieldSpec{
			txHash(),
			contractName("1"),
			programID("2.program_id"),
			extra("contract", "2", asRaw),
			extra("initData", "3", asHex, "init_data"),
		},
	},
	"ContractStateUpdated": {
		fields: []fieldSpec{
			txHash(),
			contractName("1"),
			extra("contract", "2", asRaw),
			extra("stateCommitment", "3", asHex, "state_commitment"),
		},
	},
	"ContractProgramIdUpdated": {
		fields: []fieldSpec{
			txHash(),
			contractName("1"),
			programID("3"),
			extra("contract", "2", asRaw),
		},
	},
	"ContractTimeoutWindowUpdated": {
		fields: []fieldSpec{
			txHash(),
			contractName("1"),
			extra("contract", "2", asRaw),
			extra("timeoutWindow", "3", asRaw, "timeout_window"),
		},
	},
}

// KnownKinds lists the event kinds with a dedicated extraction layout.
func KnownKinds() []string {
	out := make([]string, 0, len(extractionTable))
	for kind := range extractionTable {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
