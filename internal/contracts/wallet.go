package contracts

import "github.com/hyli-org/explorer/internal/borsh"

// Masked replaces redacted identity fields in every decoded action.
const Masked = "***"

var registerIdentityRedaction = Redaction{
	Variant: "RegisterIdentity",
	Fields:  []string{"salt", "invite_code"},
}

func walletEntries() []Entry {
	return []Entry{
		{Domain: DomainWallet, Version: 1, Label: "WalletAction", Envelope: EnvelopeBare, Action: walletV1(), Redactions: []Redaction{registerIdentityRedaction}},
		{Domain: DomainWallet, Version: 2, Label: "WalletAction", Envelope: EnvelopeBare, Action: walletV2(), Redactions: []Redaction{registerIdentityRedaction}},
		{Domain: DomainWallet, Version: 3, Label: "WalletAction", Envelope: EnvelopeBare, Action: walletV3(), Redactions: []Redaction{registerIdentityRedaction}},
		{Domain: DomainWallet, Version: 4, Label: "WalletAction", Envelope: EnvelopeBare, Action: walletV4(), Redactions: []Redaction{registerIdentityRedaction}},
		{Domain: DomainWallet, Version: 5, Label: "WalletAction", Envelope: EnvelopeBare, Action: walletV5(), Redactions: []Redaction{registerIdentityRedaction}},
	}
}

// v1: u32 nonces, password auth only, u64 session expiry.
func walletV1() *borsh.Schema {
	return borsh.Enum(
		borsh.F("RegisterIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U32()),
			borsh.F("auth_method", borsh.Enum(
				borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))),
			)),
		)),
		borsh.F("VerifyIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U32()),
		)),
		borsh.F("AddSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("expiration_date", borsh.U64()),
			borsh.F("nonce", borsh.U32()),
		)),
		borsh.F("RemoveSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("nonce", borsh.U32()),
		)),
		borsh.F("UseSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U32()),
		)),
	)
}

// v2: nonces and expiry widened to u128, mandatory whitelist.
func walletV2() *borsh.Schema {
	return borsh.Enum(
		borsh.F("RegisterIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
			borsh.F("auth_method", borsh.Enum(
				borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))),
			)),
		)),
		borsh.F("VerifyIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("AddSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("expiration_date", borsh.U128()),
			borsh.F("whitelist", borsh.Vec(borsh.String())),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("RemoveSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UseSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
	)
}

// v3: salted registration, jwt and ethereum auth, optional whitelist.
func walletV3() *borsh.Schema {
	return borsh.Enum(
		borsh.F("RegisterIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
			borsh.F("salt", borsh.String()),
			borsh.F("auth_method", borsh.Enum(
				borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))),
				borsh.F("Jwt", borsh.Struct(borsh.F("hash", borsh.FixedBytes(32)))),
				borsh.F("Ethereum", borsh.Struct(borsh.F("address", borsh.String()))),
			)),
		)),
		borsh.F("VerifyIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("AddSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("expiration_date", borsh.U128()),
			borsh.F("whitelist", borsh.Option(borsh.Vec(borsh.String()))),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("RemoveSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UseSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
	)
}

// v4: invite codes, uninitialized auth, lane-bound session keys.
func walletV4() *borsh.Schema {
	return borsh.Enum(
		borsh.F("RegisterIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
			borsh.F("salt", borsh.String()),
			borsh.F("auth_method", borsh.Enum(
				borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))),
				borsh.F("Jwt", borsh.Struct(borsh.F("hash", borsh.FixedBytes(32)))),
				borsh.F("Ethereum", borsh.Struct(borsh.F("address", borsh.String()))),
				borsh.F("Uninitialized", borsh.Unit()),
			)),
			borsh.F("invite_code", borsh.String()),
		)),
		borsh.F("VerifyIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("AddSessionKey", addSessionKeyV4()),
		borsh.F("RemoveSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UseSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UpdateInviteCodePublicKey", updateInviteCodePublicKey()),
	)
}

// v5 is the current wallet program: adds HyliApp auth.
func walletV5() *borsh.Schema {
	return borsh.Enum(
		borsh.F("RegisterIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
			borsh.F("salt", borsh.String()),
			borsh.F("auth_method", borsh.Enum(
				borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))),
				borsh.F("Jwt", borsh.Struct(borsh.F("hash", borsh.FixedBytes(32)))),
				borsh.F("Ethereum", borsh.Struct(borsh.F("address", borsh.String()))),
				borsh.F("Uninitialized", borsh.Unit()),
				borsh.F("HyliApp", borsh.Struct(borsh.F("address", borsh.String()))),
			)),
			borsh.F("invite_code", borsh.String()),
		)),
		borsh.F("VerifyIdentity", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("AddSessionKey", addSessionKeyV4()),
		borsh.F("RemoveSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("key", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UseSessionKey", borsh.Struct(
			borsh.F("account", borsh.String()),
			borsh.F("nonce", borsh.U128()),
		)),
		borsh.F("UpdateInviteCodePublicKey", updateInviteCodePublicKey()),
	)
}

func addSessionKeyV4() *borsh.Schema {
	return borsh.Struct(
		borsh.F("account", borsh.String()),
		borsh.F("key", borsh.String()),
		borsh.F("expiration_date", borsh.U128()),
		borsh.F("whitelist", borsh.Option(borsh.Vec(borsh.String()))),
		borsh.F("lane_id", borsh.Option(borsh.String())),
		borsh.F("nonce", borsh.U128()),
	)
}

func updateInviteCodePublicKey() *borsh.Schema {
	return borsh.Struct(
		borsh.F("invite_code_public_key", borsh.FixedBytes(33)),
		borsh.F("smt_root", borsh.FixedBytes(32)),
	)
}
