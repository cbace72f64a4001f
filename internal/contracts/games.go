package contracts

import "github.com/hyli-org/explorer/internal/borsh"

func gameEntries() []Entry {
	return []Entry{
		{Domain: DomainBlackjack, Version: 1, Label: "BlackJackAction", Envelope: EnvelopeStructuredBlob, Action: blackjackV1()},
		{Domain: DomainBoardGame, Version: 1, Label: "GameAction", Envelope: EnvelopeStructuredBlobIDTupled, Action: boardGameV1()},
		{Domain: DomainMinigame, Version: 1, Label: "ChainAction", Envelope: EnvelopeStructuredBlobIDTupled, Action: minigameV1()},
	}
}

func blackjackV1() *borsh.Schema {
	return borsh.Enum(
		borsh.F("Init", borsh.Unit()),
		borsh.F("Hit", borsh.Unit()),
		borsh.F("Stand", borsh.Unit()),
		borsh.F("DoubleDown", borsh.Unit()),
		borsh.F("Claim", borsh.Unit()),
		borsh.F("Withdraw", borsh.Struct(borsh.F("amount", borsh.U128()))),
	)
}

// seat is (identity, display name, deposit).
func seats() *borsh.Schema {
	return borsh.Vec(borsh.Tuple(borsh.String(), borsh.String(), borsh.U64()))
}

func boardGameV1() *borsh.Schema {
	return borsh.Enum(
		borsh.F("EndGame", borsh.Unit()),
		borsh.F("Initialize", borsh.Struct(
			borsh.F("minigames", borsh.Vec(borsh.String())),
			borsh.F("random_seed", borsh.U64()),
		)),
		borsh.F("RegisterPlayer", borsh.Struct(
			borsh.F("name", borsh.String()),
			borsh.F("deposit", borsh.U64()),
		)),
		borsh.F("StartGame", borsh.Unit()),
		borsh.F("PlaceBet", borsh.Struct(borsh.F("amount", borsh.U64()))),
		borsh.F("SpinWheel", borsh.Unit()),
		borsh.F("StartMinigame", borsh.Struct(
			borsh.F("minigame", borsh.String()),
			borsh.F("players", seats()),
		)),
		borsh.F("EndMinigame", borsh.Struct(
			borsh.F("result", borsh.Struct(
				borsh.F("contract_name", borsh.String()),
				borsh.F("player_results", borsh.Vec(borsh.Struct(
					borsh.F("player_id", borsh.String()),
					borsh.F("coins_delta", borsh.I64()),
				))),
			)),
		)),
		borsh.F("EndTurn", borsh.Unit()),
		borsh.F("DistributeRewards", borsh.Unit()),
	)
}

// minigameV1 is the crash game chain action.
func minigameV1() *borsh.Schema {
	return borsh.Enum(
		borsh.F("InitMinigame", borsh.Struct(
			borsh.F("players", seats()),
			borsh.F("time", borsh.U64()),
		)),
		borsh.F("Start", borsh.Struct(borsh.F("time", borsh.U64()))),
		borsh.F("CashOut", borsh.Struct(
			borsh.F("player_id", borsh.String()),
			borsh.F("multiplier", borsh.F64()),
		)),
		borsh.F("Crash", borsh.Struct(borsh.F("final_multiplier", borsh.F64()))),
		borsh.F("Done", borsh.Unit()),
	)
}
