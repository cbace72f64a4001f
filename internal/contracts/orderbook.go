package contracts

import "github.com/hyli-org/explorer/internal/borsh"

func orderbookEntries() []Entry {
	return []Entry{
		{Domain: DomainOrderbook, Version: 1, Label: "OrderbookAction", Envelope: EnvelopeBare, Action: orderbookV1()},
		{Domain: DomainOrderbook, Version: 2, Label: "OrderbookAction", Envelope: EnvelopeBare, Action: orderbookV2()},
		{Domain: DomainOrderbook, Version: 3, Label: "OrderbookAction", Envelope: EnvelopeBare, Action: orderbookV3()},
	}
}

func orderType() *borsh.Schema {
	return borsh.Enum(
		borsh.F("Buy", borsh.Unit()),
		borsh.F("Sell", borsh.Unit()),
	)
}

func tokenPair() *borsh.Schema {
	return borsh.Struct(
		borsh.F("base", borsh.String()),
		borsh.F("quote", borsh.String()),
	)
}

func createOrder(price *borsh.Schema) *borsh.Schema {
	return borsh.Struct(
		borsh.F("order_id", borsh.String()),
		borsh.F("order_type", orderType()),
		borsh.F("price", price),
		borsh.F("pair", tokenPair()),
		borsh.F("quantity", borsh.U32()),
	)
}

func cancelOrder() *borsh.Schema {
	return borsh.Struct(borsh.F("order_id", borsh.String()))
}

func tokenTransfer() *borsh.Schema {
	return borsh.Struct(
		borsh.F("token", borsh.String()),
		borsh.F("amount", borsh.U32()),
	)
}

// v1: limit orders only.
func orderbookV1() *borsh.Schema {
	return borsh.Enum(
		borsh.F("CreateOrder", createOrder(borsh.U32())),
		borsh.F("Cancel", cancelOrder()),
	)
}

// v2: market orders (no price) and withdrawals.
func orderbookV2() *borsh.Schema {
	return borsh.Enum(
		borsh.F("CreateOrder", createOrder(borsh.Option(borsh.U32()))),
		borsh.F("Cancel", cancelOrder()),
		borsh.F("Withdraw", tokenTransfer()),
	)
}

// v3 inserts Deposit ahead of Withdraw, shifting its tag.
func orderbookV3() *borsh.Schema {
	return borsh.Enum(
		borsh.F("CreateOrder", createOrder(borsh.Option(borsh.U32()))),
		borsh.F("Cancel", cancelOrder()),
		borsh.F("Deposit", tokenTransfer()),
		borsh.F("Withdraw", tokenTransfer()),
	)
}
