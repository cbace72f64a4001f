package events

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/hyli-org/explorer/internal/model"
)

// SplitEntry turns one indexer event entry into individual events ordered
// by (block height, index). Typed events ({"type": "Settled", ...}) keep the
// whole object as metadata; keyed events ({"Settled": [...], "index": 2})
// use their first non-index key as the name and its value as metadata.
// Entries that are not JSON objects are skipped.
func SplitEntry(entry model.EventEntry) []model.EventInfo {
	out := make([]model.EventInfo, 0, len(entry.Events))
	for _, raw := range entry.Events {
		info, ok := splitEvent(raw)
		if !ok {
			continue
		}
		info.BlockHash = entry.BlockHash
		info.BlockHeight = entry.BlockHeight
		out = append(out, info)
	}
	SortEvents(out)
	return out
}

// SortEvents orders events by block height, then index. Ties keep their
// input order.
func SortEvents(events []model.EventInfo) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockHeight != events[j].BlockHeight {
			return events[i].BlockHeight < events[j].BlockHeight
		}
		return events[i].Index < events[j].Index
	})
}

func splitEvent(raw json.RawMessage) (model.EventInfo, bool) {
	if !gjson.ValidBytes(raw) {
		return model.EventInfo{}, false
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return model.EventInfo{}, false
	}

	info := model.EventInfo{Raw: raw}
	if idx := root.Get("index"); idx.Type == gjson.Number {
		if n, ok := toUint(idx); ok {
			info.Index = n
		}
	}

	if typ := root.Get("type"); typ.Type == gjson.String && typ.Str != "" {
		info.Name = typ.Str
		info.Metadata = raw
		return info, true
	}

	root.ForEach(func(k, v gjson.Result) bool {
		if k.String() == "index" {
			return true
		}
		info.Name = k.String()
		info.Metadata = json.RawMessage(v.Raw)
		return false
	})
	if info.Name == "" {
		return model.EventInfo{}, false
	}
	return info, true
}

// Record normalizes info and attaches its severity and description. The
// transaction hash found in the event wins over fallbackTx.
func Record(fallbackTx string, info model.EventInfo) model.EventRecord {
	ev := Normalize(info.Name, info.Metadata)
	described := ev
	if described.TxHash == "" {
		described.TxHash = fallbackTx
	}
	return model.EventRecord{
		TxHash:      described.TxHash,
		BlockHash:   info.BlockHash,
		BlockHeight: info.BlockHeight,
		Index:       info.Index,
		Kind:        ev.Kind,
		Severity:    string(ClassifyEvent(ev)),
		Description: Describe(described),
		Event:       ev,
	}
}
