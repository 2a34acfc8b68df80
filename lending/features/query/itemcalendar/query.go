package itemcalendar

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	queryType = "ItemCalendar"
)

// Query represents the intent to read the blocking calendar of an item.
type Query struct {
	ItemID core.ItemIDString
}

// BuildQuery creates a new Query with the provided item ID.
func BuildQuery(itemID core.ItemIDString) Query {
	return Query{
		ItemID: itemID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
