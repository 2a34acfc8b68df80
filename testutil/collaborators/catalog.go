package collaborators

import (
	"context"
	"sync"
)

// Lending statuses of a catalog item.
const (
	ItemAvailable = "AVAILABLE"
	ItemBorrowed  = "BORROWED"
)

type catalogItem struct {
	ownerID  string
	listed   bool
	status   string
	statuses []string
}

// Catalog is an in-memory item catalog.
//
// IsBorrowable reports whether the item is listed; its lending status does not matter because
// future windows of a borrowed item can still be booked.
type Catalog struct {
	mu    sync.Mutex
	items map[string]*catalogItem

	LookupErr        error
	MarkBorrowedErr  error
	MarkAvailableErr error
}

func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*catalogItem)}
}

// AddItem lists an available item of the owner.
func (c *Catalog) AddItem(itemID, ownerID string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[itemID] = &catalogItem{ownerID: ownerID, listed: true, status: ItemAvailable}

	return c
}

// Unlist makes the item not borrowable.
func (c *Catalog) Unlist(itemID string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[itemID]; ok {
		item.listed = false
	}

	return c
}

func (c *Catalog) OwnerOf(_ context.Context, itemID string) (string, bool, error) {
	if c.LookupErr != nil {
		return "", false, c.LookupErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return "", false, nil
	}

	return item.ownerID, true, nil
}

func (c *Catalog) IsBorrowable(_ context.Context, itemID string) (bool, error) {
	if c.LookupErr != nil {
		return false, c.LookupErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]

	return ok && item.listed, nil
}

func (c *Catalog) MarkBorrowed(_ context.Context, itemID string) error {
	if c.MarkBorrowedErr != nil {
		return c.MarkBorrowedErr
	}

	c.setStatus(itemID, ItemBorrowed)

	return nil
}

func (c *Catalog) MarkAvailable(_ context.Context, itemID string) error {
	if c.MarkAvailableErr != nil {
		return c.MarkAvailableErr
	}

	c.setStatus(itemID, ItemAvailable)

	return nil
}

func (c *Catalog) setStatus(itemID, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		item = &catalogItem{status: ItemAvailable}
		c.items[itemID] = item
	}

	item.status = status
	item.statuses = append(item.statuses, status)
}

// StatusOf returns the current lending status, "" for unknown items.
func (c *Catalog) StatusOf(itemID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[itemID]; ok {
		return item.status
	}

	return ""
}

// StatusChanges returns every status the item was set to, in order.
func (c *Catalog) StatusChanges(itemID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[itemID]; ok {
		return append([]string(nil), item.statuses...)
	}

	return nil
}
