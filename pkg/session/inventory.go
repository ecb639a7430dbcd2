package session

import "fmt"

// DefaultInventoryCapacity is the number of items a player can carry.
const DefaultInventoryCapacity = 10

// DiscardNewItemChoice is the option that declines a found item when the
// inventory is full, leaving the inventory unchanged.
const DiscardNewItemChoice = "Discard the new item"

// AddResult is the outcome of attempting to add an item to the inventory.
type AddResult struct {
	Accepted bool

	// DiscardChoices is populated when the add was rejected at capacity:
	// one "Discard <item>" entry per held item, plus the option to
	// discard the incoming item instead.
	DiscardChoices []string
}

// TryAdd appends item to the inventory if there is room. At capacity it
// rejects the add without mutating the inventory and returns the choice
// set for the swap protocol.
func (s *Session) TryAdd(item string, capacity int) AddResult {
	if capacity <= 0 {
		capacity = DefaultInventoryCapacity
	}
	if len(s.Inventory) < capacity {
		s.Inventory = append(s.Inventory, item)
		return AddResult{Accepted: true}
	}

	choices := make([]string, 0, len(s.Inventory)+1)
	for _, held := range s.Inventory {
		choices = append(choices, fmt.Sprintf("Discard %s", held))
	}
	choices = append(choices, DiscardNewItemChoice)
	return AddResult{DiscardChoices: choices}
}

// ResolveSwap removes discard from the inventory and appends the pending
// incoming item in one step. It returns false if no swap is pending or
// the named item is not held, in which case nothing changes.
func (s *Session) ResolveSwap(discard string) bool {
	if s.PendingSwap == nil {
		return false
	}
	for i, held := range s.Inventory {
		if held == discard {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			s.Inventory = append(s.Inventory, s.PendingSwap.IncomingItem)
			s.PendingSwap = nil
			return true
		}
	}
	return false
}

// DeclineSwap abandons the pending incoming item, leaving the inventory
// unchanged.
func (s *Session) DeclineSwap() {
	s.PendingSwap = nil
}
