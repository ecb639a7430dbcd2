package session

import (
	"fmt"
	"testing"
)

func TestTryAdd_WithRoom(t *testing.T) {
	s := New("Test", 20)

	res := s.TryAdd("torch", 10)

	if !res.Accepted {
		t.Error("Add should be accepted with room to spare")
	}
	if res.DiscardChoices != nil {
		t.Errorf("No discard choices expected, got %v", res.DiscardChoices)
	}
	if len(s.Inventory) != 1 || s.Inventory[0] != "torch" {
		t.Errorf("Unexpected inventory: %v", s.Inventory)
	}
}

func TestTryAdd_AtCapacity(t *testing.T) {
	s := New("Test", 20)
	for i := 0; i < 10; i++ {
		s.TryAdd(fmt.Sprintf("item-%d", i), 10)
	}

	res := s.TryAdd("one too many", 10)

	if res.Accepted {
		t.Error("Add should be rejected at capacity")
	}
	if len(s.Inventory) != 10 {
		t.Errorf("Rejected add must not mutate the inventory, got %d items", len(s.Inventory))
	}
	for _, held := range s.Inventory {
		if held == "one too many" {
			t.Error("Rejected item must not appear in inventory")
		}
	}

	// One discard choice per held item, plus declining the new item.
	if len(res.DiscardChoices) != 11 {
		t.Fatalf("Expected 11 discard choices, got %d", len(res.DiscardChoices))
	}
	if res.DiscardChoices[0] != "Discard item-0" {
		t.Errorf("Unexpected first discard choice: %q", res.DiscardChoices[0])
	}
	if res.DiscardChoices[10] != DiscardNewItemChoice {
		t.Errorf("Last choice should decline the new item, got %q", res.DiscardChoices[10])
	}
}

func TestTryAdd_DefaultCapacity(t *testing.T) {
	s := New("Test", 20)
	for i := 0; i < DefaultInventoryCapacity; i++ {
		res := s.TryAdd(fmt.Sprintf("item-%d", i), 0)
		if !res.Accepted {
			t.Fatalf("Add %d should be accepted", i)
		}
	}

	if res := s.TryAdd("overflow", 0); res.Accepted {
		t.Error("Zero capacity should fall back to the default, and reject at 10")
	}
}

func TestResolveSwap(t *testing.T) {
	s := New("Test", 20)
	s.Inventory = []string{"rope", "lantern", "map"}
	s.PendingSwap = &PendingSwap{IncomingItem: "golden idol"}

	if !s.ResolveSwap("lantern") {
		t.Fatal("Swap of a held item should succeed")
	}

	if s.PendingSwap != nil {
		t.Error("Pending swap should be cleared")
	}
	if len(s.Inventory) != 3 {
		t.Fatalf("Swap must not change inventory size, got %d", len(s.Inventory))
	}
	for _, held := range s.Inventory {
		if held == "lantern" {
			t.Error("Discarded item still present")
		}
	}
	if s.Inventory[2] != "golden idol" {
		t.Errorf("Incoming item should be appended, got %v", s.Inventory)
	}
}

func TestResolveSwap_UnknownItem(t *testing.T) {
	s := New("Test", 20)
	s.Inventory = []string{"rope"}
	s.PendingSwap = &PendingSwap{IncomingItem: "gem"}

	if s.ResolveSwap("sword") {
		t.Error("Swap of an item not held should fail")
	}
	if s.PendingSwap == nil {
		t.Error("Failed swap must leave the swap pending")
	}
	if len(s.Inventory) != 1 || s.Inventory[0] != "rope" {
		t.Errorf("Failed swap must not mutate inventory, got %v", s.Inventory)
	}
}

func TestResolveSwap_NothingPending(t *testing.T) {
	s := New("Test", 20)
	s.Inventory = []string{"rope"}

	if s.ResolveSwap("rope") {
		t.Error("Swap with nothing pending should fail")
	}
	if len(s.Inventory) != 1 {
		t.Errorf("Inventory must be unchanged, got %v", s.Inventory)
	}
}

func TestDeclineSwap(t *testing.T) {
	s := New("Test", 20)
	s.Inventory = []string{"rope"}
	s.PendingSwap = &PendingSwap{IncomingItem: "gem"}

	s.DeclineSwap()

	if s.PendingSwap != nil {
		t.Error("Pending swap should be cleared")
	}
	if len(s.Inventory) != 1 || s.Inventory[0] != "rope" {
		t.Errorf("Decline must leave inventory unchanged, got %v", s.Inventory)
	}
}
