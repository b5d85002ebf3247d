package content

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange indicates a move index outside the collection bounds.
	ErrIndexOutOfRange = errors.New("content: index out of range")
	// ErrItemNotInCollection indicates the moved item is absent from the
	// loaded collection.
	ErrItemNotInCollection = errors.New("content: item not in collection")
)

// MoveItem returns a copy of ids with the element at oldIndex removed and
// reinserted at newIndex. Every other element keeps its relative order.
// Equal indices return the input order unchanged.
func MoveItem(itemIDs []string, oldIndex, newIndex int) ([]string, error) {
	length := len(itemIDs)
	if oldIndex < 0 || oldIndex >= length {
		return nil, fmt.Errorf("%w: old index %d of %d", ErrIndexOutOfRange, oldIndex, length)
	}
	if newIndex < 0 || newIndex >= length {
		return nil, fmt.Errorf("%w: new index %d of %d", ErrIndexOutOfRange, newIndex, length)
	}

	reordered := make([]string, 0, length)
	reordered = append(reordered, itemIDs...)
	if oldIndex == newIndex {
		return reordered, nil
	}

	moved := reordered[oldIndex]
	reordered = append(reordered[:oldIndex], reordered[oldIndex+1:]...)
	reordered = append(reordered[:newIndex], append([]string{moved}, reordered[newIndex:]...)...)
	return reordered, nil
}

// MoveItemByID locates itemID within itemIDs and moves it to targetIndex.
func MoveItemByID(itemIDs []string, itemID string, targetIndex int) ([]string, error) {
	oldIndex := -1
	for index, candidate := range itemIDs {
		if candidate == itemID {
			oldIndex = index
			break
		}
	}
	if oldIndex < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotInCollection, itemID)
	}
	return MoveItem(itemIDs, oldIndex, targetIndex)
}

// changedPositions walks the reordered list and reports the id and new
// zero-based position of every item whose position differs from before.
// Positions are emitted in ascending index order.
type positionChange struct {
	ItemID   string
	Position int
}

func changedPositions(before, after []string) []positionChange {
	previous := make(map[string]int, len(before))
	for index, itemID := range before {
		previous[itemID] = index
	}

	changes := make([]positionChange, 0, len(after))
	for index, itemID := range after {
		if previousIndex, seen := previous[itemID]; !seen || previousIndex != index {
			changes = append(changes, positionChange{ItemID: itemID, Position: index})
		}
	}
	return changes
}
