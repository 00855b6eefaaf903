package cart

// Reduce 纯状态转换：不修改入参，返回新状态与事件；无事件表示状态未变
func Reduce(items []LineItem, cmd Command) ([]LineItem, []Event) {
	switch c := cmd.(type) {
	case Hydrate:
		return hydrate(c.Items), []Event{{Type: EventHydrated, Quantity: TotalItemCount(c.Items)}}
	case AddItem:
		return addItem(items, c.Item)
	case UpdateQuantity:
		return updateQuantity(items, c.LineID, c.Quantity)
	case RemoveItem:
		return removeItem(items, c.LineID)
	case Clear:
		return []LineItem{}, []Event{{Type: EventCleared}}
	case Settle:
		return settle(items, c.Items)
	default:
		return items, nil
	}
}

func hydrate(stored []LineItem) []LineItem {
	out := make([]LineItem, 0, len(stored))
	index := make(map[string]int, len(stored))
	for _, item := range stored {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			continue
		}
		item = item.withLineID()
		if pos, ok := index[item.LineID]; ok {
			out[pos].Quantity += item.Quantity
			continue
		}
		index[item.LineID] = len(out)
		out = append(out, item)
	}
	return out
}

func addItem(items []LineItem, item LineItem) ([]LineItem, []Event) {
	if item.Quantity < 1 {
		return items, nil
	}
	item = item.withLineID()
	next := make([]LineItem, 0, len(items)+1)
	merged := false
	quantity := item.Quantity
	for _, existing := range items {
		if existing.LineID == item.LineID {
			existing.Quantity += item.Quantity
			quantity = existing.Quantity
			merged = true
		}
		next = append(next, existing)
	}
	if !merged {
		next = append(next, item)
	}
	return next, []Event{{Type: EventItemAdded, LineID: item.LineID, Quantity: quantity}}
}

func updateQuantity(items []LineItem, lineID string, quantity int) ([]LineItem, []Event) {
	if quantity <= 0 {
		return removeItem(items, lineID)
	}
	pos := indexOf(items, lineID)
	if pos < 0 {
		return items, nil
	}
	next := append([]LineItem(nil), items...)
	next[pos].Quantity = quantity
	return next, []Event{{Type: EventItemUpdated, LineID: lineID, Quantity: quantity}}
}

func removeItem(items []LineItem, lineID string) ([]LineItem, []Event) {
	pos := indexOf(items, lineID)
	if pos < 0 {
		return items, nil
	}
	next := make([]LineItem, 0, len(items)-1)
	next = append(next, items[:pos]...)
	next = append(next, items[pos+1:]...)
	return next, []Event{{Type: EventItemRemoved, LineID: lineID}}
}

func settle(items []LineItem, settled []LineItem) ([]LineItem, []Event) {
	next := append([]LineItem(nil), items...)
	var events []Event
	for _, done := range settled {
		lineID := done.withLineID().LineID
		pos := indexOf(next, lineID)
		if pos < 0 || done.Quantity <= 0 {
			continue
		}
		remaining := next[pos].Quantity - done.Quantity
		if remaining <= 0 {
			next = append(next[:pos], next[pos+1:]...)
			events = append(events, Event{Type: EventItemRemoved, LineID: lineID})
			continue
		}
		next[pos].Quantity = remaining
		events = append(events, Event{Type: EventItemUpdated, LineID: lineID, Quantity: remaining})
	}
	if len(events) == 0 {
		return items, nil
	}
	return next, events
}

func indexOf(items []LineItem, lineID string) int {
	for i, item := range items {
		if item.LineID == lineID {
			return i
		}
	}
	return -1
}
