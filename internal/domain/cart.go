package domain

// CartItem is one line of a cart. Quantity is always at least 1.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart is the per-user collection of pending items, embedded in User.
// Its methods return a new Cart and never mutate the receiver's slice.
type Cart struct {
	Items []CartItem
}

// Add increments the quantity for productID, or appends it with quantity 1.
func (c Cart) Add(productID string) Cart {
	items := make([]CartItem, 0, len(c.Items)+1)
	found := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			item.Quantity++
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, CartItem{ProductID: productID, Quantity: 1})
	}
	return Cart{Items: items}
}

// Remove drops productID. Removing an absent product leaves the cart unchanged.
func (c Cart) Remove(productID string) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return Cart{Items: items}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{Items: []CartItem{}}
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns the quantity held for productID, or 0.
func (c Cart) Quantity(productID string) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ProductIDs lists the referenced products in cart order.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
