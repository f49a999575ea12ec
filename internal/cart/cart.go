package cart

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/d085/storefront/internal/catalog"
)

// LineItem is one distinct (product, variation) entry in a cart. Name,
// price and image are snapshots taken at add-time so later catalog edits
// do not rewrite an open cart. Price is in minor currency units.
type LineItem struct {
	ProductID int64  `json:"id,string"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Variation string `json:"variation,omitempty"`
	ImageURL  string `json:"image_url"`
}

// key is the line item identity: (product id, variation or empty string).
func (l LineItem) key() (int64, string) {
	return l.ProductID, l.Variation
}

// Store holds the ordered line items of one browsing session and keeps
// them persisted under the session's slot after every mutation. All
// operations run on the caller's goroutine; a Store is not shared.
type Store struct {
	storage Storage
	slot    string
	items   []LineItem
}

// NewStore binds a cart to a session slot. storage may be nil, in which
// case the cart lives purely in memory.
func NewStore(storage Storage, sessionKey string) *Store {
	return &Store{storage: storage, slot: "cart/" + sessionKey}
}

// Load rehydrates the line items from the session slot. An unavailable
// storage or an empty slot is a silent no-op, not an error: a fresh
// session simply has no cart yet.
func (s *Store) Load() {
	if s.storage == nil {
		return
	}
	data, err := s.storage.Get(s.slot)
	if err != nil || len(data) == 0 {
		return
	}
	var items []LineItem
	if err := jsoniter.Unmarshal(data, &items); err != nil {
		return
	}
	s.items = items
}

func (s *Store) persist() error {
	if s.storage == nil {
		return nil
	}
	data, err := jsoniter.Marshal(s.items)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return s.storage.Put(s.slot, data)
}

// Add merges item into the cart by identity key: an existing line item has
// its quantity incremented, otherwise the item is appended. Quantities
// below 1 are coerced to 1.
func (s *Store) Add(item LineItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	id, variation := item.key()
	for i := range s.items {
		if s.items[i].ProductID == id && s.items[i].Variation == variation {
			s.items[i].Quantity += item.Quantity
			return s.persist()
		}
	}
	s.items = append(s.items, item)
	return s.persist()
}

// AddProduct builds the snapshot line item for a catalog product and adds
// it. The quick-add entry points pass quantity 1.
func (s *Store) AddProduct(p catalog.Product, variation string, quantity int) error {
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].URL
	}
	return s.Add(LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Variation: variation,
		ImageURL:  imageURL,
	})
}

// SetQuantity replaces the quantity of the matching line item in place,
// preserving its position. A quantity of zero or less removes the item.
// No-op when no line item matches.
func (s *Store) SetQuantity(productID int64, variation string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(productID, variation)
	}
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].Variation == variation {
			s.items[i].Quantity = quantity
			return s.persist()
		}
	}
	return nil
}

// Remove filters out the matching line item.
func (s *Store) Remove(productID int64, variation string) error {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID == productID && item.Variation == variation {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return s.persist()
}

// Clear empties the cart and drops the persisted slot.
func (s *Store) Clear() error {
	s.items = nil
	if s.storage == nil {
		return nil
	}
	return s.storage.Delete(s.slot)
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalQuantity is the sum of all line item quantities.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of unit price times quantity, in minor units.
func (s *Store) Subtotal() int64 {
	var total int64
	for _, item := range s.items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// SetPaymentIntent stores the session's payment intent token next to the
// cart slot. An empty value drops it.
func (s *Store) SetPaymentIntent(token string) error {
	if s.storage == nil {
		return nil
	}
	if token == "" {
		return s.storage.Delete(s.slot + "/intent")
	}
	return s.storage.Put(s.slot+"/intent", []byte(token))
}

// PaymentIntent returns the stored payment intent token, or empty when
// none exists.
func (s *Store) PaymentIntent() string {
	if s.storage == nil {
		return ""
	}
	data, err := s.storage.Get(s.slot + "/intent")
	if err != nil {
		return ""
	}
	return string(data)
}
