package cart

import (
	"errors"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"temo/internal/domain"
)

// ErrCheckoutInProgress is returned when a second checkout starts on a cart
// whose previous checkout has not finished.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// Item is the cart-compatible shape a caller builds from a menu item or a
// drink before adding it. Only these fields ever reach a Line.
type Item struct {
	ProductID   string
	Name        string
	Description string
	UnitPrice   float64
	Variant     string
	ImageRef    string
}

// Line is one merged cart entry for a (product id, kind) pair.
type Line struct {
	ProductID   string      `json:"productId"`
	Kind        domain.Kind `json:"kind"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	UnitPrice   float64     `json:"unitPrice"`
	Quantity    int         `json:"quantity"`
	Variant     string      `json:"variant,omitempty"`
	ImageRef    string      `json:"imageRef,omitempty"`
}

// Subtotal returns UnitPrice × Quantity, or 0 when that is not a finite
// number or the quantity is corrupt.
func (l Line) Subtotal() float64 {
	if l.Quantity <= 0 {
		return 0
	}
	v := l.UnitPrice * float64(l.Quantity)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Snapshot is a consistent read of the cart contents and its aggregates.
type Snapshot struct {
	Lines          []Line  `json:"lines"`
	TotalPrice     float64 `json:"totalPrice"`
	TotalItemCount int     `json:"totalItemCount"`
}

// Store holds the lines a client intends to order. Operations never fail:
// malformed input is logged and ignored so a bad record cannot corrupt the cart.
type Store struct {
	mu          sync.RWMutex
	lines       []Line
	checkingOut bool
	logger      *zap.Logger
}

// NewStore returns an empty cart.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// AddItem adds one unit of item. An existing line with the same product id
// and kind has its quantity incremented; otherwise a new line is appended.
func (s *Store) AddItem(item Item, kind domain.Kind) {
	id := strings.TrimSpace(item.ProductID)
	if id == "" {
		s.logger.Warn("cart: ignoring item without id", zap.String("name", item.Name))
		return
	}
	if !kind.Valid() {
		s.logger.Warn("cart: ignoring item with unknown kind", zap.String("product_id", id), zap.String("kind", string(kind)))
		return
	}
	if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) || item.UnitPrice < 0 {
		s.logger.Warn("cart: ignoring item with invalid price", zap.String("product_id", id), zap.Float64("price", item.UnitPrice))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id, kind); idx >= 0 {
		s.lines[idx].Quantity++
		s.logger.Debug("cart: incremented line", zap.String("product_id", id), zap.String("kind", string(kind)), zap.Int("quantity", s.lines[idx].Quantity))
		return
	}
	s.lines = append(s.lines, Line{
		ProductID:   id,
		Kind:        kind,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		Quantity:    1,
		Variant:     item.Variant,
		ImageRef:    item.ImageRef,
	})
	s.logger.Debug("cart: added line", zap.String("product_id", id), zap.String("kind", string(kind)))
}

// RemoveItem drops every line with productID, whatever its kind.
func (s *Store) RemoveItem(productID string) {
	productID = strings.TrimSpace(productID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhere(func(l Line) bool { return l.ProductID == productID })
}

// RemoveLine drops the single line identified by productID and kind.
func (s *Store) RemoveLine(productID string, kind domain.Kind) {
	productID = strings.TrimSpace(productID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhere(func(l Line) bool { return l.ProductID == productID && l.Kind == kind })
}

// UpdateQuantity sets the quantity of every line with productID to exactly
// quantity. A quantity of zero or less removes those lines instead.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	productID = strings.TrimSpace(productID)
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
		}
	}
}

// UpdateLineQuantity is UpdateQuantity scoped to one (productID, kind) line.
func (s *Store) UpdateLineQuantity(productID string, kind domain.Kind, quantity int) {
	productID = strings.TrimSpace(productID)
	if quantity <= 0 {
		s.RemoveLine(productID, kind)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(productID, kind); idx >= 0 {
		s.lines[idx].Quantity = quantity
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Checkout hands a snapshot to place and, when place succeeds, takes exactly
// the snapshotted quantities out of the cart. Lines added or incremented while
// place runs stay behind. Only one checkout may run per cart at a time.
func (s *Store) Checkout(place func(Snapshot) error) error {
	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return ErrCheckoutInProgress
	}
	s.checkingOut = true
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	err := place(Snapshot{
		Lines:          lines,
		TotalPrice:     totalPrice(lines),
		TotalItemCount: totalItems(lines),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkingOut = false
	if err != nil {
		return err
	}
	for _, ordered := range lines {
		idx := s.indexOf(ordered.ProductID, ordered.Kind)
		if idx < 0 {
			continue
		}
		if ordered.Quantity > 0 {
			s.lines[idx].Quantity -= ordered.Quantity
		}
		if ordered.Quantity <= 0 || s.lines[idx].Quantity <= 0 {
			s.removeWhere(func(l Line) bool { return l.ProductID == ordered.ProductID && l.Kind == ordered.Kind })
		}
	}
	return nil
}

// TotalPrice sums UnitPrice × Quantity across lines. Lines whose product is
// not a finite number contribute 0.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.lines)
}

// TotalItemCount sums quantities across lines; a non-positive quantity contributes 0.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.lines)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Snapshot returns the lines and both totals under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return Snapshot{
		Lines:          lines,
		TotalPrice:     totalPrice(lines),
		TotalItemCount: totalItems(lines),
	}
}

func (s *Store) indexOf(productID string, kind domain.Kind) int {
	for i, l := range s.lines {
		if l.ProductID == productID && l.Kind == kind {
			return i
		}
	}
	return -1
}

func (s *Store) removeWhere(match func(Line) bool) {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if !match(l) {
			kept = append(kept, l)
		}
	}
	// zero the tail so dropped lines do not linger in the backing array
	for i := len(kept); i < len(s.lines); i++ {
		s.lines[i] = Line{}
	}
	s.lines = kept
}

func totalPrice(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func totalItems(lines []Line) int {
	total := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			total += l.Quantity
		}
	}
	return total
}
