package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

type MaterialID string

type Material struct {
	ID   MaterialID
	Name string
}

// ParseCatalog reads "id:name,id:name". Blank entries are skipped; a
// missing name falls back to the id.
func ParseCatalog(csv string) ([]Material, error) {
	var out []Material
	seen := map[MaterialID]bool{}
	for _, entry := range strings.Split(csv, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, _ := strings.Cut(entry, ":")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if id == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", entry)
		}
		if seen[MaterialID(id)] {
			return nil, fmt.Errorf("catalog lists material %q twice", id)
		}
		seen[MaterialID(id)] = true
		if name == "" {
			name = id
		}
		out = append(out, Material{ID: MaterialID(id), Name: name})
	}
	return out, nil
}

// Cart keeps line quantities in the order materials were first added.
type Cart struct {
	order []MaterialID
	qty   map[MaterialID]int
}

func New() *Cart {
	return &Cart{qty: map[MaterialID]int{}}
}

func (c *Cart) Add(id MaterialID) {
	c.Set(id, c.qty[id]+1)
}

func (c *Cart) Remove(id MaterialID) {
	c.Set(id, c.qty[id]-1)
}

// Set replaces a line quantity; qty <= 0 drops the line.
func (c *Cart) Set(id MaterialID, qty int) {
	_, exists := c.qty[id]
	if qty <= 0 {
		if exists {
			delete(c.qty, id)
			for i, o := range c.order {
				if o == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		}
		return
	}
	if !exists {
		c.order = append(c.order, id)
	}
	c.qty[id] = qty
}

func (c *Cart) Qty(id MaterialID) int {
	return c.qty[id]
}

func (c *Cart) Len() int {
	return len(c.order)
}

func (c *Cart) Clear() {
	c.order = nil
	c.qty = map[MaterialID]int{}
}

func (c *Cart) Items() []contracts.LineItem {
	items := make([]contracts.LineItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, contracts.LineItem{MaterialID: string(id), Qty: c.qty[id]})
	}
	return items
}

// ParseItem reads a "material_id:qty" pair as given on the command line.
func ParseItem(s string) (contracts.LineItem, error) {
	id, qtyText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return contracts.LineItem{}, fmt.Errorf("item %q: want material_id:qty", s)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil || qty <= 0 {
		return contracts.LineItem{}, fmt.Errorf("item %q: qty must be a positive integer", s)
	}
	return contracts.LineItem{MaterialID: strings.TrimSpace(id), Qty: qty}, nil
}
