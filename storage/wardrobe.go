package storage

import "encoding/json"

// ClothingSizes is the closed set of sizes the try-on model accepts.
var ClothingSizes = []string{
	"xxs", "xs", "s", "m", "l", "xl", "xxl", "xxxl",
	"eu40", "eu42", "eu44", "eu46", "eu48", "eu50", "eu52", "eu54", "eu56", "eu58",
}

var clothingSizeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ClothingSizes))
	for _, size := range ClothingSizes {
		set[size] = struct{}{}
	}
	return set
}()

// ValidClothingSize reports whether size is in the accepted set.
func ValidClothingSize(size string) bool {
	_, ok := clothingSizeSet[size]
	return ok
}

// WardrobeItem is one locally stored clothing item.
type WardrobeItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ImageDataURI string `json:"imageDataUri"`
	Size         string `json:"size"`
	CreatedAt    string `json:"createdAt"`
}

func (w WardrobeItem) valid() bool {
	return w.ID != "" && w.Name != "" && w.ImageDataURI != "" && w.CreatedAt != "" && ValidClothingSize(w.Size)
}

// Wardrobe manages the persisted clothing collection and its selection.
type Wardrobe struct {
	store Store
}

// NewWardrobe returns a Wardrobe over the given store.
func NewWardrobe(store Store) *Wardrobe {
	return &Wardrobe{store: store}
}

// LoadItems returns the persisted collection with malformed entries
// dropped. Corrupt state loads as empty.
func (w *Wardrobe) LoadItems() []WardrobeItem {
	items := ReadJSON(w.store, KeyWardrobe, []WardrobeItem{})
	out := make([]WardrobeItem, 0, len(items))
	for _, item := range items {
		if item.valid() {
			out = append(out, item)
		}
	}
	return out
}

// SaveItems persists the collection. Quota failures surface as
// ErrQuotaExceeded so callers can tell the user to remove items.
func (w *Wardrobe) SaveItems(items []WardrobeItem) error {
	return WriteJSON(w.store, KeyWardrobe, items)
}

// LoadSelection returns the persisted selected item ids, filtered to ids
// present in items. An older persisted format stored a single raw id;
// that still loads.
func (w *Wardrobe) LoadSelection(items []WardrobeItem) []string {
	raw, ok, err := w.store.Get(KeyWardrobeSelected)
	if err != nil || !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// backward-compat for the old format where a single id was stored directly
		ids = []string{raw}
	}
	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SaveSelection persists the selected ids; an empty selection removes the key.
func (w *Wardrobe) SaveSelection(ids []string) error {
	if len(ids) == 0 {
		return w.store.Delete(KeyWardrobeSelected)
	}
	return WriteJSON(w.store, KeyWardrobeSelected, ids)
}
