package storage

// MaxHistoryItems caps the persisted try-on history.
const MaxHistoryItems = 18

// HistoryItem is one completed try-on render kept locally for the history
// view. The result image travels as a data URI; the SDK never re-encodes it.
type HistoryItem struct {
	ID                 string `json:"id"`
	CreatedAt          string `json:"createdAt"`
	ClothingName       string `json:"clothingName"`
	ClothingSize       string `json:"clothingSize"`
	ResultImageDataURI string `json:"resultImageDataUri"`
	ResultMimeType     string `json:"resultMimeType,omitempty"`
	CreditsSpent       int64  `json:"creditsSpent"`
	RemainingCredits   int64  `json:"remainingCredits"`
}

func (h HistoryItem) valid() bool {
	return h.ID != "" && h.CreatedAt != "" && h.ClothingName != "" && h.ResultImageDataURI != ""
}

// normalizeHistory drops malformed entries, defaults the mime type, and
// enforces the cap. Order is newest first and is preserved.
func normalizeHistory(items []HistoryItem) []HistoryItem {
	out := make([]HistoryItem, 0, len(items))
	for _, item := range items {
		if !item.valid() {
			continue
		}
		if item.ResultMimeType == "" {
			item.ResultMimeType = "image/png"
		}
		out = append(out, item)
		if len(out) == MaxHistoryItems {
			break
		}
	}
	return out
}

// History manages the persisted try-on history list.
type History struct {
	store Store
}

// NewHistory returns a History over the given store.
func NewHistory(store Store) *History {
	return &History{store: store}
}

// Load returns the persisted history, newest first. Malformed state loads
// as empty.
func (h *History) Load() []HistoryItem {
	return normalizeHistory(ReadJSON(h.store, KeyTryOnHistory, []HistoryItem{}))
}

// Push prepends item and persists. Past the cap the oldest entry falls
// off; on quota pressure entries keep dropping oldest-first until the
// write fits or the list is empty. The persisted list is returned.
func (h *History) Push(item HistoryItem) ([]HistoryItem, error) {
	next := normalizeHistory(append([]HistoryItem{item}, h.Load()...))
	return h.save(next)
}

// Replace persists the given list wholesale, applying the same cap and
// quota degrade as Push.
func (h *History) Replace(items []HistoryItem) ([]HistoryItem, error) {
	return h.save(normalizeHistory(items))
}

func (h *History) save(items []HistoryItem) ([]HistoryItem, error) {
	for len(items) > 0 {
		err := WriteJSON(h.store, KeyTryOnHistory, items)
		if err == nil {
			return items, nil
		}
		if !IsQuotaExceeded(err) {
			return items, err
		}
		items = items[:len(items)-1]
	}
	if err := h.store.Delete(KeyTryOnHistory); err != nil {
		return nil, err
	}
	return nil, nil
}

// Clear removes the persisted history.
func (h *History) Clear() error {
	return h.store.Delete(KeyTryOnHistory)
}
