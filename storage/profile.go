package storage

// BodyProfile is the locally persisted measurement set used to prefill
// try-on requests.
type BodyProfile struct {
	HeightCm int    `json:"heightCm"`
	WeightKg int    `json:"weightKg"`
	Gender   string `json:"gender"`
	AgeYears int    `json:"ageYears"`
}

func (p BodyProfile) complete() bool {
	return p.HeightCm > 0 && p.WeightKg > 0 && p.Gender != ""
}

// SaveBodyProfile persists the profile.
func SaveBodyProfile(s Store, p BodyProfile) error {
	return WriteJSON(s, KeyProfile, p)
}

// LoadBodyProfile returns the persisted profile and whether a complete
// one was found. Corrupt or partial state reads as absent.
func LoadBodyProfile(s Store) (BodyProfile, bool) {
	p := ReadJSON(s, KeyProfile, BodyProfile{})
	return p, p.complete()
}

// ClearBodyProfile forgets the persisted profile.
func ClearBodyProfile(s Store) error {
	return s.Delete(KeyProfile)
}
