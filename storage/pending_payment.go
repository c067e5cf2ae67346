package storage

// SavePendingPaymentID records the payment id to reconcile after the user
// returns from the provider's checkout page.
func SavePendingPaymentID(s Store, paymentID string) error {
	if paymentID == "" {
		return s.Delete(KeyPendingPayment)
	}
	return s.Set(KeyPendingPayment, paymentID)
}

// LoadPendingPaymentID returns the recorded payment id, or "" when none.
func LoadPendingPaymentID(s Store) string {
	raw, ok, err := s.Get(KeyPendingPayment)
	if err != nil || !ok {
		return ""
	}
	return raw
}

// ClearPendingPaymentID forgets the recorded payment id.
func ClearPendingPaymentID(s Store) error {
	return s.Delete(KeyPendingPayment)
}
