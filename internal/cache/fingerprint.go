package cache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

const keyPrefix = "taxsavvy:report:"

// Fingerprint derives a cache key from the normalized profile and the slab
// document generation it was computed against.
func Fingerprint(profile domain.TaxpayerProfile, generation uint64) (string, error) {
	data, err := json.Marshal(profile.Normalized())
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	h := xxhash.New()
	_, _ = h.Write(data)
	_, _ = h.WriteString("|" + strconv.FormatUint(generation, 10))
	return fmt.Sprintf("%s%016x", keyPrefix, h.Sum64()), nil
}
