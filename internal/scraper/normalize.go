package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/irfanturkoz/google-maps-scraper/pkg/maps"
)

// notAvailable is the sentinel value recorded for missing optional fields.
const notAvailable = "N/A"

// detailFields are the Place Details fields a BusinessRecord is built from.
var detailFields = []string{
	"name",
	"formatted_address",
	"formatted_phone_number",
	"website",
	"business_status",
}

// Normalizer converts raw place identifiers into BusinessRecords by fetching
// their details and applying the admission rule: a business without a phone
// number is dropped.
type Normalizer struct {
	client maps.Client
}

// NewNormalizer creates a Normalizer backed by the given Maps client.
func NewNormalizer(client maps.Client) *Normalizer {
	return &Normalizer{client: client}
}

// Normalize fetches details for placeID and builds a BusinessRecord. It
// returns nil when the business has no phone number or when the detail
// lookup fails; lookup failures are logged and never propagated, so one bad
// place cannot fail a whole aggregation.
func (n *Normalizer) Normalize(ctx context.Context, placeID string) *BusinessRecord {
	details, err := n.client.PlaceDetails(ctx, placeID, detailFields)
	if err != nil {
		zap.L().Warn("place details lookup failed",
			zap.String("place_id", placeID),
			zap.Error(err),
		)
		return nil
	}

	phone := details.FormattedPhoneNumber
	if phone == "" || phone == notAvailable {
		return nil
	}

	return &BusinessRecord{
		Name:    orNotAvailable(details.Name),
		Address: orNotAvailable(details.FormattedAddress),
		Phone:   phone,
		Website: orNotAvailable(details.Website),
		Status:  orNotAvailable(details.BusinessStatus),
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
