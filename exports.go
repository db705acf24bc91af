package timebill

import "github.com/solobill/timebill/types"

// Re-export common types for convenience so users don't have to import
// the types package.

// Money is re-exported from the types package.
type Money = types.Money

// Re-export Money constructors.
var (
	USD       = types.USD
	EUR       = types.EUR
	GBP       = types.GBP
	Zero      = types.Zero
	FromFloat = types.FromFloat
)

// FormatHours is re-exported from the types package.
var FormatHours = types.FormatHours
