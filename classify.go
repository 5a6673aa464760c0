package capgain

import "time"

// GainBucket identifies the tax bucket of a realized gain or loss.
type GainBucket int

const (
	ShortTermGain GainBucket = iota
	ShortTermLoss
	LongTermGain
	LongTermLoss
)

func (b GainBucket) String() string {
	switch b {
	case ShortTermGain:
		return "STCG"
	case ShortTermLoss:
		return "STCL"
	case LongTermGain:
		return "LTCG"
	case LongTermLoss:
		return "LTCL"
	default:
		return "unknown"
	}
}

// longTermThreshold is the holding period at or above which a gain is long
// term. It is a flat 365 days, not a calendar year.
const longTermThreshold = 365 * 24 * time.Hour

// ClassifyHolding maps a purchase/sale timestamp pair and the sign of the
// realized gain to a tax bucket. A zero gain is classified as a loss.
func ClassifyHolding(purchase, sale time.Time, gainLoss Money) GainBucket {
	long := sale.Sub(purchase) >= longTermThreshold
	if gainLoss.IsPositive() {
		if long {
			return LongTermGain
		}
		return ShortTermGain
	}
	if long {
		return LongTermLoss
	}
	return ShortTermLoss
}
