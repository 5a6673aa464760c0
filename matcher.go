package capgain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MarginLotID is the sentinel buy-side lot id of an uncovered sale.
const MarginLotID = "MARGIN"

// marginTolerance absorbs clock/settlement skew between counter-parties: a
// purchase up to this much after the sale still covers it.
const marginTolerance = 15 * time.Second

// dustTolerance is the unit magnitude at or below which a quantity is
// treated as numerically zero.
var dustTolerance = Q(decimal.New(1, -8))

// ErrInvariant reports a matching contract violation, such as a zero-unit
// entry found in a queue. It indicates a programming error upstream, never
// a data condition.
var ErrInvariant = errors.New("lot matching invariant violated")

// MatchedLot is one realized match between a sale and a purchase lot, or a
// carryover purchase remaining after all sales are matched.
type MatchedLot struct {
	Asset        string
	BuyLotID     string
	SellLotID    string
	PurchaseDate time.Time
	SaleDate     time.Time
	Units        Quantity // matched magnitude, always positive
	SalePrice    Money    // proceeds portion
	Basis        Money    // cost portion
	GainLoss     Money    // SalePrice - Basis

	// Carryover records leave the sale-side fields unset and carry the
	// unconsumed remainder instead.
	Carryover      bool
	RemainderUnits Quantity
	RemainderBasis Money
}

// IsMargin reports whether the lot records an uncovered sale.
func (l MatchedLot) IsMargin() bool { return l.BuyLotID == MarginLotID }

// AssetVolumeSummary accumulates the totals of one asset across all its
// matches and carryovers, independent of dust suppression in the detail
// table.
type AssetVolumeSummary struct {
	Asset          string
	GainLoss       Money
	SalePrice      Money
	Basis          Money
	RemainderUnits Quantity
	RemainderBasis Money
}

// AssetResult is the outcome of matching one asset to completion.
type AssetResult struct {
	Asset   string
	Lots    []MatchedLot // detail table: matches above dust, then carryovers
	Margins []MatchedLot // uncovered sales, destined for the cross-asset table
	Volume  AssetVolumeSummary

	years *YearSummary // private partial, merged at the report join point
}

// matchAsset runs the FIFO matching state machine for one asset to
// completion. It consumes both queues of the pair.
//
// Each iteration pops the earliest sale. A sale with no eligible purchase
// (empty queue, or earliest purchase later than the sale plus the margin
// tolerance) becomes a margin lot with zero basis. Otherwise the earliest
// purchase is matched against it, splitting proceeds or basis pro rata when
// magnitudes differ; the reduced side is reinserted at the head unless its
// remainder is dust. Every match updates the year and volume aggregates,
// whether or not its detail row is suppressed by the dust filter.
func matchAsset(pair *AssetQueuePair) (*AssetResult, error) {
	res := &AssetResult{
		Asset:  pair.Asset,
		Volume: AssetVolumeSummary{Asset: pair.Asset},
		years:  NewYearSummary(),
	}

	for !pair.sales.Empty() {
		s := pair.sales.Pop()
		saleUnits := s.Units.Abs()
		if saleUnits.IsZero() {
			return nil, fmt.Errorf("%w: sale lot %q has zero units in queue", ErrInvariant, s.LotID)
		}

		var lot MatchedLot
		if b := pair.purchases.Peek(); b == nil || b.Timestamp.After(s.Timestamp.Add(marginTolerance)) {
			// Uncovered sale: proceeds with zero basis, consumed entirely.
			lot = MatchedLot{
				Asset:        s.Asset,
				BuyLotID:     MarginLotID,
				SellLotID:    s.LotID,
				PurchaseDate: s.Timestamp,
				SaleDate:     s.Timestamp,
				Units:        saleUnits,
				SalePrice:    s.Amount,
				Basis:        M(0, s.Amount.Currency()),
			}
		} else {
			b := pair.purchases.Pop()
			if b.Units.IsZero() {
				return nil, fmt.Errorf("%w: purchase lot %q has zero units in queue", ErrInvariant, b.LotID)
			}

			lot = MatchedLot{
				Asset:        s.Asset,
				BuyLotID:     b.LotID,
				SellLotID:    s.LotID,
				PurchaseDate: b.Timestamp,
				SaleDate:     s.Timestamp,
			}

			switch {
			case saleUnits.GreaterThan(b.Units):
				// Purchase fully consumed, sale partially filled: the sale
				// keeps its basis-free remainder and stays next in line.
				proRataSale := s.Amount.Mul(b.Units).Div(saleUnits)
				lot.Units = b.Units
				lot.SalePrice = proRataSale
				lot.Basis = b.Amount

				s.Units = s.Units.Add(b.Units) // toward zero
				s.Amount = s.Amount.Sub(proRataSale)
				if s.Units.Abs().GreaterThan(dustTolerance) {
					pair.sales.PushFront(s)
				}
			case saleUnits.LessThan(b.Units):
				// Sale fully consumed, purchase partially filled.
				proRataBasis := b.Amount.Mul(saleUnits).Div(b.Units)
				lot.Units = saleUnits
				lot.SalePrice = s.Amount
				lot.Basis = proRataBasis

				b.Units = b.Units.Sub(saleUnits)
				b.Amount = b.Amount.Sub(proRataBasis)
				if b.Units.GreaterThan(dustTolerance) {
					pair.purchases.PushFront(b)
				}
			default:
				// Equal magnitudes: both fully consumed.
				lot.Units = b.Units
				lot.SalePrice = s.Amount
				lot.Basis = b.Amount
			}
		}
		lot.GainLoss = lot.SalePrice.Sub(lot.Basis)

		// Detail tables suppress dust rows; aggregates never do.
		if lot.Units.Abs().GreaterThan(dustTolerance) {
			if lot.IsMargin() {
				res.Margins = append(res.Margins, lot)
			} else {
				res.Lots = append(res.Lots, lot)
			}
		}

		bucket := ClassifyHolding(lot.PurchaseDate, lot.SaleDate, lot.GainLoss)
		res.years.Add(lot.SaleDate, bucket, lot.GainLoss)
		res.Volume.GainLoss = res.Volume.GainLoss.Add(lot.GainLoss)
		res.Volume.SalePrice = res.Volume.SalePrice.Add(lot.SalePrice)
		res.Volume.Basis = res.Volume.Basis.Add(lot.Basis)
	}

	// Remaining purchases are the asset's carryover.
	for !pair.purchases.Empty() {
		b := pair.purchases.Pop()

		res.Volume.RemainderUnits = res.Volume.RemainderUnits.Add(b.Units)
		res.Volume.RemainderBasis = res.Volume.RemainderBasis.Add(b.Amount)

		if b.Units.GreaterThan(dustTolerance) {
			res.Lots = append(res.Lots, MatchedLot{
				Asset:          b.Asset,
				BuyLotID:       b.LotID,
				PurchaseDate:   b.Timestamp,
				Carryover:      true,
				RemainderUnits: b.Units,
				RemainderBasis: b.Amount,
			})
		}
	}

	return res, nil
}
