package store

import (
	"context"

	"github.com/google/uuid"
)

// partitionDetails splits submitted details into products newly appearing
// in the order vs products it already carries, matching on product id.
// Input order is preserved on both sides.
func partitionDetails(details []DetailInput, current []OrderDetail) (toAdd, toUpdate []DetailInput) {
	existing := make(map[string]bool, len(current))
	for _, d := range current {
		existing[d.ProductID] = true
	}
	for _, d := range details {
		if existing[d.ProductID] {
			toUpdate = append(toUpdate, d)
		} else {
			toAdd = append(toAdd, d)
		}
	}
	return toAdd, toUpdate
}

// addDetails takes stock for each detail and writes the detail row. A
// product with insufficient stock is collected and the pass continues, so
// every short product of the call ends up in the one StockError. The
// caller's rollback discards all writes made here when that happens.
func addDetails(ctx context.Context, tx Tx, orderID string, details []DetailInput) error {
	var short []string
	for _, in := range details {
		p, err := tx.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !p.HasStock(in.Quantity) {
			short = append(short, p.Name)
			continue
		}
		if err := tx.SaveStock(ctx, p.ID, p.Stock-in.Quantity); err != nil {
			return err
		}
		d := &OrderDetail{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: p.ID,
			Quantity:  in.Quantity,
		}
		if err := tx.InsertDetail(ctx, d); err != nil {
			return err
		}
	}
	if len(short) > 0 {
		return &StockError{Products: short}
	}
	return nil
}

// updateDetails applies quantity changes against details the order already
// carries. Lowering a quantity returns units to stock, raising it takes
// the difference. The quantity is rewritten either way.
func updateDetails(ctx context.Context, tx Tx, toUpdate []DetailInput, current []OrderDetail) error {
	var short []string
	for _, in := range toUpdate {
		p, err := tx.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		cur := currentDetail(current, p.ID)
		if cur == nil {
			return ErrNotFound
		}

		delta := in.Quantity - cur.Quantity
		if delta < 0 {
			delta = -delta
		}
		if in.Quantity < cur.Quantity {
			if err := tx.SaveStock(ctx, p.ID, p.Stock+delta); err != nil {
				return err
			}
		}
		if in.Quantity > cur.Quantity {
			// The decrement is written even when the product comes up
			// short; the StockError below ends the transaction in a
			// rollback, so the transient negative value never commits.
			if err := tx.SaveStock(ctx, p.ID, p.Stock-delta); err != nil {
				return err
			}
			if delta > p.Stock {
				short = append(short, p.Name)
			}
		}
		if err := tx.SaveDetailQuantity(ctx, cur.ID, in.Quantity); err != nil {
			return err
		}
	}
	if len(short) > 0 {
		return &StockError{Products: short}
	}
	return nil
}

func currentDetail(current []OrderDetail, productID string) *OrderDetail {
	for i := range current {
		if current[i].ProductID == productID {
			return &current[i]
		}
	}
	return nil
}

// validateDetails rejects structural problems before any transaction is
// opened: empty sets, quantities below one, and repeated product ids. The
// ledger is never consulted here.
func validateDetails(details []DetailInput) error {
	if len(details) == 0 {
		return &ValidationError{Field: "details", Msg: "must not be empty"}
	}
	seen := make(map[string]bool, len(details))
	dupped := make(map[string]bool)
	var dups []string
	for _, d := range details {
		if d.Quantity < 1 {
			return &ValidationError{Field: "quantity", Msg: "must be at least 1"}
		}
		if seen[d.ProductID] && !dupped[d.ProductID] {
			dupped[d.ProductID] = true
			dups = append(dups, d.ProductID)
		}
		seen[d.ProductID] = true
	}
	if len(dups) > 0 {
		return &DuplicateProductError{ProductIDs: dups}
	}
	return nil
}
