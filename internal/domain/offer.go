package domain

import "encoding/json"

var offerColumns = []string{"order_id", "executor_id"}

// Offer is an executor's bid on an order.
type Offer struct {
	ID         int64  `json:"id"`
	OrderID    *int64 `json:"order_id"`
	ExecutorID *int64 `json:"executor_id"`
}

func (o *Offer) Table() string     { return "offers" }
func (o *Offer) Key() int64        { return o.ID }
func (o *Offer) SetKey(id int64)   { o.ID = id }
func (o *Offer) Columns() []string { return offerColumns }

// Value returns the stored value of column.
func (o *Offer) Value(column string) any {
	switch column {
	case "id":
		return o.ID
	case "order_id":
		return refValue(o.OrderID)
	case "executor_id":
		return refValue(o.ExecutorID)
	}
	return nil
}

// Assign decodes raw into the field backing column.
func (o *Offer) Assign(column string, raw json.RawMessage) error {
	switch column {
	case "id":
		return decodeValue(raw, &o.ID)
	case "order_id":
		return decodeOptional(raw, &o.OrderID)
	case "executor_id":
		return decodeOptional(raw, &o.ExecutorID)
	}
	return ErrUnknownField
}
