package domain

import "encoding/json"

var orderColumns = []string{
	"name", "description", "start_date", "end_date", "address", "price", "customer_id", "executor_id",
}

// Order is a job posted by a customer. StartDate is not required to precede EndDate.
type Order struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   *Date  `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Address     string `json:"address"`
	Price       int    `json:"price"`
	CustomerID  *int64 `json:"customer_id"`
	ExecutorID  *int64 `json:"executor_id"`
}

func (o *Order) Table() string     { return "orders" }
func (o *Order) Key() int64        { return o.ID }
func (o *Order) SetKey(id int64)   { o.ID = id }
func (o *Order) Columns() []string { return orderColumns }

// Value returns the stored value of column. Dates are returned as time.Time,
// absent dates and references as nil.
func (o *Order) Value(column string) any {
	switch column {
	case "id":
		return o.ID
	case "name":
		return o.Name
	case "description":
		return o.Description
	case "start_date":
		return dateValue(o.StartDate)
	case "end_date":
		return dateValue(o.EndDate)
	case "address":
		return o.Address
	case "price":
		return o.Price
	case "customer_id":
		return refValue(o.CustomerID)
	case "executor_id":
		return refValue(o.ExecutorID)
	}
	return nil
}

// Assign decodes raw into the field backing column. Dates must be MM/DD/YYYY.
func (o *Order) Assign(column string, raw json.RawMessage) error {
	switch column {
	case "id":
		return decodeValue(raw, &o.ID)
	case "name":
		return decodeValue(raw, &o.Name)
	case "description":
		return decodeValue(raw, &o.Description)
	case "start_date":
		return decodeOptional(raw, &o.StartDate)
	case "end_date":
		return decodeOptional(raw, &o.EndDate)
	case "address":
		return decodeValue(raw, &o.Address)
	case "price":
		return decodeValue(raw, &o.Price)
	case "customer_id":
		return decodeOptional(raw, &o.CustomerID)
	case "executor_id":
		return decodeOptional(raw, &o.ExecutorID)
	}
	return ErrUnknownField
}

func dateValue(d *Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func refValue(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
