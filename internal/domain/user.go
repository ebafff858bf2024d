package domain

import "encoding/json"

var userColumns = []string{"first_name", "last_name", "age", "email", "role", "phone"}

// User is a marketplace participant: a customer placing orders or an executor
// making offers.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
}

func (u *User) Table() string     { return "users" }
func (u *User) Key() int64        { return u.ID }
func (u *User) SetKey(id int64)   { u.ID = id }
func (u *User) Columns() []string { return userColumns }

// Value returns the stored value of column.
func (u *User) Value(column string) any {
	switch column {
	case "id":
		return u.ID
	case "first_name":
		return u.FirstName
	case "last_name":
		return u.LastName
	case "age":
		return u.Age
	case "email":
		return u.Email
	case "role":
		return u.Role
	case "phone":
		return u.Phone
	}
	return nil
}

// Assign decodes raw into the field backing column.
func (u *User) Assign(column string, raw json.RawMessage) error {
	switch column {
	case "id":
		return decodeValue(raw, &u.ID)
	case "first_name":
		return decodeValue(raw, &u.FirstName)
	case "last_name":
		return decodeValue(raw, &u.LastName)
	case "age":
		return decodeValue(raw, &u.Age)
	case "email":
		return decodeValue(raw, &u.Email)
	case "role":
		return decodeValue(raw, &u.Role)
	case "phone":
		return decodeValue(raw, &u.Phone)
	}
	return ErrUnknownField
}
