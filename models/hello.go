package models

import "go.uber.org/zap"

// HelloData is the structured payload of the json endpoints.
// Both fields are optional; absent and null values decode to nil.
type HelloData struct {
	Username *string `json:"username"`
	Age      *int    `json:"age"`
}

// Fields returns the record as log fields.
func (d *HelloData) Fields() []zap.Field {
	return []zap.Field{
		zap.Stringp("username", d.Username),
		zap.Intp("age", d.Age),
	}
}
