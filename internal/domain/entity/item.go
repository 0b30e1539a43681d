package entity

import "time"

// Item representa una parte/SKU identificada por su número de parte.
type Item struct {
	ID         int64
	PartNumber string
	CreatedAt  time.Time
}
