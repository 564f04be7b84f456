package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Delivery channels
const (
	DeliveryChannelSocial = "social"
	DeliveryChannelEmail  = "email"
	DeliveryChannelBlog   = "blog"
)

// Delivery records one call to an outbound publishing provider together with
// the provider's raw JSON answer.
type Delivery struct {
	gorm.Model
	Channel      string         `gorm:"not null;index"`
	Target       string         `gorm:"not null;default:''"`
	StatusCode   int            `gorm:"not null;default:0"`
	Response     datatypes.JSON `gorm:"type:jsonb"`
	ErrorMessage string         `gorm:"column:error_message;type:text"`
}

// Succeeded reports whether the provider answered with a 2xx status.
func (d Delivery) Succeeded() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}
