package payment

import (
	"database/sql/driver"
	"errors"
)

// Method is the payment method chosen by the customer at checkout.
type Method string

const (
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
	MethodOnline Method = "online"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m Method) String() string {
	return string(m)
}

func (m Method) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case MethodCash.String():
		return MethodCash, nil
	case MethodCard.String():
		return MethodCard, nil
	case MethodOnline.String():
		return MethodOnline, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
