package models

import (
	"encoding/json"
	"errors"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// LineItem é um par {serviço, quantidade} dentro de um agendamento.
type LineItem struct {
	ServiceID uint `json:"service_id"`
	Quantity  int  `json:"quantity"`
}

// Aceita tanto "id" quanto "service_id" (clientes antigos mandam "id").
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        *uint `json:"id"`
		ServiceID *uint `json:"service_id"`
		Quantity  *int  `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.ServiceID != nil:
		li.ServiceID = *raw.ServiceID
	case raw.ID != nil:
		li.ServiceID = *raw.ID
	default:
		return errors.New("line item without service id")
	}

	li.Quantity = 1
	if raw.Quantity != nil {
		if *raw.Quantity < 1 {
			return ErrInvalidQuantity
		}
		li.Quantity = *raw.Quantity
	}
	return nil
}
