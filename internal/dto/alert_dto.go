package dto

import "encoding/json"

// OptionalInt tells a missing JSON key (Set false) apart from an explicit
// null (Set true, Value nil).
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// SetThresholdRequest sets or clears (null) an item's alert threshold.
// The threshold key itself is required.
type SetThresholdRequest struct {
	Threshold OptionalInt `json:"threshold" swaggertype:"integer"`
}

// LowStockEvent is the payload of a low-stock notification job.
type LowStockEvent struct {
	ItemID    string `json:"item_id"`
	SerialNo  string `json:"serial_no"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}
