package store

import (
	"encoding/json"
	"math"
)

// payload carries the list-valued record fields in one JSON blob
type payload struct {
	FreeColors  []string    `json:"free_colors"`
	FixedColors []string    `json:"fixed_colors,omitempty"`
	Targets     []string    `json:"targets,omitempty"`
	History     []jsonFloat `json:"history,omitempty"`
}

// jsonFloat encodes NaN as null and the infinities as "+Inf" and "-Inf"
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*f = jsonFloat(math.NaN())
		return nil
	case `"+Inf"`:
		*f = jsonFloat(math.Inf(1))
		return nil
	case `"-Inf"`:
		*f = jsonFloat(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

func encodePayload(r Record) ([]byte, error) {
	p := payload{
		FreeColors:  r.FreeColors,
		FixedColors: r.FixedColors,
		Targets:     r.Targets,
		History:     make([]jsonFloat, len(r.History)),
	}
	for i, v := range r.History {
		p.History[i] = jsonFloat(v)
	}
	return json.Marshal(p)
}

func decodePayload(data []byte, r *Record) error {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.FreeColors = p.FreeColors
	r.FixedColors = p.FixedColors
	r.Targets = p.Targets
	r.History = nil
	if len(p.History) > 0 {
		r.History = make([]float64, len(p.History))
		for i, v := range p.History {
			r.History[i] = float64(v)
		}
	}
	return nil
}
