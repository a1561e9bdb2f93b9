package main

import (
	"context"
	"strconv"

	variation "github.com/goliatone/go-variation"
	"github.com/goliatone/go-variation/pkg/dataset"
)

// hotel is the record type served by the demo dataset.
type hotel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	Price int    `json:"price"`
}

func (h hotel) RecordID() string       { return h.ID }
func (h hotel) RecordName() string     { return h.Name }
func (h hotel) SearchFields() []string { return []string{h.Name, h.City} }

func (h hotel) FilterValue(field string) (string, bool) {
	switch field {
	case "city":
		return h.City, true
	case "price":
		return strconv.Itoa(h.Price), true
	}
	return "", false
}

var demoHotels = []hotel{
	{ID: "1", Name: "Harbour View", City: "Lisbon", Price: 120},
	{ID: "2", Name: "Old Town Inn", City: "Porto", Price: 85},
	{ID: "3", Name: "Riverside Suites", City: "Lisbon", Price: 150},
	{ID: "4", Name: "Garden Lodge", City: "Braga", Price: 70},
	{ID: "5", Name: "Atlantic Rooms", City: "Porto", Price: 95},
}

// demoLoader serves demoHotels reordered for the seed, with prices nudged by
// a seed dependent offset so reloads are visible.
func demoLoader(engine *variation.Engine) dataset.Loader[hotel] {
	return dataset.LoaderFunc[hotel](func(ctx context.Context, domain string, seed int) ([]hotel, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		perm := engine.Order(seed, domain, len(demoHotels))
		out := variation.Reorder(demoHotels, perm)
		if engine.Policy().Canonical(seed) {
			return out, nil
		}
		for i := range out {
			out[i].Price += engine.VariantIndex(seed, domain+":"+out[i].ID, 10)
		}
		return out, nil
	})
}
