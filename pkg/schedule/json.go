package schedule

import (
	"encoding/json"

	"cloud.google.com/go/civil"
)

type configJSON struct {
	Morning   *civil.Time    `json:"morningTime"`
	Evening   *civil.Time    `json:"eveningTime"`
	Overrides []overrideJSON `json:"overrides"`
}

type overrideJSON struct {
	Date    civil.Date  `json:"date"`
	Morning *civil.Time `json:"morningTime"`
	Evening *civil.Time `json:"eveningTime"`
}

func (c *Config) MarshalJSON() ([]byte, error) {
	morning, evening := c.Morning, c.Evening
	out := configJSON{
		Morning:   &morning,
		Evening:   &evening,
		Overrides: make([]overrideJSON, 0, len(c.overrides)),
	}
	for _, o := range c.Overrides() {
		out.Overrides = append(out.Overrides, overrideJSON{Date: o.Date, Morning: o.Morning, Evening: o.Evening})
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the persisted shape. Missing default times fall back
// to the factory schedule; a repeated date keeps the last override and empty
// overrides are dropped.
func (c *Config) UnmarshalJSON(b []byte) error {
	var in configJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	cfg := DefaultConfig()
	if in.Morning != nil {
		cfg.Morning = *in.Morning
	}
	if in.Evening != nil {
		cfg.Evening = *in.Evening
	}
	for _, o := range in.Overrides {
		cfg.SetOverride(o.Date, o.Morning, o.Evening)
	}
	*c = *cfg
	return nil
}
