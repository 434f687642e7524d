package domain

import (
	"encoding/json"
	"fmt"
)

func (s InterestSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *InterestSet) UnmarshalJSON(b []byte) error {
	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("decode interests: %w", err)
	}
	*s = NewInterestSet(values...)
	return nil
}
