package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric field that model output sometimes quotes
// ("risk_score": "7"). Both forms decode; anything else is malformed.
type Number float64

func (n Number) Float() float64 { return float64(n) }

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrMalformed, str)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	*n = Number(f)
	return nil
}
