package scans

import (
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
)

// Sections is the column form of the three analyzer sections. An absent
// section is stored as SQL NULL, i.e. a nil slice.
type Sections struct {
	Static     []byte
	Dependency []byte
	AI         []byte
}

func EncodeSections(s *Scan) (Sections, error) {
	var out Sections
	var err error
	if out.Static, err = encodeOption(s.Static); err != nil {
		return Sections{}, fmt.Errorf("encode static_analysis: %w", err)
	}
	if out.Dependency, err = encodeOption(s.Dependency); err != nil {
		return Sections{}, fmt.Errorf("encode dependency_analysis: %w", err)
	}
	if out.AI, err = encodeOption(s.AI); err != nil {
		return Sections{}, fmt.Errorf("encode ai_analysis: %w", err)
	}
	return out, nil
}

func DecodeSections(in Sections, s *Scan) error {
	if err := decodeOption(in.Static, &s.Static); err != nil {
		return fmt.Errorf("decode static_analysis: %w", err)
	}
	if err := decodeOption(in.Dependency, &s.Dependency); err != nil {
		return fmt.Errorf("decode dependency_analysis: %w", err)
	}
	if err := decodeOption(in.AI, &s.AI); err != nil {
		return fmt.Errorf("decode ai_analysis: %w", err)
	}
	return nil
}

func encodeOption[T any](o analysis.Option[T]) ([]byte, error) {
	v, ok := o.Get()
	if !ok {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeOption[T any](b []byte, o *analysis.Option[T]) error {
	if len(b) == 0 {
		*o = analysis.None[T]()
		return nil
	}
	return json.Unmarshal(b, o)
}
