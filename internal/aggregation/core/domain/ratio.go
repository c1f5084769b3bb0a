package domain

// Ratio is an optional quotient. Valid is false when the denominator was zero.
type Ratio struct {
	Value float64
	Valid bool
}

func SafeRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Valid: true}
}

// OrZero collapses an undefined ratio to 0.
func (r Ratio) OrZero() float64 {
	if !r.Valid {
		return 0
	}
	return r.Value
}

// Ptr returns nil for an undefined ratio, for nullable columns and JSON.
func (r Ratio) Ptr() *float64 {
	if !r.Valid {
		return nil
	}
	v := r.Value
	return &v
}

func RatioFromPtr(p *float64) Ratio {
	if p == nil {
		return Ratio{}
	}
	return Ratio{Value: *p, Valid: true}
}
