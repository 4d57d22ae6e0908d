package ml

const (
	LabelLowBurnout  = "Low or No Burnout"
	LabelHighBurnout = "Moderate or High Burnout"
)

// BurnoutCategory maps a class scalar to its label; every non-zero class is
// moderate or high.
func BurnoutCategory(class int) string {
	if class == 0 {
		return LabelLowBurnout
	}
	return LabelHighBurnout
}
