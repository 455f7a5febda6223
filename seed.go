package sparkling

// Seed is a convenience for passing a fixed random seed to sampling operations,
// which accept a nil seed to mean "choose one at random"
func Seed(n int64) *int64 {
	return &n
}
