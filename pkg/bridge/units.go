package bridge

import "math"

// ToFahrenheit converts Celsius to Fahrenheit, rounded to the nearest
// whole degree.
func ToFahrenheit(c float64) float64 {
	return math.Round(c*9/5 + 32)
}

// ToCelsius converts Fahrenheit to Celsius, rounded to the nearest half
// degree.
func ToCelsius(f float64) float64 {
	return math.Round((f-32)*5/9*2) / 2
}
