package main

import "github.com/dddeeprog/NutrientTracker/cmd/nutri"

func main() {
	nutri.Execute()
}
