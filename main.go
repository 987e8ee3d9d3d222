package main

import (
	"marketplace-matching-api/app"
)

func main() {
	app.Run()
}
